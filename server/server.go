package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"refcycle/calculator"
	"refcycle/config"
	"refcycle/fluid"
	"refcycle/model"
)

// Sink receives every successful calculation, e.g. the MQTT publisher.
type Sink interface {
	Publish(r *calculator.Result) error
}

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	cfg      *config.Config
	sink     Sink
}

// NewServer wires the dashboard and API. sink may be nil.
func NewServer(cfg *config.Config, upgrader websocket.Upgrader, sink Sink) *Server {
	return &Server{
		addr:     cfg.Server.Addr,
		upgrader: upgrader,
		cfg:      cfg,
		sink:     sink,
	}
}

// evaluate runs one calculation with the configured options and hands the
// result to the sink.
func (s *Server) evaluate(ctx context.Context, in calculator.Input) (*calculator.Result, error) {
	r, err := calculator.Evaluate(ctx, in, s.cfg.Options())
	if err != nil {
		log.WithFields(log.Fields{
			"refrigerant": in.Refrigerant,
			"evaporator":  in.Evaporator.String(),
			"condenser":   in.Condenser.String(),
		}).WithError(err).Warn("calculation failed")
		return nil, err
	}
	if s.sink != nil {
		if err := s.sink.Publish(r); err != nil {
			log.WithError(err).Warn("publishing metrics failed")
		}
	}
	return r, nil
}

func (s *Server) defaults() model.Defaults {
	d := model.Defaults{
		Input:              s.cfg.Input(),
		EvaporatorPressure: s.cfg.Defaults.EvaporatorPressure,
		CondenserPressure:  s.cfg.Defaults.CondenserPressure,
		Refrigerants:       fluid.Names,
	}
	for _, r := range fluid.ReferenceStates {
		d.ReferenceStates = append(d.ReferenceStates, r.String())
	}
	return d
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	hub := NewHub(s, conn)
	go hub.handleRequest(ctx)
	go hub.handleResponse(ctx)

	log.WithField("remote", r.RemoteAddr).Info("dashboard connected")
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("websocket read")
			}
			break
		}
		select {
		case hub.msg <- msg:
		case <-ctx.Done():
		}
	}
	log.WithField("remote", r.RemoteAddr).Info("dashboard disconnected")
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("listening")
	err := http.ListenAndServe(s.addr, s.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
