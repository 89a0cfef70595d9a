package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"refcycle/calculator"
	"refcycle/model"
	"refcycle/report"
)

// Hub serves one dashboard connection: requests are handled in order and
// replies are written by a single goroutine.
type Hub struct {
	s    *Server
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
}

func NewHub(s *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		s:     s,
		conn:  conn,
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 10),
	}
}

func (h *Hub) handleResponse(ctx context.Context) {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithError(err).Warn("websocket write")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	for {
		select {
		case msg := <-h.msg:
			reply := h.handle(ctx, msg)
			select {
			case h.reply <- reply:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(ctx context.Context, msg model.Msg) model.Msg {
	switch msg.Type {
	case model.TypeDefaults:
		return encode(model.TypeDefaults, h.s.defaults())
	case model.TypeReferenceHelp:
		return encode(model.TypeReferenceHelp, referenceInfo())
	case model.TypeCalculate:
		in := h.s.cfg.Input()
		if err := json.Unmarshal([]byte(msg.Content), &in); err != nil {
			return model.Msg{Type: model.TypeError, Content: "invalid input: " + err.Error()}
		}
		r, err := h.s.evaluate(ctx, in)
		if err != nil {
			return model.Msg{Type: model.TypeError, Content: errorText(err)}
		}
		return encode(model.TypeResult, report.Build(r))
	}
	log.WithField("type", msg.Type).Warn("no such type")
	return model.Msg{Type: model.TypeError, Content: "unknown message type " + msg.Type}
}

func encode(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		return model.Msg{Type: model.TypeError, Content: err.Error()}
	}
	return model.Msg{Type: typ, Content: string(data)}
}

// errorText prefixes property engine failures the way the dashboard shows them.
func errorText(err error) string {
	if isInputError(err) {
		return err.Error()
	}
	return "calculation error: " + err.Error()
}

func isInputError(err error) bool {
	return errors.Is(err, calculator.ErrInvalidInput) || errors.Is(err, calculator.ErrOrdering)
}
