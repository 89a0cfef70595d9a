package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"refcycle/calculator"
	"refcycle/fluid"
	"refcycle/model"
	"refcycle/report"
)

// Handler routes the REST API, the dashboard websocket and the static page.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/api/refrigerants", s.refrigerants)
	router.GET("/api/reference-states", s.referenceStates)
	router.GET("/api/defaults", s.defaultsRoute)
	router.POST("/api/cycle", s.cycle)
	router.POST("/api/cycle/xlsx", s.cycleXLSX)
	router.GET("/ws", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.serveWs(w, r)
	})
	if path := s.cfg.Server.DiagramPath; path != "" {
		router.GET("/diagram", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			http.ServeFile(w, r, path)
		})
	}
	router.NotFound = http.FileServer(http.Dir(s.cfg.Server.StaticDir))
	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("error marshaling")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	if isInputError(err) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, model.ErrorReply{Error: errorText(err)})
}

func referenceInfo() model.ReferenceInfo {
	info := model.ReferenceInfo{Help: fluid.ReferenceHelp, About: report.About}
	for _, r := range fluid.ReferenceStates {
		info.States = append(info.States, r.String())
	}
	return info
}

func (s *Server) refrigerants(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, fluid.Names)
}

func (s *Server) referenceStates(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, referenceInfo())
}

func (s *Server) defaultsRoute(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.defaults())
}

// decode reads an Input; omitted fields keep the configured defaults.
func (s *Server) decode(r *http.Request) (*calculator.Result, error) {
	in := s.cfg.Input()
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", calculator.ErrInvalidInput, err)
	}
	return s.evaluate(r.Context(), in)
}

func (s *Server) cycle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, err := s.decode(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Build(res))
}

func (s *Server) cycleXLSX(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, err := s.decode(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cycle-%s.xlsx"`, res.ID))
	if err := report.WriteXLSX(w, res); err != nil {
		log.WithError(err).Warn("xlsx export failed")
	}
}
