package http

import (
	"net/http"

	"estoque/internal/core"
	applog "estoque/internal/log"
)

type logsResponse struct {
	Month string          `json:"month"`
	Logs  []core.LogEntry `json:"logs"`
}

// handleListLogs returns the entries of a month matching an item search term.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, err := parseMonthQuery(q, s.now().In(s.app.Location()))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	logs, err := s.app.ViewLogs(r.Context(), q.Get("search"), month)
	if err != nil {
		s.fail(w, r, "List logs failed", applog.OpList, err)
		return
	}
	if logs == nil {
		logs = []core.LogEntry{}
	}
	name := core.MonthName(month)
	if name == "" {
		name = "all"
	}
	NewJSONResponse().Body(logsResponse{Month: name, Logs: logs}).Write(w)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.Service().RemoveLog(r.Context(), id); err != nil {
		s.fail(w, r, "Delete log failed", applog.OpDelete, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Log entry deleted", applog.FieldLogID, id)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
