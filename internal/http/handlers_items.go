package http

import (
	"net/http"

	"estoque/internal/core"
	applog "estoque/internal/log"
	"estoque/internal/view"
)

type itemsResponse struct {
	Items []core.Item `json:"items"`
	// Restock lists the ids of items at or below their alert quantity.
	Restock []string `json:"restock"`
}

type mutationResponse struct {
	Item core.Item      `json:"item"`
	Log  *core.LogEntry `json:"log,omitempty"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items := s.app.Service().Items()
	restock := []string{}
	for _, it := range view.Restock(items) {
		restock = append(restock, it.ID)
	}
	NewJSONResponse().Body(itemsResponse{Items: items, Restock: restock}).Write(w)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	m, err := s.app.Service().Add(r.Context(), req.item(""))
	if err != nil {
		s.fail(w, r, "Create item failed", applog.OpCreate, err)
		return
	}
	s.events.LogItemMutation(r.Context(), applog.OpCreate, m)
	NewJSONResponse().Status(http.StatusCreated).Body(mutationResponse{Item: m.Item, Log: m.Entry}).Write(w)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	m, err := s.app.Service().Edit(r.Context(), req.item(r.PathValue("id")))
	if err != nil {
		s.fail(w, r, "Update item failed", applog.OpUpdate, err)
		return
	}
	s.events.LogItemMutation(r.Context(), applog.OpUpdate, m)
	NewJSONResponse().Body(mutationResponse{Item: m.Item, Log: m.Entry}).Write(w)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.Service().Remove(r.Context(), id); err != nil {
		s.fail(w, r, "Delete item failed", applog.OpDelete, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Item deleted", applog.FieldItemID, id)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string][][]string{"options": s.app.Service().Options().List()}).Write(w)
}

// fail logs server-side failures and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg, op string, err error) {
	resp := ErrorFor(err)
	if resp.statusCode >= http.StatusInternalServerError {
		s.events.LogError(r.Context(), msg, err, applog.ComponentHTTP, op, nil)
	} else {
		applog.FromContext(r.Context()).DebugContext(r.Context(), msg, applog.FieldError, err)
	}
	resp.Write(w)
}
