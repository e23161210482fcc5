package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roomtab/roomtab/internal/middleware"
)

type addGroceryRequest struct {
	Text string `json:"text"`
	Qty  string `json:"qty"`
}

type setBoughtRequest struct {
	Bought bool `json:"bought"`
}

// handleListGrocery returns the shared shopping list.
// GET /api/groups/{groupID}/grocery
func (s *Server) handleListGrocery(w http.ResponseWriter, r *http.Request) {
	items, err := s.grocerySvc.List(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAddGrocery adds an item to the shopping list.
// POST /api/groups/{groupID}/grocery
func (s *Server) handleAddGrocery(w http.ResponseWriter, r *http.Request) {
	var req addGroceryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "item text is required")
		return
	}

	item, err := s.grocerySvc.Add(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req.Text, req.Qty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleSetGroceryBought flips an item's bought flag.
// PATCH /api/groups/{groupID}/grocery/{itemID}
func (s *Server) handleSetGroceryBought(w http.ResponseWriter, r *http.Request) {
	var req setBoughtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.grocerySvc.SetBought(
		r.Context(),
		chi.URLParam(r, "groupID"),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "itemID"),
		req.Bought,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleDeleteGrocery removes an item from the list.
// DELETE /api/groups/{groupID}/grocery/{itemID}
func (s *Server) handleDeleteGrocery(w http.ResponseWriter, r *http.Request) {
	err := s.grocerySvc.Delete(
		r.Context(),
		chi.URLParam(r, "groupID"),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "itemID"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
