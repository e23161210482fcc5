package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roomtab/roomtab/internal/middleware"
)

// handleListNotifications returns the activity feed plus the caller's
// unread count.
// GET /api/groups/{groupID}/notifications?limit=N
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	feed, err := s.notifySvc.List(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// handleMarkNotificationsRead marks every group notification read for the caller.
// POST /api/groups/{groupID}/notifications/read
func (s *Server) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifySvc.MarkAllRead(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
