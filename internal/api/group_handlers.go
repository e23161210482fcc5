package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roomtab/roomtab/internal/middleware"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

// handleCreateGroup creates a group with the caller as first member.
// POST /api/groups
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := s.groupSvc.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// handleJoinGroup adds the caller to an existing group.
// POST /api/groups/{groupID}/join
func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groupSvc.JoinGroup(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// handleLeaveGroup removes the caller from the group.
// POST /api/groups/{groupID}/leave
func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groupSvc.LeaveGroup(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// handleListMembers returns the current member registry view.
// GET /api/groups/{groupID}/members
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.groupSvc.Members(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}
