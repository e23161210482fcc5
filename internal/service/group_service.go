package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
)

// GroupService is the member registry: minimal group lifecycle plus the
// current-members view the ledger consumes.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group with the actor as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, actorID, name string) (*models.Group, error) {
	if name == "" {
		name = "My Room"
	}

	group := &models.Group{Name: name, CreatedBy: actorID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storeErr(err)
	}
	if err := s.store.AddMember(ctx, group.ID, actorID); err != nil {
		slog.Error("CreateGroup: failed to add creator", "group_id", group.ID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("group created", "group_id", group.ID, "created_by", actorID)
	return group, nil
}

// JoinGroup adds the actor to an existing group. Joining twice is a no-op.
func (s *GroupService) JoinGroup(ctx context.Context, groupID, actorID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := s.store.AddMember(ctx, groupID, actorID); err != nil {
		slog.Error("JoinGroup failed", "group_id", groupID, "error", err)
		return nil, storeErr(err)
	}
	slog.Info("member joined", "group_id", groupID, "user_id", actorID)
	return group, nil
}

// LeaveGroup removes the actor from the group. Their past expenses stay on
// the ledger; balance computation keeps charging departed participants.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, actorID string) error {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}
	if err := s.store.RemoveMember(ctx, groupID, actorID); err != nil {
		slog.Error("LeaveGroup failed", "group_id", groupID, "error", err)
		return storeErr(err)
	}
	slog.Info("member left", "group_id", groupID, "user_id", actorID)
	return nil
}

// Members returns the current member set with display names. Only members
// may look at the roster.
func (s *GroupService) Members(ctx context.Context, groupID, actorID string) ([]models.Member, error) {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	return members, nil
}
