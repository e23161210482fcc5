package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
)

// NotifyService is the read side of the notification sink: the activity feed
// and read receipts.
type NotifyService struct {
	store storage.Store
}

// NewNotifyService creates a NotifyService with the given storage backend.
func NewNotifyService(store storage.Store) *NotifyService {
	return &NotifyService{store: store}
}

// Feed is a page of notifications plus the actor's unread count.
type Feed struct {
	Notifications []*models.Notification `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// List returns the latest notifications for the group (up to limit, default
// 50) and how many the actor has not read yet.
func (s *NotifyService) List(ctx context.Context, groupID, actorID string, limit int) (*Feed, error) {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}

	notifs, err := s.store.ListNotifications(ctx, groupID, limit)
	if err != nil {
		return nil, storeErr(err)
	}

	unread := 0
	for _, n := range notifs {
		if !slices.Contains(n.ReadBy, actorID) {
			unread++
		}
	}
	return &Feed{Notifications: notifs, Unread: unread}, nil
}

// MarkAllRead adds the actor to the read set of every group notification.
// Receipts only grow; marking twice changes nothing.
func (s *NotifyService) MarkAllRead(ctx context.Context, groupID, actorID string) error {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}

	if err := s.store.MarkAllNotificationsRead(ctx, groupID, actorID); err != nil {
		slog.Error("MarkAllRead failed", "group_id", groupID, "error", err)
		return storeErr(err)
	}
	return nil
}
