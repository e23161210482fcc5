package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
)

// GroceryService manages the group's shared shopping list.
type GroceryService struct {
	store storage.Store
}

// NewGroceryService creates a GroceryService with the given storage backend.
func NewGroceryService(store storage.Store) *GroceryService {
	return &GroceryService{store: store}
}

func (s *GroceryService) requireMember(ctx context.Context, groupID, actorID string) error {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}
	return nil
}

// List returns the group's shopping list.
func (s *GroceryService) List(ctx context.Context, groupID, actorID string) ([]*models.GroceryItem, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	items, err := s.store.ListGroceryItems(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// Add appends a new item to the list.
func (s *GroceryService) Add(ctx context.Context, groupID, actorID, text, qty string) (*models.GroceryItem, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	item := &models.GroceryItem{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Text:      text,
		Qty:       qty,
		CreatedBy: actorID,
	}
	if err := s.store.CreateGroceryItem(ctx, item); err != nil {
		slog.Error("grocery add failed", "group_id", groupID, "error", err)
		return nil, storeErr(err)
	}
	return item, nil
}

// SetBought flips an item's bought flag. The store call is scoped to the
// actor's group, so an item ID from another group reads as not found.
func (s *GroceryService) SetBought(ctx context.Context, groupID, actorID, itemID string, bought bool) error {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return err
	}
	if err := s.store.SetGroceryItemBought(ctx, groupID, itemID, bought); err != nil {
		return storeErr(err)
	}
	return nil
}

// Delete removes an item from the list, scoped to the group like SetBought.
func (s *GroceryService) Delete(ctx context.Context, groupID, actorID, itemID string) error {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return err
	}
	if err := s.store.DeleteGroceryItem(ctx, groupID, itemID); err != nil {
		return storeErr(err)
	}
	return nil
}
