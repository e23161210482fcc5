package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
	"github.com/roomtab/roomtab/internal/storage/sqlite"
)

func seedGroceryGroup(t *testing.T, store storage.Store, userIDs ...string) string {
	t.Helper()
	ctx := context.Background()

	group := &models.Group{Name: "Test House", CreatedBy: userIDs[0]}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, uid := range userIDs {
		user := models.NewUser(uid+"@example.com", uid, "hash")
		user.ID = uid
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if err := store.AddMember(ctx, group.ID, uid); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}
	return group.ID
}

func TestGroceryService(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := NewGroceryService(store)
	ctx := context.Background()
	groupID := seedGroceryGroup(t, store, "alice", "bob")

	item, err := svc.Add(ctx, groupID, "alice", "Milk", "2")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	t.Run("non-members are forbidden", func(t *testing.T) {
		if _, err := svc.List(ctx, groupID, "mallory"); !errors.Is(err, ledger.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
		if _, err := svc.Add(ctx, groupID, "mallory", "Eggs", ""); !errors.Is(err, ledger.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("toggle and delete", func(t *testing.T) {
		if err := svc.SetBought(ctx, groupID, "bob", item.ID, true); err != nil {
			t.Fatalf("SetBought failed: %v", err)
		}
		items, err := svc.List(ctx, groupID, "alice")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 1 || !items[0].Bought {
			t.Errorf("Items = %+v", items)
		}
	})

	t.Run("items in other groups are out of reach", func(t *testing.T) {
		// mallory belongs to a different group; supplying that group's ID
		// with a foreign item ID must not touch the item.
		otherGroupID := seedGroceryGroup(t, store, "mallory")

		if err := svc.Delete(ctx, otherGroupID, "mallory", item.ID); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for cross-group delete, got %v", err)
		}
		if err := svc.SetBought(ctx, otherGroupID, "mallory", item.ID, false); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for cross-group toggle, got %v", err)
		}

		items, err := svc.List(ctx, groupID, "alice")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 1 || !items[0].Bought {
			t.Errorf("Cross-group mutation touched the item: %+v", items)
		}
	})

	t.Run("delete removes the item", func(t *testing.T) {
		if err := svc.Delete(ctx, groupID, "alice", item.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		items, err := svc.List(ctx, groupID, "alice")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("Expected empty list, got %+v", items)
		}
	})
}
