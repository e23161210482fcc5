package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
)

// CreateGroceryItem adds an item to the group's shopping list.
func (s *SQLiteStore) CreateGroceryItem(ctx context.Context, item *models.GroceryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (id, group_id, text, qty, bought, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.GroupID, item.Text, item.Qty, item.Bought, item.CreatedAt, item.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert grocery item: %w", err)
	}
	return nil
}

// ListGroceryItems returns the group's shopping list, unbought first, then
// newest first.
func (s *SQLiteStore) ListGroceryItems(ctx context.Context, groupID string) ([]*models.GroceryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, text, qty, bought, created_at, created_by
		 FROM grocery_items WHERE group_id = ?
		 ORDER BY bought, created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	var items []*models.GroceryItem
	for rows.Next() {
		item := &models.GroceryItem{}
		if err := rows.Scan(&item.ID, &item.GroupID, &item.Text, &item.Qty, &item.Bought,
			&item.CreatedAt, &item.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate grocery items: %w", err)
	}
	return items, nil
}

// SetGroceryItemBought toggles an item's bought flag. The group scope is part
// of the key: an item ID belonging to another group reads as not found.
func (s *SQLiteStore) SetGroceryItemBought(ctx context.Context, groupID, itemID string, bought bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE grocery_items SET bought = ? WHERE id = ? AND group_id = ?",
		bought, itemID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("grocery item %s: %w", itemID, ledger.ErrNotFound)
	}
	return nil
}

// DeleteGroceryItem removes an item from the list, scoped to the group like
// SetGroceryItemBought.
func (s *SQLiteStore) DeleteGroceryItem(ctx context.Context, groupID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM grocery_items WHERE id = ? AND group_id = ?", itemID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("grocery item %s: %w", itemID, ledger.ErrNotFound)
	}
	return nil
}
