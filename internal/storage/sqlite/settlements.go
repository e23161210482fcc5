package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
)

// CommitSettlement applies a settlement as a single atomic unit: every listed
// expense gets its settled_at stamped, and every transfer row is appended, or
// nothing is written at all.
//
// Each update is guarded on settled_at IS NULL. A guard that affects zero
// rows means the expense was settled or deleted after the caller planned the
// settlement; the transaction rolls back and the race surfaces as
// ledger.ErrConflict so the caller can recompute and retry.
func (s *SQLiteStore) CommitSettlement(ctx context.Context, groupID string, expenseIDs []string, settledAt int64, transfers []*models.SettlementTransfer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range expenseIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE expenses SET settled_at = ? WHERE id = ? AND group_id = ? AND settled_at IS NULL",
			settledAt, id, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to settle expense %s: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected != 1 {
			return fmt.Errorf("expense %s no longer unsettled: %w", id, ledger.ErrConflict)
		}
	}

	for _, t := range transfers {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.CreatedAt == 0 {
			t.CreatedAt = settledAt
		}
		cents, err := models.Cents(t.Amount)
		if err != nil {
			return fmt.Errorf("bad transfer amount: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO settlements (id, group_id, from_id, to_id, amount_cents, created_at, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, groupID, t.FromID, t.ToID, cents, t.CreatedAt, t.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement transfer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

// ListSettlements retrieves the group's settlement transfers, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]*models.SettlementTransfer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_id, to_id, amount_cents, created_at, created_by
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var transfers []*models.SettlementTransfer
	for rows.Next() {
		t := &models.SettlementTransfer{}
		var cents int64
		if err := rows.Scan(&t.ID, &t.GroupID, &t.FromID, &t.ToID, &cents, &t.CreatedAt, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		t.Amount = models.FromCents(cents)
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return transfers, nil
}
