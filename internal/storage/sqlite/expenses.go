package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
)

// CreateExpense persists a new expense and its participant set in one
// transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.MonthKey == "" {
		expense.MonthKey = models.MonthKeyFor(expense.CreatedAt)
	}
	cents, err := models.Cents(expense.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidExpense, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, title, amount_cents, payer_id, created_at, settled_at, month_key)
		 VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`,
		expense.ID, expense.GroupID, expense.Title, cents, expense.PayerID, expense.CreatedAt, expense.MonthKey,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, pid := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id) VALUES (?, ?)",
			expense.ID, pid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its participant set.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var cents int64
	var settledAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, amount_cents, payer_id, created_at, settled_at, month_key
		 FROM expenses WHERE id = ?`, expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Title, &cents, &expense.PayerID,
		&expense.CreatedAt, &settledAt, &expense.MonthKey)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.Amount = models.FromCents(cents)
	if settledAt.Valid {
		expense.SettledAt = &settledAt.Int64
	}

	expense.Participants, err = s.expenseParticipants(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns the group's expenses, newest first. A limit of 0 means
// no limit.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, limit int) ([]*models.Expense, error) {
	query := `SELECT id, group_id, title, amount_cents, payer_id, created_at, settled_at, month_key
		  FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`
	args := []any{groupID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryExpenses(ctx, query, args...)
}

// ListUnsettledExpenses returns the expenses not yet folded into a
// settlement, oldest first.
func (s *SQLiteStore) ListUnsettledExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, group_id, title, amount_cents, payer_id, created_at, settled_at, month_key
		 FROM expenses WHERE group_id = ? AND settled_at IS NULL ORDER BY created_at, id`,
		groupID,
	)
}

// DeleteExpenseIfUnsettled removes an expense only while it is unsettled.
// A settled row is never deleted; if the row was settled (or removed) after
// the caller last observed it, the lost race surfaces as ledger.ErrConflict.
func (s *SQLiteStore) DeleteExpenseIfUnsettled(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND settled_at IS NULL", expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var one int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", expenseID).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("expense %s: %w", expenseID, ledger.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check expense: %w", err)
		}
		return fmt.Errorf("expense %s already settled: %w", expenseID, ledger.ErrConflict)
	}
	return nil
}

// PurgeSettledBefore deletes expenses whose settlement timestamp is older
// than the cutoff. Unsettled rows are never touched, so active balances
// cannot be corrupted by retention runs.
func (s *SQLiteStore) PurgeSettledBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE settled_at IS NOT NULL AND settled_at < ?", cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge settled expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var cents int64
		var settledAt sql.NullInt64
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Title, &cents, &expense.PayerID,
			&expense.CreatedAt, &settledAt, &expense.MonthKey); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = models.FromCents(cents)
		if settledAt.Valid {
			expense.SettledAt = &settledAt.Int64
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		expense.Participants, err = s.expenseParticipants(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) expenseParticipants(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, pid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
