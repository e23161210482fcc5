package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/metrics"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
)

// LedgerService is the mutating surface of the balance ledger: recording and
// deleting expenses, previewing balances, and the settle-all executor.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// BalanceSheet is the preview returned before a settlement is confirmed:
// current balances and the transfers that would zero them.
type BalanceSheet struct {
	Balances  map[string]decimal.Decimal `json:"balances"`
	Transfers []ledger.Transfer          `json:"transfers"`
}

// requireMember fails with ErrForbidden unless the actor currently belongs to
// the group.
func (s *LedgerService) requireMember(ctx context.Context, groupID, actorID string) error {
	ok, err := s.store.IsMember(ctx, groupID, actorID)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return fmt.Errorf("user %s is not a member of group %s: %w", actorID, groupID, ledger.ErrForbidden)
	}
	return nil
}

// ListExpenses returns the group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID, actorID string, limit int) ([]*models.Expense, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return expenses, nil
}

// AddExpense validates and records a new shared expense. An empty payerID
// means the actor paid; a different payerID records the expense on the
// payer's behalf.
func (s *LedgerService) AddExpense(ctx context.Context, groupID, actorID, title string, amount decimal.Decimal, payerID string, participantIDs []string) (*models.Expense, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	if payerID == "" {
		payerID = actorID
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}

	expense := &models.Expense{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		Title:        title,
		Amount:       amount,
		PayerID:      payerID,
		Participants: participantIDs,
		CreatedAt:    time.Now().Unix(),
	}
	if err := validateExpense(expense, members); err != nil {
		slog.Warn("expense rejected", "group_id", groupID, "actor_id", actorID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", groupID, "error", err)
		return nil, storeErr(err)
	}
	metrics.ExpensesAdded.Inc()

	s.notify(ctx, &models.Notification{
		GroupID:   groupID,
		Type:      models.NotifExpenseAdded,
		Title:     "Expense added",
		Body:      fmt.Sprintf("%s added %q for $%s", nameOf(members, payerID), title, amount.StringFixed(2)),
		Meta: map[string]any{
			"expense_id":   expense.ID,
			"title":        title,
			"amount":       amount.StringFixed(2),
			"payer_id":     payerID,
			"participants": expense.Participants,
		},
		CreatedBy: actorID,
	})

	slog.Info("expense added", "group_id", groupID, "expense_id", expense.ID,
		"amount", amount.StringFixed(2), "participants", len(expense.Participants))
	return expense, nil
}

// RemoveExpense deletes an unsettled expense. Only the payer may delete, and
// never after settlement.
func (s *LedgerService) RemoveExpense(ctx context.Context, groupID, actorID, expenseID string) error {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return err
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return storeErr(err)
	}
	if expense.GroupID != groupID {
		return fmt.Errorf("expense %s: %w", expenseID, ledger.ErrNotFound)
	}
	if expense.Settled() {
		return fmt.Errorf("expense %s is settled: %w", expenseID, ledger.ErrForbidden)
	}
	if expense.PayerID != actorID {
		return fmt.Errorf("only the payer can delete an expense: %w", ledger.ErrForbidden)
	}

	// The delete re-checks settled_at, so a settlement that lands between
	// the read above and here turns into a conflict, not a lost record.
	if err := s.store.DeleteExpenseIfUnsettled(ctx, expenseID); err != nil {
		slog.Warn("RemoveExpense failed", "expense_id", expenseID, "error", err)
		return storeErr(err)
	}
	metrics.ExpensesDeleted.Inc()

	members, merr := s.store.ListMembers(ctx, groupID)
	if merr != nil {
		members = nil
	}
	s.notify(ctx, &models.Notification{
		GroupID:   groupID,
		Type:      models.NotifExpenseDeleted,
		Title:     "Expense deleted",
		Body:      fmt.Sprintf("%s deleted %q ($%s)", nameOf(members, actorID), expense.Title, expense.Amount.StringFixed(2)),
		Meta:      map[string]any{"expense_id": expenseID},
		CreatedBy: actorID,
	})

	slog.Info("expense deleted", "group_id", groupID, "expense_id", expenseID)
	return nil
}

// Balances computes the current balance sheet: per-member signed balances
// over the unsettled expenses, plus the planned transfers. Pure read, safe to
// call as often as the UI refreshes.
func (s *LedgerService) Balances(ctx context.Context, groupID, actorID string) (*BalanceSheet, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	members, expenses, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := ledger.ComputeBalances(members, expenses)
	return &BalanceSheet{
		Balances:  balances,
		Transfers: ledger.PlanSettlement(balances),
	}, nil
}

// SettleAll zeroes every balance in one atomic action: it recomputes balances
// from the live unsettled set, plans the transfers, marks every unsettled
// expense settled and appends the transfer records in a single transaction,
// then emits a best-effort notification.
//
// With nothing to settle it is a no-op returning an empty list, which also
// makes a retry after a confirmed commit safe. If a concurrent commit changes
// the expense set underneath us, the commit aborts; one automatic recompute
// is attempted before the conflict is returned to the caller.
func (s *LedgerService) SettleAll(ctx context.Context, groupID, actorID string) ([]*models.SettlementTransfer, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	const attempts = 2
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		transfers, err := s.settleOnce(ctx, groupID, actorID)
		if err == nil {
			return transfers, nil
		}
		lastErr = err
		if !errors.Is(err, ledger.ErrConflict) {
			return nil, err
		}
		metrics.SettlementConflicts.Inc()
		slog.Warn("settlement raced with a concurrent change, recomputing",
			"group_id", groupID, "attempt", attempt)
	}
	return nil, lastErr
}

func (s *LedgerService) settleOnce(ctx context.Context, groupID, actorID string) ([]*models.SettlementTransfer, error) {
	members, expenses, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return []*models.SettlementTransfer{}, nil
	}

	balances := ledger.ComputeBalances(members, expenses)
	plan := ledger.PlanSettlement(balances)
	if len(plan) == 0 {
		return []*models.SettlementTransfer{}, nil
	}

	now := time.Now().Unix()
	expenseIDs := make([]string, len(expenses))
	for i, e := range expenses {
		expenseIDs[i] = e.ID
	}
	transfers := make([]*models.SettlementTransfer, len(plan))
	for i, t := range plan {
		transfers[i] = &models.SettlementTransfer{
			ID:        uuid.New().String(),
			GroupID:   groupID,
			FromID:    t.From,
			ToID:      t.To,
			Amount:    t.Amount,
			CreatedAt: now,
			CreatedBy: actorID,
		}
	}

	if err := s.store.CommitSettlement(ctx, groupID, expenseIDs, now, transfers); err != nil {
		return nil, storeErr(err)
	}
	metrics.SettlementsCommitted.Inc()
	metrics.SettlementTransfers.Add(float64(len(transfers)))

	plural := "s"
	if len(transfers) == 1 {
		plural = ""
	}
	s.notify(ctx, &models.Notification{
		GroupID:   groupID,
		Type:      models.NotifSettled,
		Title:     "Group settled up",
		Body:      fmt.Sprintf("%s settled up (%d payment%s)", nameOf(members, actorID), len(transfers), plural),
		Meta:      map[string]any{"transfers": plan},
		CreatedBy: actorID,
	})

	slog.Info("settlement committed", "group_id", groupID, "actor_id", actorID,
		"expenses", len(expenseIDs), "transfers", len(transfers))
	return transfers, nil
}

// ListSettlements returns the group's settlement history, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID, actorID string) ([]*models.SettlementTransfer, error) {
	if err := s.requireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	transfers, err := s.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	return transfers, nil
}

// snapshot reads the inputs of a balance computation: current members and the
// unsettled expense set.
func (s *LedgerService) snapshot(ctx context.Context, groupID string) ([]models.Member, []*models.Expense, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	expenses, err := s.store.ListUnsettledExpenses(ctx, groupID)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	return members, expenses, nil
}

// notify appends a notification, best-effort: ledger consistency matters,
// notification loss is tolerable.
func (s *LedgerService) notify(ctx context.Context, n *models.Notification) {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("failed to record notification", "group_id", n.GroupID, "type", n.Type, "error", err)
	}
}

// validateExpense enforces the creation invariants: positive whole-cent
// amount, a title, at least two participants, and every participant and the
// payer drawn from the current member set.
func validateExpense(expense *models.Expense, members []models.Member) error {
	if expense.Title == "" {
		return fmt.Errorf("title required: %w", ledger.ErrInvalidExpense)
	}
	cents, err := models.Cents(expense.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidExpense, err)
	}
	if cents <= 0 {
		return fmt.Errorf("amount must be positive: %w", ledger.ErrInvalidExpense)
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m.ID] = true
	}
	if !memberSet[expense.PayerID] {
		return fmt.Errorf("payer %s is not a member: %w", expense.PayerID, ledger.ErrInvalidExpense)
	}

	seen := make(map[string]bool, len(expense.Participants))
	unique := expense.Participants[:0]
	for _, pid := range expense.Participants {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		if !memberSet[pid] {
			return fmt.Errorf("participant %s is not a member: %w", pid, ledger.ErrInvalidExpense)
		}
		unique = append(unique, pid)
	}
	expense.Participants = unique
	if len(unique) < 2 {
		return fmt.Errorf("select at least 2 people for the split: %w", ledger.ErrInvalidExpense)
	}
	return nil
}
