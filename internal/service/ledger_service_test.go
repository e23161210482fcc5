package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
	"github.com/roomtab/roomtab/internal/storage"
	"github.com/roomtab/roomtab/internal/storage/sqlite"
)

func newTestLedger(t *testing.T, memberIDs ...string) (*LedgerService, storage.Store, string) {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	group := &models.Group{Name: "Test House", CreatedBy: memberIDs[0]}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, uid := range memberIDs {
		user := models.NewUser(uid+"@example.com", uid, "hash")
		user.ID = uid
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if err := store.AddMember(ctx, group.ID, uid); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	return NewLedgerService(store), store, group.ID
}

func TestAddExpenseValidation(t *testing.T) {
	svc, _, groupID := newTestLedger(t, "alice", "bob", "carol")
	ctx := context.Background()

	tests := []struct {
		name         string
		actorID      string
		title        string
		amount       string
		payerID      string
		participants []string
		wantErr      error
	}{
		{
			name:    "non-member actor is forbidden",
			actorID: "mallory", title: "Sneaky", amount: "10.00",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrForbidden,
		},
		{
			name:    "empty title rejected",
			actorID: "alice", title: "", amount: "10.00",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "zero amount rejected",
			actorID: "alice", title: "Nothing", amount: "0",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "negative amount rejected",
			actorID: "alice", title: "Refund", amount: "-5.00",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "fractional cents rejected",
			actorID: "alice", title: "Gas", amount: "3.333",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "payer must be a member",
			actorID: "alice", title: "Dinner", amount: "10.00", payerID: "mallory",
			participants: []string{"alice", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "participants must be members",
			actorID: "alice", title: "Dinner", amount: "10.00",
			participants: []string{"alice", "mallory"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "at least two participants required",
			actorID: "alice", title: "Solo", amount: "10.00",
			participants: []string{"alice"},
			wantErr:      ledger.ErrInvalidExpense,
		},
		{
			name:    "duplicates collapse below the minimum",
			actorID: "alice", title: "Dup", amount: "10.00",
			participants: []string{"bob", "bob"},
			wantErr:      ledger.ErrInvalidExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExpense(ctx, groupID, tt.actorID, tt.title,
				decimal.RequireFromString(tt.amount), tt.payerID, tt.participants)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddExpense error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddExpense(t *testing.T) {
	svc, store, groupID := newTestLedger(t, "alice", "bob", "carol")
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, groupID, "alice", "Chicken",
		decimal.RequireFromString("12.50"), "", []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if expense.PayerID != "alice" {
		t.Errorf("Empty payerID should default to the actor, got %s", expense.PayerID)
	}
	if expense.Settled() {
		t.Error("New expense should be unsettled")
	}

	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("Amount = %s, want 12.50", got.Amount)
	}

	notifs, err := store.ListNotifications(ctx, groupID, 0)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != models.NotifExpenseAdded {
		t.Errorf("Expected one expense_added notification, got %+v", notifs)
	}
}

func TestRemoveExpense(t *testing.T) {
	svc, _, groupID := newTestLedger(t, "alice", "bob")
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, groupID, "alice", "Rent",
		decimal.RequireFromString("800.00"), "", []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	t.Run("only the payer can delete", func(t *testing.T) {
		err := svc.RemoveExpense(ctx, groupID, "bob", expense.ID)
		if !errors.Is(err, ledger.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("settled expenses cannot be deleted", func(t *testing.T) {
		if _, err := svc.SettleAll(ctx, groupID, "alice"); err != nil {
			t.Fatalf("SettleAll failed: %v", err)
		}
		err := svc.RemoveExpense(ctx, groupID, "alice", expense.ID)
		if !errors.Is(err, ledger.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("payer deletes an unsettled expense", func(t *testing.T) {
		fresh, err := svc.AddExpense(ctx, groupID, "alice", "Oops",
			decimal.RequireFromString("3.00"), "", []string{"alice", "bob"})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if err := svc.RemoveExpense(ctx, groupID, "alice", fresh.ID); err != nil {
			t.Fatalf("RemoveExpense failed: %v", err)
		}
		if _, err := svc.ListExpenses(ctx, groupID, "alice", 0); err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
	})

	t.Run("unknown expense is not found", func(t *testing.T) {
		err := svc.RemoveExpense(ctx, groupID, "alice", "no-such-expense")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestBalances(t *testing.T) {
	svc, _, groupID := newTestLedger(t, "alice", "bob", "carol")
	ctx := context.Background()

	t.Run("fresh group is all zeros with no transfers", func(t *testing.T) {
		sheet, err := svc.Balances(ctx, groupID, "alice")
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		for id, b := range sheet.Balances {
			if !b.IsZero() {
				t.Errorf("balance[%s] = %s, want 0", id, b)
			}
		}
		if len(sheet.Transfers) != 0 {
			t.Errorf("Expected no transfers, got %v", sheet.Transfers)
		}
	})

	t.Run("non-member cannot read balances", func(t *testing.T) {
		_, err := svc.Balances(ctx, groupID, "mallory")
		if !errors.Is(err, ledger.ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})

	t.Run("sheet reflects the unsettled ledger", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, groupID, "alice", "Dinner",
			decimal.RequireFromString("60.00"), "", []string{"alice", "bob", "carol"})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}

		sheet, err := svc.Balances(ctx, groupID, "bob")
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		if !sheet.Balances["alice"].Equal(decimal.RequireFromString("40.00")) {
			t.Errorf("alice balance = %s, want 40.00", sheet.Balances["alice"])
		}
		if !sheet.Balances["bob"].Equal(decimal.RequireFromString("-20.00")) {
			t.Errorf("bob balance = %s, want -20.00", sheet.Balances["bob"])
		}
		if len(sheet.Transfers) != 2 {
			t.Errorf("Expected 2 planned transfers, got %v", sheet.Transfers)
		}
	})
}

func TestSettleAll(t *testing.T) {
	svc, store, groupID := newTestLedger(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, groupID, "alice", "Dinner",
		decimal.RequireFromString("60.00"), "", []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	_, err = svc.AddExpense(ctx, groupID, "bob", "Drinks",
		decimal.RequireFromString("15.00"), "", []string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	transfers, err := svc.SettleAll(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("SettleAll failed: %v", err)
	}
	if len(transfers) == 0 {
		t.Fatal("Expected transfers, got none")
	}

	// The plan must exactly cover what each debtor owed: carol owed 25,
	// bob owed 10 net of the drinks he fronted.
	paid := make(map[string]decimal.Decimal)
	for _, tr := range transfers {
		paid[tr.FromID] = paid[tr.FromID].Add(tr.Amount)
		if tr.GroupID != groupID || tr.CreatedBy != "alice" {
			t.Errorf("Transfer metadata wrong: %+v", tr)
		}
	}
	if !paid["carol"].Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("carol paid %s, want 25.00", paid["carol"])
	}
	if !paid["bob"].Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("bob paid %s, want 10.00", paid["bob"])
	}

	t.Run("balances are zero after settlement", func(t *testing.T) {
		sheet, err := svc.Balances(ctx, groupID, "alice")
		if err != nil {
			t.Fatalf("Balances failed: %v", err)
		}
		for id, b := range sheet.Balances {
			if !b.IsZero() {
				t.Errorf("balance[%s] = %s after settlement, want 0", id, b)
			}
		}
	})

	t.Run("second settle is a no-op", func(t *testing.T) {
		again, err := svc.SettleAll(ctx, groupID, "bob")
		if err != nil {
			t.Fatalf("SettleAll failed: %v", err)
		}
		if len(again) != 0 {
			t.Errorf("Expected no transfers on an already-settled ledger, got %v", again)
		}
	})

	t.Run("history survives", func(t *testing.T) {
		history, err := svc.ListSettlements(ctx, groupID, "carol")
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(history) != len(transfers) {
			t.Errorf("History has %d transfers, want %d", len(history), len(transfers))
		}
	})

	t.Run("every expense is stamped", func(t *testing.T) {
		unsettled, err := store.ListUnsettledExpenses(ctx, groupID)
		if err != nil {
			t.Fatalf("ListUnsettledExpenses failed: %v", err)
		}
		if len(unsettled) != 0 {
			t.Errorf("Expected no unsettled expenses, got %d", len(unsettled))
		}
	})
}

func TestSettleAllEmptyLedger(t *testing.T) {
	svc, _, groupID := newTestLedger(t, "alice", "bob")
	ctx := context.Background()

	transfers, err := svc.SettleAll(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("SettleAll failed: %v", err)
	}
	if len(transfers) != 0 {
		t.Errorf("Expected no transfers, got %v", transfers)
	}
}
