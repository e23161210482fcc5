// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/roomtab/roomtab/internal/models"
)

// Store defines the interface for Roomtab's record store. The engine is
// specified against this abstraction; swapping the backing database must not
// change the service layer.
//
// Implementations translate "row not found" into ledger.ErrNotFound and lost
// write races into ledger.ErrConflict so services can match with errors.Is.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Groups and membership (the member registry).
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// Expenses. Append-only until settlement; deletion is conditional on
	// the row still being unsettled.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context, groupID string, limit int) ([]*models.Expense, error)
	ListUnsettledExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpenseIfUnsettled(ctx context.Context, expenseID string) error
	PurgeSettledBefore(ctx context.Context, cutoff int64) (int64, error)

	// CommitSettlement atomically stamps settledAt on every listed expense
	// and appends the transfer records. Every expense must still be
	// unsettled at commit time; if any is not, nothing is written and
	// ledger.ErrConflict is returned.
	CommitSettlement(ctx context.Context, groupID string, expenseIDs []string, settledAt int64, transfers []*models.SettlementTransfer) error
	ListSettlements(ctx context.Context, groupID string) ([]*models.SettlementTransfer, error)

	// Notifications. Append-only; read receipts only grow.
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, groupID string, limit int) ([]*models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, groupID, userID string) error

	// Grocery list. Item mutations are scoped to the group so an item ID
	// from another group reads as not found.
	CreateGroceryItem(ctx context.Context, item *models.GroceryItem) error
	ListGroceryItems(ctx context.Context, groupID string) ([]*models.GroceryItem, error)
	SetGroceryItemBought(ctx context.Context, groupID, itemID string, bought bool) error
	DeleteGroceryItem(ctx context.Context, groupID, itemID string) error

	// Close releases any resources held by the store.
	Close() error
}
