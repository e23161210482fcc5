package models

import "github.com/shopspring/decimal"

// SettlementTransfer records one realized payment between members: the cash
// moved outside the system, the ledger keeps the receipt. Rows are
// append-only and immutable once written.
type SettlementTransfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string `json:"id"`

	// GroupID is the group this transfer belongs to.
	GroupID string `json:"group_id"`

	// FromID is the debtor who paid.
	FromID string `json:"from_id"`

	// ToID is the creditor who received the payment.
	ToID string `json:"to_id"`

	// Amount is the payment amount in whole cents.
	Amount decimal.Decimal `json:"amount"`

	// CreatedAt is the Unix timestamp of the settlement commit.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the member who triggered the settlement.
	CreatedBy string `json:"created_by"`
}
