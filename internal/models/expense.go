package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a shared cost paid by one member.
//
// Title, amount, payer and participants are immutable after creation so that
// balance math stays auditable; the only mutation ever applied is the
// settlement engine stamping SettledAt, and the only deletion allowed is by
// the payer while SettledAt is unset.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string `json:"group_id"`

	// Title is the human-readable label (e.g., "Chicken", "Rent").
	Title string `json:"title"`

	// Amount is the full cost, a whole number of cents, always > 0.
	Amount decimal.Decimal `json:"amount"`

	// PayerID is the member who fronted the money. The payer does not have
	// to be one of the participants (an on-behalf purchase).
	PayerID string `json:"payer_id"`

	// Participants are the member IDs splitting the cost equally.
	// Empty only for rows predating explicit splits; see SplitScope.
	Participants []string `json:"participants"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`

	// SettledAt is the Unix timestamp of the settlement that folded this
	// expense in, or nil while it is still outstanding.
	SettledAt *int64 `json:"settled_at"`

	// MonthKey is the YYYY-MM bucket of CreatedAt, kept for retention
	// bookkeeping.
	MonthKey string `json:"month_key"`
}

// Settled reports whether the expense has been folded into a settlement.
func (e *Expense) Settled() bool {
	return e.SettledAt != nil
}

// SplitScope resolves who actually shares an expense.
//
// Expenses created through the API always store an explicit participant set,
// frozen at creation time. Rows without one (legacy data) fall back to the
// full current member set; that resolution happens exactly once, before
// balance computation, and the result is never re-resolved.
func (e *Expense) SplitScope(currentMemberIDs []string) []string {
	if len(e.Participants) > 0 {
		out := make([]string, len(e.Participants))
		copy(out, e.Participants)
		return out
	}
	out := make([]string, len(currentMemberIDs))
	copy(out, currentMemberIDs)
	return out
}

// MonthKeyFor returns the YYYY-MM bucket for a Unix timestamp.
func MonthKeyFor(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01")
}
