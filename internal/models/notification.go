package models

// Notification event types.
const (
	NotifExpenseAdded   = "expense_added"
	NotifExpenseDeleted = "expense_deleted"
	NotifSettled        = "settled"
)

// Notification is an activity event shown to group members. Append-only;
// ReadBy only ever grows (members add themselves, never remove).
//
// Meta carries enough detail (title, amount, payer/participants, or the
// transfer list) for a client to render a summary without re-querying the
// ledger.
type Notification struct {
	ID        string         `json:"id"`
	GroupID   string         `json:"group_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt int64          `json:"created_at"`
	CreatedBy string         `json:"created_by"`
	ReadBy    []string       `json:"read_by"`
}
