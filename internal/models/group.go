package models

// Group is a household sharing one ledger: a small set of members, their
// expenses, settlements, notifications and grocery list.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Maple St Apartment").
	Name string `json:"name"`

	// CreatedBy is the user who created the group.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}
