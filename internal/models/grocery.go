package models

// GroceryItem is an entry on the group's shared shopping list.
type GroceryItem struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Text      string `json:"text"`
	Qty       string `json:"qty,omitempty"`
	Bought    bool   `json:"bought"`
	CreatedAt int64  `json:"created_at"`
	CreatedBy string `json:"created_by"`
}
