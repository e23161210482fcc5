package ledger

import "errors"

// Failure taxonomy for ledger operations. The pure functions in this package
// never fail on valid input; these originate in the mutating operations and
// the settlement executor, and are matched with errors.Is.
var (
	// ErrInvalidExpense rejects a malformed expense: non-positive or
	// sub-cent amount, fewer than two participants, or a participant who
	// is not a current member. User-correctable.
	ErrInvalidExpense = errors.New("invalid expense")

	// ErrForbidden rejects an actor without permission: a non-payer
	// deleting an expense, or a non-member acting on a group. Never
	// retried automatically.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict signals a lost settlement race: another commit already
	// touched the expense set. Recoverable by recomputing balances and
	// retrying.
	ErrConflict = errors.New("conflict: expense set changed, recompute and retry")

	// ErrUnavailable signals a storage or transport failure. Retryable
	// with backoff.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
)
