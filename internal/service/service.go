// Package service implements Roomtab's application services on top of the
// record store: the ledger (expenses, balances, settlement), the member
// registry, authentication, notifications and the grocery list.
//
// Every mutating operation takes an explicit actorID; authorization is a
// guard at the top of the operation, never ambient state.
package service

import (
	"errors"
	"fmt"

	"github.com/roomtab/roomtab/internal/ledger"
	"github.com/roomtab/roomtab/internal/models"
)

// storeErr normalizes storage failures: domain sentinels pass through, any
// other failure is a transient storage problem and surfaces as
// ledger.ErrUnavailable.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ledger.ErrNotFound, ledger.ErrConflict,
		ledger.ErrInvalidExpense, ledger.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
}

// nameOf resolves a member ID to a display name, falling back to a short ID
// prefix for members who have already left.
func nameOf(members []models.Member, id string) string {
	for _, m := range members {
		if m.ID == id {
			return m.DisplayName
		}
	}
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
