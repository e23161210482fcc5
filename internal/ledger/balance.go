package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/roomtab/roomtab/internal/models"
)

// ComputeBalances folds the unsettled expenses into a signed balance per
// member. Positive = net creditor (should receive money), negative = net
// debtor.
//
// Every current member starts at zero. Settled expenses are skipped
// unconditionally; prior transfers already resolved them. Participants who
// have since left the group still carry their charges: the balance map is not
// restricted to current members, so a mid-leave member's debt is preserved.
//
// Splits are exact: an expense of N cents among k participants charges
// floor(N/k) cents each, and the N mod k leftover cents land on the
// lexicographically-first participant IDs. The payer is credited the full
// amount even when not a participant, so the balances always sum to zero.
func ComputeBalances(members []models.Member, expenses []*models.Expense) map[string]decimal.Decimal {
	cents := make(map[string]int64, len(members))
	currentIDs := make([]string, 0, len(members))
	for _, m := range members {
		cents[m.ID] = 0
		currentIDs = append(currentIDs, m.ID)
	}
	sort.Strings(currentIDs)

	for _, e := range expenses {
		if e.Settled() {
			continue
		}
		participants := dedupeSorted(e.SplitScope(currentIDs))
		if len(participants) == 0 {
			continue
		}

		amount := toCents(e.Amount)
		n := int64(len(participants))
		perHead := amount / n
		leftover := amount % n

		for i, pid := range participants {
			share := perHead
			if int64(i) < leftover {
				share++
			}
			cents[pid] -= share
		}
		cents[e.PayerID] += amount
	}

	balances := make(map[string]decimal.Decimal, len(cents))
	for id, c := range cents {
		balances[id] = models.FromCents(c)
	}
	return balances
}

// toCents converts an amount to integer minor units, rounding half-up so
// pre-validation data cannot poison the sum.
func toCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// dedupeSorted returns the unique IDs in ascending order.
func dedupeSorted(ids []string) []string {
	sort.Strings(ids)
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}
