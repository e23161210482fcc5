package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/roomtab/roomtab/internal/models"
)

// epsCents is the settlement tolerance: one minor currency unit. Positions
// within a cent of zero are treated as settled rather than generating
// one-cent payments.
const epsCents = int64(1)

// Transfer is one planned point-to-point payment.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// position is one side of the match: a member and how many cents they still
// owe or are owed.
type position struct {
	id    string
	cents int64
}

// PlanSettlement converts balances into a list of transfers that zeroes every
// balance (within the one-cent tolerance).
//
// Members are partitioned into creditors and debtors in ascending ID order,
// then matched with a two-pointer greedy walk: pay min(debt, credit), advance
// whichever side is exhausted. This produces at most debtors+creditors-1
// transfers and a deterministic plan for a given balance map. It does not
// chase the globally minimal transfer count (a subset-sum matcher could
// occasionally do better); the greedy behavior is kept deliberately.
func PlanSettlement(balances map[string]decimal.Decimal) []Transfer {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var creditors, debtors []position
	for _, id := range ids {
		c := toCents(balances[id])
		switch {
		case c > epsCents:
			creditors = append(creditors, position{id: id, cents: c})
		case c < -epsCents:
			debtors = append(debtors, position{id: id, cents: -c})
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		pay := debtors[i].cents
		if creditors[j].cents < pay {
			pay = creditors[j].cents
		}

		if pay > epsCents {
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: models.FromCents(pay),
			})
		}

		debtors[i].cents -= pay
		creditors[j].cents -= pay

		if debtors[i].cents <= epsCents {
			i++
		}
		if creditors[j].cents <= epsCents {
			j++
		}
	}

	return transfers
}
