// Package metrics exposes Prometheus collectors for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesAdded counts expenses recorded through the API.
	ExpensesAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomtab_expenses_added_total",
		Help: "Number of expenses recorded.",
	})

	// ExpensesDeleted counts expenses removed by their payer.
	ExpensesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomtab_expenses_deleted_total",
		Help: "Number of expenses deleted before settlement.",
	})

	// SettlementsCommitted counts successful settle-all commits.
	SettlementsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomtab_settlements_committed_total",
		Help: "Number of settlements committed.",
	})

	// SettlementTransfers counts transfer records written by settlements.
	SettlementTransfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomtab_settlement_transfers_total",
		Help: "Number of settlement transfer records written.",
	})

	// SettlementConflicts counts settle-all attempts that lost a race and
	// had to recompute.
	SettlementConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomtab_settlement_conflicts_total",
		Help: "Number of settlement commits aborted by a concurrent change.",
	})
)
