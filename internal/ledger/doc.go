// Package ledger is the balance and settlement engine.
//
// ComputeBalances and PlanSettlement are pure functions with no side effects;
// they are safe to call repeatedly and concurrently, and the service layer
// re-invokes them whenever the underlying expense set changes. All arithmetic
// runs in integer minor units (cents), so the conservation law (the sum of
// all balances is zero) holds exactly, not just within tolerance.
package ledger
