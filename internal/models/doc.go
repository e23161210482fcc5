// Package models defines the core domain records for Roomtab.
//
// The ledger revolves around three record kinds:
//   - Expense: a shared cost paid by one member and split equally among a
//     selected set of participants. Append-only until settled; deletable only
//     by the payer while unsettled.
//   - SettlementTransfer: a realized cash transfer recorded when a group
//     settles up. Append-only and immutable once written.
//   - Notification: an activity event (expense added/deleted, group settled)
//     with a monotonically growing read-receipt set.
//
// Amounts cross the API as decimals but are persisted and computed in integer
// minor units (cents) so equal splits stay exact. See the cents helpers in
// money.go.
//
// Relationships use ID strings rather than pointers to avoid circular
// references between records.
package models
