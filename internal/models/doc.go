// Package models defines the core domain models for SharePay.
//
// # Models
//
//   - User: registered account, identified by a unique username and email
//   - Group: named set of members with a unique join tag
//   - Expense: one payment made by a member on the group's behalf
//   - ExpenseSplit: one member's obligation towards a single expense
//   - Settlement: outcome of discharging an amount across outstanding splits
//
// # Design Principles
//
// 1. **IDs over pointers**: relationships are expressed with ID strings, never pointers
// 2. **Explicit optionals**: optional text fields default to "" and are stored as NULL
// 3. **Float amounts**: amounts are float64 and compared with [Epsilon]
//
// Splits are never created for the payer of an expense. A split may be
// fragmented by a partial settlement into a settled record and an unsettled
// remainder; both keep the same ExpenseID and UserID.
package models
