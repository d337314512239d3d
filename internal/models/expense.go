package models

import "time"

// Epsilon is the tolerance used when comparing amounts. It absorbs the
// floating-point drift introduced by equal-share division.
const Epsilon = 1e-9

// Expense is a single payment made by one member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group that owns the expense.
	GroupID string

	// PayerID is the user who paid. The payer is a member of the group at
	// creation time and never owes a split on their own expense.
	PayerID string

	// Description is a short human-readable label (e.g., "Snacks").
	Description string

	// Amount is the positive total that was paid.
	Amount float64

	// Date is when the payment happened. Defaults to the creation time.
	Date time.Time

	// Location is optional free text; "" when absent.
	Location string

	// ReceiptRef is an optional reference to an uploaded receipt; "" when absent.
	ReceiptRef string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Splits are the obligations generated for the expense. Only populated by
	// reads that load splits.
	Splits []*ExpenseSplit
}

// ExpenseSplit is one member's obligation towards one expense.
type ExpenseSplit struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// Seq is the store-assigned creation sequence. Outstanding splits are
	// always processed in ascending Seq order.
	Seq int64

	// ExpenseID is the expense this obligation belongs to.
	ExpenseID string

	// UserID is the member who owes Amount to the expense's payer.
	UserID string

	// Amount is the owed (or, once settled, paid) amount.
	Amount float64

	// IsSettled reports whether this record has been paid.
	IsSettled bool

	// ReceiptRef optionally references proof of payment captured at
	// settlement time; "" when absent.
	ReceiptRef string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64

	// SettledAt is the Unix timestamp when the record was settled, 0 if open.
	SettledAt int64
}
