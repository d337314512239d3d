package models

// Settlement is the outcome of discharging a payment amount across a user's
// outstanding splits.
type Settlement struct {
	// UserID is the member who paid.
	UserID string

	// Amount is the payment amount that was offered.
	Amount float64

	// Applied is the part of Amount that discharged splits.
	Applied float64

	// Unapplied is the overpayment that found no outstanding split. It is
	// discarded: there is no credit balance.
	Unapplied float64

	// Settled lists the split records marked as settled, in processing order.
	// The last entry may be a fragment whose amount was reduced to the paid part.
	Settled []*ExpenseSplit

	// Remainder is the new unsettled record created when the last split was
	// only partially covered. Nil when no fragmentation happened.
	Remainder *ExpenseSplit
}

// Fragmented reports whether the settlement split an obligation in two.
func (s *Settlement) Fragmented() bool {
	return s.Remainder != nil
}
