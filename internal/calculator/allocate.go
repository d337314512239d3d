package calculator

import "github.com/mmynk/sharepay/internal/models"

// Fragment describes an obligation that is only partly covered by a payment.
type Fragment struct {
	// Index is the position of the split in the input slice.
	Index int
	// Settled is the part paid now; the split keeps this amount.
	Settled float64
	// Remainder is the unpaid part that moves to a new open split.
	Remainder float64
}

// Allocation is the plan for discharging a payment across obligations.
type Allocation struct {
	// Full holds the indexes of obligations paid in full, ascending.
	Full []int
	// Partial is the obligation that was fragmented, if any. It always
	// follows the last index in Full.
	Partial *Fragment
	// Applied is the amount that discharged obligations.
	Applied float64
	// Unapplied is the overpayment left after every obligation was covered.
	Unapplied float64
}

// Allocate walks amounts in order and greedily discharges payment:
//   - while the payment covers the current obligation (within models.Epsilon)
//     it is paid in full and the walk continues;
//   - a payment smaller than the current obligation fragments it and stops;
//   - an exhausted payment stops the walk, later obligations stay open;
//   - a payment left over after the last obligation is reported as Unapplied.
//
// The order of amounts is never changed.
func Allocate(amounts []float64, payment float64) Allocation {
	var alloc Allocation
	remaining := payment

	for i, amount := range amounts {
		if remaining <= models.Epsilon {
			break
		}

		if remaining >= amount-models.Epsilon {
			alloc.Full = append(alloc.Full, i)
			alloc.Applied += amount
			remaining -= amount
			continue
		}

		alloc.Partial = &Fragment{
			Index:     i,
			Settled:   remaining,
			Remainder: amount - remaining,
		}
		alloc.Applied += remaining
		remaining = 0
		break
	}

	if remaining > models.Epsilon {
		alloc.Unapplied = remaining
	}

	return alloc
}
