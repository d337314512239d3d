package calculator

import "github.com/mmynk/sharepay/internal/models"

// Share is one member's obligation produced by an equal split.
type Share struct {
	UserID string
	Amount float64
}

// EqualShare returns amount divided by the number of members. No rounding is
// applied: residual fractions of a cent stay with the division.
func EqualShare(amount float64, memberCount int) (float64, error) {
	if !ValidAmount(amount) {
		return 0, models.ErrInvalidAmount
	}
	if memberCount <= 0 {
		return 0, models.ErrEmptyGroup
	}
	return amount / float64(memberCount), nil
}

// SplitEqually computes the obligations for an expense of amount paid by
// payerID. The payer counts towards the divisor but receives no share.
// Shares are returned in members order.
//
// Example: 50 paid by A among [A, B, C] yields B=16.666..., C=16.666...
func SplitEqually(amount float64, members []string, payerID string) ([]Share, error) {
	share, err := EqualShare(amount, len(members))
	if err != nil {
		return nil, err
	}

	shares := make([]Share, 0, len(members))
	for _, member := range members {
		if member == payerID {
			continue
		}
		shares = append(shares, Share{UserID: member, Amount: share})
	}

	return shares, nil
}
