package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/sharepay/internal/models"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		members      []string
		payer        string
		wantErr      error
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name:    "two members, payer excluded",
			amount:  100,
			members: []string{"Alice", "Bob"},
			payer:   "Alice",
			validateFunc: func(t *testing.T, shares []Share) {
				// 100 / 2 = 50 owed by Bob only
				if len(shares) != 1 {
					t.Fatalf("expected 1 share, got %d", len(shares))
				}
				if shares[0].UserID != "Bob" || shares[0].Amount != 50.0 {
					t.Errorf("share = %+v, want Bob 50", shares[0])
				}
			},
		},
		{
			name:    "three members keep rounding residue",
			amount:  50,
			members: []string{"Alice", "Bob", "Charlie"},
			payer:   "Alice",
			validateFunc: func(t *testing.T, shares []Share) {
				// 50 / 3 = 16.666... each for Bob and Charlie, sum 33.33...
				if len(shares) != 2 {
					t.Fatalf("expected 2 shares, got %d", len(shares))
				}
				sum := 0.0
				for _, s := range shares {
					if math.Abs(s.Amount-50.0/3) > models.Epsilon {
						t.Errorf("%s share = %v, want %v", s.UserID, s.Amount, 50.0/3)
					}
					sum += s.Amount
				}
				if math.Abs(sum-50.0*2/3) > models.Epsilon {
					t.Errorf("sum = %v, want %v", sum, 50.0*2/3)
				}
			},
		},
		{
			name:    "payer alone owes nothing",
			amount:  12,
			members: []string{"Alice"},
			payer:   "Alice",
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 0 {
					t.Errorf("expected no shares, got %v", shares)
				}
			},
		},
		{
			name:    "member order is preserved",
			amount:  40,
			members: []string{"Diana", "Alice", "Bob", "Charlie"},
			payer:   "Bob",
			validateFunc: func(t *testing.T, shares []Share) {
				want := []string{"Diana", "Alice", "Charlie"}
				for i, s := range shares {
					if s.UserID != want[i] || s.Amount != 10 {
						t.Errorf("share %d = %+v, want %s 10", i, s, want[i])
					}
				}
			},
		},
		{
			name:    "zero amount",
			amount:  0,
			members: []string{"Alice", "Bob"},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			amount:  -5,
			members: []string{"Alice", "Bob"},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "NaN amount",
			amount:  math.NaN(),
			members: []string{"Alice"},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "infinite amount",
			amount:  math.Inf(1),
			members: []string{"Alice", "Bob"},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "no members",
			amount:  10,
			members: []string{},
			wantErr: models.ErrEmptyGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SplitEqually(tt.amount, tt.members, tt.payer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SplitEqually() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}
