package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/sharepay/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"50", 50, false},
		{"50.0", 50, false},
		{" 12.5 ", 12.5, false},
		{"0.01", 0.01, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"1,5", 0, true},
		{"1e400", 0, true},
		{"-1e400", 0, true},
		{"1e-400", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if !AmountsEqual(got, tt.want) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want bool
	}{
		{50, true},
		{math.SmallestNonzeroFloat64, true},
		{math.MaxFloat64, true},
		{0, false},
		{-1, false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		if got := ValidAmount(tt.in); got != tt.want {
			t.Errorf("ValidAmount(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAmountsEqual(t *testing.T) {
	if !AmountsEqual(0.1+0.2, 0.3) {
		t.Error("0.1+0.2 should equal 0.3 within epsilon")
	}
	if AmountsEqual(50, 50.01) {
		t.Error("50 should not equal 50.01")
	}
}
