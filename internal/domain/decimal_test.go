package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound8(t *testing.T) {
	in := MustDecimal("1.234567894999")
	if got := Round8(in); !got.Equal(MustDecimal("1.23456789")) {
		t.Errorf("Round8(%s) = %s, want 1.23456789", in, got)
	}

	up := MustDecimal("1.000000005")
	if got := Round8(up); !got.Equal(MustDecimal("1.00000001")) {
		t.Errorf("Round8(%s) = %s, want 1.00000001", up, got)
	}
}

func TestMinPrice(t *testing.T) {
	if !MinPrice.Equal(decimal.New(1, -8)) {
		t.Errorf("MinPrice = %s, want 0.00000001", MinPrice)
	}
	if MinPrice.Sign() <= 0 {
		t.Error("MinPrice must be positive")
	}
}
