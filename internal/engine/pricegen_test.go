package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

func d(s string) decimal.Decimal {
	return domain.MustDecimal(s)
}

func newTestGenerator(seeds map[string]decimal.Decimal) *PriceGenerator {
	if seeds == nil {
		seeds = map[string]decimal.Decimal{}
	}
	return NewPriceGenerator(seeds, d("100"), rand.NewPCG(7, 13))
}

func TestNextPrice_StaysWithinVolatilityBound(t *testing.T) {
	g := newTestGenerator(nil)
	last := d("200")
	mult := d("4.5")

	// max |change| = last × 0.01 × mult × 0.5, plus one rounding unit.
	bound := last.Mul(d("0.01")).Mul(mult).Mul(d("0.5")).Add(domain.MinPrice)

	for i := 0; i < 10_000; i++ {
		next := g.NextPrice(last, mult)
		if next.Sign() <= 0 {
			t.Fatalf("iteration %d: non-positive price %s", i, next)
		}
		if change := next.Sub(last).Abs(); change.GreaterThan(bound) {
			t.Fatalf("iteration %d: change %s exceeds bound %s", i, change, bound)
		}
	}
}

func TestNextPrice_MovesOverTime(t *testing.T) {
	g := newTestGenerator(nil)
	price := d("100")
	moved := false
	for i := 0; i < 100; i++ {
		next := g.NextPrice(price, d("1"))
		if !next.Equal(price) {
			moved = true
		}
		price = next
	}
	if !moved {
		t.Error("price never moved in 100 ticks")
	}
}

func TestNextPrice_ClampsToMinimumPositivePrice(t *testing.T) {
	g := newTestGenerator(nil)
	// At the smallest representable price the draw can round to zero or
	// below; the clamp must hold the floor.
	for i := 0; i < 1_000; i++ {
		next := g.NextPrice(domain.MinPrice, d("4.5"))
		if next.LessThan(domain.MinPrice) {
			t.Fatalf("price %s fell below the minimum", next)
		}
	}
}

func TestSeedPrice(t *testing.T) {
	g := newTestGenerator(map[string]decimal.Decimal{"BTC": d("65000")})

	if got := g.SeedPrice("BTC"); !got.Equal(d("65000")) {
		t.Errorf("SeedPrice(BTC) = %s, want 65000", got)
	}
	if got := g.SeedPrice("UNKNOWN"); !got.Equal(d("100")) {
		t.Errorf("SeedPrice(UNKNOWN) = %s, want fallback 100", got)
	}
}
