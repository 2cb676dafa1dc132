package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/dvries/simvenue/internal/domain"
)

func TestProperty_NextPricePositiveAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lastCents := rapid.Int64Range(1, 10_000_000_00).Draw(t, "lastCents")
		multTenths := rapid.Int64Range(1, 100).Draw(t, "multTenths")
		seed1 := rapid.Uint64().Draw(t, "seed1")
		seed2 := rapid.Uint64().Draw(t, "seed2")

		last := decimal.New(lastCents, -2)
		mult := decimal.New(multTenths, -1)
		g := NewPriceGenerator(nil, d("100"), rand.NewPCG(seed1, seed2))

		next := g.NextPrice(last, mult)
		if next.Sign() <= 0 {
			t.Fatalf("NextPrice(%s, %s) = %s, want positive", last, mult, next)
		}

		bound := last.Mul(d("0.01")).Mul(mult).Mul(d("0.5")).Add(domain.MinPrice)
		if change := next.Sub(last).Abs(); change.GreaterThan(bound) {
			// The clamp can cut a downward move short; that is the only
			// allowed excursion.
			if !next.Equal(domain.MinPrice) {
				t.Fatalf("change %s exceeds bound %s", change, bound)
			}
		}
	})
}
