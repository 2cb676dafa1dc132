package engine

import (
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// baseVolatility is the per-tick volatility as a fraction of price,
// before the exchange's regime multiplier is applied.
var baseVolatility = domain.MustDecimal("0.01")

// PriceGenerator produces synthetic price movement. One generator
// serves both cadences; only the downstream wiring differs.
type PriceGenerator struct {
	seeds    map[string]decimal.Decimal
	fallback decimal.Decimal

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewPriceGenerator creates a generator with per-symbol seed prices, a
// global fallback seed, and a random source. Tests pass a fixed-seed
// source for reproducibility.
func NewPriceGenerator(seeds map[string]decimal.Decimal, fallback decimal.Decimal, src rand.Source) *PriceGenerator {
	if seeds == nil {
		seeds = make(map[string]decimal.Decimal)
	}
	return &PriceGenerator{
		seeds:    seeds,
		fallback: fallback,
		rng:      rand.New(src),
	}
}

// NextPrice draws the next price from the last one:
//
//	change = last × baseVolatility × multiplier × u,  u uniform in [-0.5, 0.5]
//
// The result is rounded to 8 fractional digits and clamped to the
// minimum positive price, so a non-positive price is never produced.
func (g *PriceGenerator) NextPrice(last, multiplier decimal.Decimal) decimal.Decimal {
	g.mu.Lock()
	u := g.rng.Float64() - 0.5
	g.mu.Unlock()

	change := last.Mul(baseVolatility).Mul(multiplier).Mul(decimal.NewFromFloat(u))
	next := domain.Round8(last.Add(change))
	if next.LessThan(domain.MinPrice) {
		return domain.MinPrice
	}
	return next
}

// SeedPrice returns the reference price used when a symbol has no
// prior price: the per-symbol default if configured, otherwise the
// global fallback.
func (g *PriceGenerator) SeedPrice(symbol string) decimal.Decimal {
	if seed, ok := g.seeds[symbol]; ok {
		return seed
	}
	return g.fallback
}
