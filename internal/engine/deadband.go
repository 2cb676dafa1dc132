package engine

import (
	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// deadbandThreshold is the minimum absolute price change propagated to
// the quote cache, broadcast and audit paths. Changes below it are
// discarded entirely on the emit path; engine-cadence order matching
// still runs against the new price.
var deadbandThreshold = domain.MustDecimal("0.01")

// ShouldEmit reports whether the change from oldPrice to newPrice is
// large enough to leave the engine. A change of exactly the threshold
// emits.
func ShouldEmit(oldPrice, newPrice decimal.Decimal) bool {
	return newPrice.Sub(oldPrice).Abs().GreaterThanOrEqual(deadbandThreshold)
}
