package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a portfolio's signed holding in a single symbol.
// Positive quantity is long, negative is short.
type Position struct {
	PortfolioID string          `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ApplyFill applies a signed quantity delta at fillPrice to a position
// and returns the new quantity and average cost.
//
// Rules:
//   - closing to exactly zero resets the average cost to zero
//   - a direction reversal (long to short or back) with a non-zero
//     resulting quantity resets the average cost to the fill price
//   - otherwise the average cost is the quantity-weighted blend
//     (oldAvg*oldQty + fillPrice*delta) / newQty, rounded to 8 digits
func ApplyFill(oldQty, oldAvg, delta, fillPrice decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	newQty := oldQty.Add(delta)
	switch {
	case newQty.IsZero():
		return newQty, decimal.Zero
	case oldQty.Sign() != newQty.Sign():
		// Covers both opening from flat (sign 0) and reversing.
		return newQty, fillPrice
	default:
		total := oldAvg.Mul(oldQty).Add(fillPrice.Mul(delta))
		return newQty, Round8(total.Div(newQty))
	}
}
