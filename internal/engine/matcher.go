package engine

import (
	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// Evaluation is the matcher's decision for one order against one price.
// Orders are evaluated independently against the single synthetic
// price; matching only ever produces a single, full fill per order.
type Evaluation struct {
	// ShouldFill means the order's fill condition is satisfied.
	ShouldFill bool
	// TriggersStop means a stop-limit order's stop condition fired on
	// this evaluation. The trigger flag must be persisted and the order
	// must NOT fill on the same evaluation.
	TriggersStop bool
}

// Evaluate decides whether a pending order becomes fillable at the
// current price.
//
//	MARKET      always fillable
//	LIMIT       buy: price <= limit    sell: price >= limit
//	STOP        buy: price >= stop     sell: price <= stop
//	STOP_LIMIT  not triggered: the stop condition sets the trigger flag
//	            triggered:     behaves exactly like a limit order
func Evaluate(o *domain.Order, price decimal.Decimal) Evaluation {
	switch o.Type {
	case domain.OrderTypeMarket:
		return Evaluation{ShouldFill: true}
	case domain.OrderTypeLimit:
		return Evaluation{ShouldFill: limitSatisfied(o, price)}
	case domain.OrderTypeStop:
		return Evaluation{ShouldFill: stopSatisfied(o, price)}
	case domain.OrderTypeStopLimit:
		if !o.StopTriggered {
			return Evaluation{TriggersStop: stopSatisfied(o, price)}
		}
		return Evaluation{ShouldFill: limitSatisfied(o, price)}
	default:
		return Evaluation{}
	}
}

// FillPrice returns the price a fillable order settles at. Market
// orders settle at the current price; limit and stop-limit orders at
// their own limit price, consistent with standard limit semantics. A
// plain stop order settles at its limit price when one is set, else at
// the current price.
func FillPrice(o *domain.Order, price decimal.Decimal) decimal.Decimal {
	switch o.Type {
	case domain.OrderTypeMarket:
		return price
	case domain.OrderTypeStop:
		if o.LimitPrice == nil {
			return price
		}
		return *o.LimitPrice
	default:
		return *o.LimitPrice
	}
}

func limitSatisfied(o *domain.Order, price decimal.Decimal) bool {
	if o.LimitPrice == nil {
		return false
	}
	if o.Side == domain.OrderSideBuy {
		return price.LessThanOrEqual(*o.LimitPrice)
	}
	return price.GreaterThanOrEqual(*o.LimitPrice)
}

func stopSatisfied(o *domain.Order, price decimal.Decimal) bool {
	if o.StopPrice == nil {
		return false
	}
	if o.Side == domain.OrderSideBuy {
		return price.GreaterThanOrEqual(*o.StopPrice)
	}
	return price.LessThanOrEqual(*o.StopPrice)
}
