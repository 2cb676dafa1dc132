package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes the four supported order types.
type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

// OrderSide indicates whether an order buys or sells the symbol.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus represents the lifecycle state of an order. The matching
// engine only ever moves orders from pending to filled; the remaining
// states exist in the taxonomy for the external order-entry flow.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Order is a resting client instruction awaiting a price that satisfies
// its fill condition. Orders are created pending by an external
// order-entry flow, mutated exclusively by the ledger while pending,
// and immutable once filled.
type Order struct {
	OrderID     string    `json:"order_id"`
	ExchangeID  string    `json:"exchange_id"`
	PortfolioID string    `json:"portfolio_id"`
	Symbol      string    `json:"symbol"`
	Side        OrderSide `json:"side"`
	Type        OrderType `json:"type"`

	Quantity   decimal.Decimal  `json:"quantity"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"` // limit and stop-limit orders
	StopPrice  *decimal.Decimal `json:"stop_price,omitempty"`  // stop and stop-limit orders

	Status         OrderStatus     `json:"status"`
	FilledQuantity decimal.Decimal `json:"filled_quantity"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	// StopTriggered marks the intermediate state of a stop-limit order:
	// its stop condition has fired but it has not yet filled as a limit
	// order.
	StopTriggered bool `json:"stop_triggered"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// IsOpen reports whether the order is still eligible for matching.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusPending
}

// Clone returns a deep copy of the order. The ledger hands out clones
// so evaluation outside its lock cannot observe or cause torn writes.
func (o *Order) Clone() *Order {
	c := *o
	if o.LimitPrice != nil {
		p := *o.LimitPrice
		c.LimitPrice = &p
	}
	if o.StopPrice != nil {
		p := *o.StopPrice
		c.StopPrice = &p
	}
	return &c
}
