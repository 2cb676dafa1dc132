package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the cached last-traded view of one (exchange, symbol) pair.
type Quote struct {
	ExchangeID string          `json:"exchange_id"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	PrevPrice  decimal.Decimal `json:"prev_price"`
	At         time.Time       `json:"at"`
}

// PriceUpdate is the event payload emitted to the broadcast and audit
// collaborators when an accepted price change passes the deadband.
type PriceUpdate struct {
	EventID    string          `json:"event_id"`
	ExchangeID string          `json:"exchange_id"`
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	PrevPrice  decimal.Decimal `json:"prev_price"`
	At         time.Time       `json:"at"`
}

// Candle is one OHLCV bar persisted per (exchange, symbol) on the
// engine cadence. Volume is the sum of fill quantities in the window.
type Candle struct {
	CandleID   string          `json:"candle_id"`
	ExchangeID string          `json:"exchange_id"`
	Symbol     string          `json:"symbol"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     decimal.Decimal `json:"volume"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
}

// Fill records a single full execution of an order.
type Fill struct {
	FillID   string          `json:"fill_id"`
	OrderID  string          `json:"order_id"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	At       time.Time       `json:"at"`
}
