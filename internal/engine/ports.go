package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// ExchangeReader lists the exchanges the orchestrator iterates. A
// listing failure is fatal for the run.
type ExchangeReader interface {
	ListActive() ([]*domain.Exchange, error)
}

// MarketStore is the durable price/candle port.
type MarketStore interface {
	LatestPrice(exchangeID, symbol string) (decimal.Decimal, bool)
	SetLatestPrice(exchangeID, symbol string, price decimal.Decimal)
	AppendCandle(c *domain.Candle)
}

// OrderLedger is the transactional settlement port. SettleFill and
// MarkStopTriggered are each one atomic unit of work.
type OrderLedger interface {
	PendingOrders(exchangeID, symbol string) []*domain.Order
	MarkStopTriggered(orderID string) error
	SettleFill(orderID string, fillPrice decimal.Decimal) (*domain.Fill, error)
}

// PriceSource produces synthetic prices. Implemented by
// PriceGenerator; tests substitute scripted sources.
type PriceSource interface {
	NextPrice(last, multiplier decimal.Decimal) decimal.Decimal
	SeedPrice(symbol string) decimal.Decimal
}

// QuoteCache is the optional TTL'd quote cache. Failures are logged
// and never affect settlement.
type QuoteCache interface {
	Get(ctx context.Context, exchangeID, symbol string) (*domain.Quote, error)
	Set(ctx context.Context, q *domain.Quote, ttl time.Duration) error
}

// Broadcaster pushes accepted price updates to subscribers,
// best-effort.
type Broadcaster interface {
	Publish(group string, ev *domain.PriceUpdate) error
}

// AuditSink records accepted price updates, best-effort and
// independent of broadcast.
type AuditSink interface {
	Append(ev *domain.PriceUpdate) error
}

// EventValidator checks generated events before they leave the core.
// On failure the event is dropped and logged; processing continues.
type EventValidator interface {
	Validate(ev *domain.PriceUpdate) error
}
