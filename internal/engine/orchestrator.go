package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// TickerGroup returns the broadcast group key for an exchange's price
// updates.
func TickerGroup(exchangeID string) string {
	return "ticker:" + exchangeID
}

// Orchestrator drives the simulation on two independent cadences.
//
// The ticker cadence generates a price per (exchange, symbol) and, when
// the change passes the deadband, updates the quote cache and notifies
// the broadcast and audit collaborators.
//
// The engine cadence additionally matches resting orders against the
// fresh price (regardless of the deadband), settles fills, and closes
// an OHLCV candle per pair.
//
// Exchanges and symbols are processed sequentially; the hosting
// scheduler must not overlap runs of the same cadence.
type Orchestrator struct {
	exchanges ExchangeReader
	market    MarketStore
	ledger    OrderLedger
	prices    PriceSource
	cache     QuoteCache
	broadcast Broadcaster
	audit     AuditSink
	validator EventValidator
	logger    *slog.Logger

	tickerInterval time.Duration
	engineInterval time.Duration
	quoteTTL       time.Duration

	mu      sync.Mutex
	candles map[string]*liveCandle // pair key → accumulator
}

// NewOrchestrator wires the orchestrator to its collaborator ports.
func NewOrchestrator(
	exchanges ExchangeReader,
	market MarketStore,
	ledger OrderLedger,
	prices PriceSource,
	cache QuoteCache,
	broadcast Broadcaster,
	audit AuditSink,
	validator EventValidator,
	tickerInterval, engineInterval, quoteTTL time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		exchanges:      exchanges,
		market:         market,
		ledger:         ledger,
		prices:         prices,
		cache:          cache,
		broadcast:      broadcast,
		audit:          audit,
		validator:      validator,
		tickerInterval: tickerInterval,
		engineInterval: engineInterval,
		quoteTTL:       quoteTTL,
		logger:         logger,
		candles:        make(map[string]*liveCandle),
	}
}

// Start launches both cadences as background goroutines that stop when
// ctx is cancelled. Each cadence runs sequentially on its own ticker,
// so runs of the same cadence never overlap. The returned channel is
// closed once both loops have exited.
func (o *Orchestrator) Start(ctx context.Context) <-chan struct{} {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.loop(ctx, o.tickerInterval, "ticker", o.RunTickerOnce)
	}()
	go func() {
		defer wg.Done()
		o.loop(ctx, o.engineInterval, "engine", o.RunEngineOnce)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

func (o *Orchestrator) loop(ctx context.Context, interval time.Duration, cadence string, run func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := run(ctx); err != nil {
				o.logger.Error("tick run failed",
					slog.String("cadence", cadence),
					slog.String("error", err.Error()))
			}
		}
	}
}

// RunTickerOnce executes one ticker-cadence pass over all active
// exchanges. Only a failure to list exchanges is fatal; everything
// below that level is logged and skipped.
func (o *Orchestrator) RunTickerOnce(ctx context.Context) error {
	exchanges, err := o.exchanges.ListActive()
	if err != nil {
		return fmt.Errorf("list active exchanges: %w", err)
	}
	for _, ex := range exchanges {
		for _, symbol := range ex.Symbols {
			o.tickerSymbol(ctx, ex, symbol)
		}
	}
	return nil
}

// RunEngineOnce executes one engine-cadence pass: price generation,
// order matching and settlement, candle persistence, and, deadband
// permitting, the same emit path as the ticker cadence.
func (o *Orchestrator) RunEngineOnce(ctx context.Context) error {
	exchanges, err := o.exchanges.ListActive()
	if err != nil {
		return fmt.Errorf("list active exchanges: %w", err)
	}
	for _, ex := range exchanges {
		if !ex.EngineEnabled {
			continue
		}
		for _, symbol := range ex.Symbols {
			o.engineSymbol(ctx, ex, symbol)
		}
	}
	return nil
}

// tickerSymbol advances one pair on the ticker cadence. Below-deadband
// changes are discarded entirely: no store write, no cache update, no
// broadcast, no audit event.
func (o *Orchestrator) tickerSymbol(ctx context.Context, ex *domain.Exchange, symbol string) {
	last := o.lastPrice(ctx, ex, symbol)
	next := o.prices.NextPrice(last, ex.VolatilityMultiplier)

	if !ShouldEmit(last, next) {
		return
	}

	ev := o.newEvent(ex.ExchangeID, symbol, last, next)
	if err := o.validator.Validate(ev); err != nil {
		o.logger.Warn("dropping invalid price event",
			slog.String("exchange_id", ex.ExchangeID),
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		return
	}

	o.market.SetLatestPrice(ex.ExchangeID, symbol, next)
	o.observePrice(ex.ExchangeID, symbol, next, ev.At)
	o.emit(ctx, ev)
}

// engineSymbol advances one pair on the engine cadence. Matching always
// runs against the new price; the deadband gates only the emit path.
func (o *Orchestrator) engineSymbol(ctx context.Context, ex *domain.Exchange, symbol string) {
	last := o.lastPrice(ctx, ex, symbol)
	next := o.prices.NextPrice(last, ex.VolatilityMultiplier)

	ev := o.newEvent(ex.ExchangeID, symbol, last, next)
	if err := o.validator.Validate(ev); err != nil {
		// An invalid price must not be persisted, matched or emitted.
		o.logger.Warn("dropping invalid price event",
			slog.String("exchange_id", ex.ExchangeID),
			slog.String("symbol", symbol),
			slog.String("error", err.Error()))
		return
	}

	o.market.SetLatestPrice(ex.ExchangeID, symbol, next)
	o.observePrice(ex.ExchangeID, symbol, next, ev.At)
	o.matchSymbol(ex, symbol, next)

	if ShouldEmit(last, next) {
		o.emit(ctx, ev)
	}

	o.flushCandle(ex.ExchangeID, symbol, ev.At)
}

// matchSymbol evaluates every resting order for the pair against the
// current price. One bad order never blocks the others.
func (o *Orchestrator) matchSymbol(ex *domain.Exchange, symbol string, price decimal.Decimal) {
	for _, ord := range o.ledger.PendingOrders(ex.ExchangeID, symbol) {
		if err := o.processOrder(ord, price); err != nil {
			o.logger.Error("order processing failed",
				slog.String("exchange_id", ex.ExchangeID),
				slog.String("order_id", ord.OrderID),
				slog.String("error", err.Error()))
		}
	}
}

// processOrder runs one order through evaluation and settlement.
func (o *Orchestrator) processOrder(ord *domain.Order, price decimal.Decimal) error {
	eval := Evaluate(ord, price)

	if eval.TriggersStop {
		// Persist the trigger; the order fills as a limit order on a
		// later evaluation.
		if err := o.ledger.MarkStopTriggered(ord.OrderID); err != nil {
			if errors.Is(err, domain.ErrOrderNotOpen) {
				return nil
			}
			return fmt.Errorf("mark stop triggered: %w", err)
		}
		o.logger.Info("stop triggered",
			slog.String("order_id", ord.OrderID),
			slog.String("symbol", ord.Symbol),
			slog.String("price", price.String()))
		return nil
	}

	if !eval.ShouldFill {
		return nil
	}

	fill, err := o.ledger.SettleFill(ord.OrderID, FillPrice(ord, price))
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		// Recognized outcome: the fill is skipped, the order stays
		// pending.
		o.logger.Info("fill skipped, insufficient funds",
			slog.String("order_id", ord.OrderID),
			slog.String("portfolio_id", ord.PortfolioID))
		return nil
	case errors.Is(err, domain.ErrOrderNotOpen):
		// The order reached a terminal state after evaluation.
		return nil
	case err != nil:
		return fmt.Errorf("settle fill: %w", err)
	}

	o.observeVolume(ord.ExchangeID, ord.Symbol, fill.Quantity)
	o.logger.Info("order filled",
		slog.String("order_id", ord.OrderID),
		slog.String("symbol", ord.Symbol),
		slog.String("price", fill.Price.String()),
		slog.String("quantity", fill.Quantity.String()))
	return nil
}

// lastPrice resolves the pair's previous price: quote cache first, then
// the market store, then the configured seed.
func (o *Orchestrator) lastPrice(ctx context.Context, ex *domain.Exchange, symbol string) decimal.Decimal {
	if o.cache != nil {
		q, err := o.cache.Get(ctx, ex.ExchangeID, symbol)
		if err != nil {
			o.logger.Warn("quote cache read failed",
				slog.String("exchange_id", ex.ExchangeID),
				slog.String("symbol", symbol),
				slog.String("error", err.Error()))
		} else if q != nil {
			return q.Price
		}
	}
	if p, ok := o.market.LatestPrice(ex.ExchangeID, symbol); ok {
		return p
	}
	return o.prices.SeedPrice(symbol)
}

// emit fans the accepted event out to cache, broadcast and audit. Each
// write is fire-and-forget: a failure is logged as a warning and never
// affects settlement or the other collaborators.
func (o *Orchestrator) emit(ctx context.Context, ev *domain.PriceUpdate) {
	if o.cache != nil {
		q := &domain.Quote{
			ExchangeID: ev.ExchangeID,
			Symbol:     ev.Symbol,
			Price:      ev.Price,
			PrevPrice:  ev.PrevPrice,
			At:         ev.At,
		}
		if err := o.cache.Set(ctx, q, o.quoteTTL); err != nil {
			o.logger.Warn("quote cache write failed",
				slog.String("symbol", ev.Symbol),
				slog.String("error", err.Error()))
		}
	}
	if o.broadcast != nil {
		if err := o.broadcast.Publish(TickerGroup(ev.ExchangeID), ev); err != nil {
			o.logger.Warn("broadcast failed",
				slog.String("symbol", ev.Symbol),
				slog.String("error", err.Error()))
		}
	}
	if o.audit != nil {
		if err := o.audit.Append(ev); err != nil {
			o.logger.Warn("audit append failed",
				slog.String("symbol", ev.Symbol),
				slog.String("error", err.Error()))
		}
	}
}

func (o *Orchestrator) newEvent(exchangeID, symbol string, prev, price decimal.Decimal) *domain.PriceUpdate {
	return &domain.PriceUpdate{
		EventID:    uuid.New().String(),
		ExchangeID: exchangeID,
		Symbol:     symbol,
		Price:      price,
		PrevPrice:  prev,
		At:         time.Now(),
	}
}

func (o *Orchestrator) observePrice(exchangeID, symbol string, price decimal.Decimal, at time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := exchangeID + ":" + symbol
	c, ok := o.candles[key]
	if !ok {
		c = &liveCandle{}
		o.candles[key] = c
	}
	c.observe(price, at)
}

func (o *Orchestrator) observeVolume(exchangeID, symbol string, qty decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if c, ok := o.candles[exchangeID+":"+symbol]; ok {
		c.addVolume(qty)
	}
}

func (o *Orchestrator) flushCandle(exchangeID, symbol string, end time.Time) {
	o.mu.Lock()
	c, ok := o.candles[exchangeID+":"+symbol]
	var closed *domain.Candle
	if ok {
		closed = c.flush(exchangeID, symbol, end)
	}
	o.mu.Unlock()

	if closed != nil {
		o.market.AppendCandle(closed)
	}
}
