package store

import (
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// pendingEntry is one resting order in the pending index. Ordering is
// created_at ascending, then order_id ascending, so a tick evaluates
// orders in a deterministic arrival order.
type pendingEntry struct {
	CreatedAt time.Time
	OrderID   string
}

func pendingLess(a, b pendingEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.OrderID < b.OrderID
}

// Ledger holds orders, positions and portfolios under a single lock so
// that settling one fill is an atomic unit of work: the cash-balance
// check, the order transition, the position upsert and the cash update
// all observe and produce one consistent snapshot.
//
// Resting orders are additionally indexed per (exchange, symbol) in a
// B-tree for deterministic evaluation order.
type Ledger struct {
	mu         sync.Mutex
	orders     map[string]*domain.Order
	pending    map[string]*btree.BTreeG[pendingEntry] // pair key → index
	positions  map[string]*domain.Position            // portfolio_id:symbol
	portfolios map[string]*domain.Portfolio
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		orders:     make(map[string]*domain.Order),
		pending:    make(map[string]*btree.BTreeG[pendingEntry]),
		positions:  make(map[string]*domain.Position),
		portfolios: make(map[string]*domain.Portfolio),
	}
}

// CreateOrder registers an order with the ledger. Orders arrive from
// the external order-entry flow; missing identity and lifecycle fields
// are filled in here. Pending orders are added to the pair's index.
func (l *Ledger) CreateOrder(o *domain.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if o.OrderID == "" {
		o.OrderID = uuid.New().String()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}

	l.orders[o.OrderID] = o
	if o.IsOpen() {
		l.pendingIndex(o.ExchangeID, o.Symbol).ReplaceOrInsert(pendingEntry{
			CreatedAt: o.CreatedAt,
			OrderID:   o.OrderID,
		})
	}
}

// GetOrder retrieves a copy of an order by ID. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (l *Ledger) GetOrder(id string) (*domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

// PendingOrders returns copies of the pair's resting orders in
// created_at order. Copies keep evaluation outside the ledger lock
// safe; settlement re-reads live state under the lock.
func (l *Ledger) PendingOrders(exchangeID, symbol string) []*domain.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.pending[pairKey(exchangeID, symbol)]
	if !ok {
		return nil
	}
	orders := make([]*domain.Order, 0, idx.Len())
	idx.Ascend(func(e pendingEntry) bool {
		if o, ok := l.orders[e.OrderID]; ok && o.IsOpen() {
			orders = append(orders, o.Clone())
		}
		return true
	})
	return orders
}

// MarkStopTriggered persists the stop-triggered flag of a stop-limit
// order. The order stays pending and has no monetary effect on this
// evaluation. Returns domain.ErrOrderNotOpen if the order is no longer
// pending.
func (l *Ledger) MarkStopTriggered(orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return domain.ErrOrderNotOpen
	}
	o.StopTriggered = true
	o.UpdatedAt = time.Now()
	return nil
}

// SettleFill executes one fill as an atomic unit of work:
//
//  1. the order is re-read and must still be pending; a decision made
//     against stale state is rejected with domain.ErrOrderNotOpen
//  2. for buys, the portfolio's cash balance is re-read inside the same
//     unit of work and the fill is rejected with
//     domain.ErrInsufficientFunds if it cannot cover the cost
//  3. the order transitions to filled, the position is upserted through
//     domain.ApplyFill, and the cash balance is adjusted
//
// Nothing is written before every check passes, so a failure leaves
// order, position and portfolio untouched.
func (l *Ledger) SettleFill(orderID string, fillPrice decimal.Decimal) (*domain.Fill, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !o.IsOpen() {
		return nil, domain.ErrOrderNotOpen
	}

	remaining := o.Remaining()
	delta := remaining
	if o.Side == domain.OrderSideSell {
		delta = remaining.Neg()
	}
	cost := domain.Round8(remaining.Mul(fillPrice))

	pf := l.portfolioLocked(o.PortfolioID, o.ExchangeID)
	if o.Side == domain.OrderSideBuy && pf.CashBalance.LessThan(cost) {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now()

	// Order → filled.
	o.Status = domain.OrderStatusFilled
	o.FilledQuantity = o.Quantity
	o.AveragePrice = fillPrice
	o.UpdatedAt = now
	if idx, ok := l.pending[pairKey(o.ExchangeID, o.Symbol)]; ok {
		idx.Delete(pendingEntry{CreatedAt: o.CreatedAt, OrderID: o.OrderID})
	}

	// Position upsert.
	posKey := o.PortfolioID + ":" + o.Symbol
	pos, ok := l.positions[posKey]
	if !ok {
		pos = &domain.Position{
			PortfolioID: o.PortfolioID,
			Symbol:      o.Symbol,
			Quantity:    decimal.Zero,
			AverageCost: decimal.Zero,
		}
		l.positions[posKey] = pos
	}
	pos.Quantity, pos.AverageCost = domain.ApplyFill(pos.Quantity, pos.AverageCost, delta, fillPrice)
	pos.UpdatedAt = now

	// Cash: buys pay, sells receive.
	cashDelta := cost
	if o.Side == domain.OrderSideBuy {
		cashDelta = cost.Neg()
	}
	pf.CashBalance = domain.Round8(pf.CashBalance.Add(cashDelta))
	pf.UpdatedAt = now

	return &domain.Fill{
		FillID:   uuid.New().String(),
		OrderID:  o.OrderID,
		Price:    fillPrice,
		Quantity: remaining,
		At:       now,
	}, nil
}

// UpsertPortfolio inserts or replaces a portfolio row.
func (l *Ledger) UpsertPortfolio(p *domain.Portfolio) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.portfolios[p.PortfolioID] = p
}

// GetPortfolio retrieves a copy of a portfolio by ID. It returns
// domain.ErrPortfolioNotFound if the portfolio does not exist.
func (l *Ledger) GetPortfolio(id string) (*domain.Portfolio, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.portfolios[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	c := *p
	return &c, nil
}

// GetPosition retrieves a copy of a position, or nil if the portfolio
// holds nothing in the symbol.
func (l *Ledger) GetPosition(portfolioID, symbol string) *domain.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[portfolioID+":"+symbol]
	if !ok {
		return nil
	}
	c := *pos
	return &c
}

// pendingIndex returns the pair's pending index, creating it if
// needed. Caller must hold l.mu.
func (l *Ledger) pendingIndex(exchangeID, symbol string) *btree.BTreeG[pendingEntry] {
	key := pairKey(exchangeID, symbol)
	idx, ok := l.pending[key]
	if !ok {
		const degree = 32
		idx = btree.NewG[pendingEntry](degree, pendingLess)
		l.pending[key] = idx
	}
	return idx
}

// portfolioLocked returns the portfolio row, lazily creating an empty
// one on first use. Caller must hold l.mu.
func (l *Ledger) portfolioLocked(portfolioID, exchangeID string) *domain.Portfolio {
	pf, ok := l.portfolios[portfolioID]
	if !ok {
		pf = &domain.Portfolio{
			PortfolioID: portfolioID,
			ExchangeID:  exchangeID,
			CashBalance: decimal.Zero,
		}
		l.portfolios[portfolioID] = pf
	}
	return pf
}
