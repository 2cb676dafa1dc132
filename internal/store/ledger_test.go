package store

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

func d(s string) decimal.Decimal {
	return domain.MustDecimal(s)
}

// seedPortfolio creates a portfolio with the given cash.
func seedPortfolio(l *Ledger, id, exchangeID, cash string) {
	l.UpsertPortfolio(&domain.Portfolio{
		PortfolioID: id,
		ExchangeID:  exchangeID,
		CashBalance: d(cash),
	})
}

// newMarketOrder creates a pending market order.
func newMarketOrder(portfolioID string, side domain.OrderSide, symbol, qty string) *domain.Order {
	return &domain.Order{
		ExchangeID:  "ex1",
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Side:        side,
		Type:        domain.OrderTypeMarket,
		Quantity:    d(qty),
	}
}

func TestSettleFill_BuyMarket(t *testing.T) {
	l := NewLedger()
	seedPortfolio(l, "p1", "ex1", "1000.00")

	o := newMarketOrder("p1", domain.OrderSideBuy, "ACME", "10")
	l.CreateOrder(o)

	fill, err := l.SettleFill(o.OrderID, d("50.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fill.Quantity.Equal(d("10")) || !fill.Price.Equal(d("50.00")) {
		t.Errorf("fill = %s @ %s, want 10 @ 50.00", fill.Quantity, fill.Price)
	}

	got, _ := l.GetOrder(o.OrderID)
	if got.Status != domain.OrderStatusFilled {
		t.Errorf("status = %s, want filled", got.Status)
	}
	if !got.FilledQuantity.Equal(d("10")) || !got.AveragePrice.Equal(d("50.00")) {
		t.Errorf("filled %s @ %s, want 10 @ 50.00", got.FilledQuantity, got.AveragePrice)
	}

	pf, _ := l.GetPortfolio("p1")
	if !pf.CashBalance.Equal(d("500.00")) {
		t.Errorf("cash = %s, want 500.00", pf.CashBalance)
	}

	pos := l.GetPosition("p1", "ACME")
	if pos == nil {
		t.Fatal("expected a position row")
	}
	if !pos.Quantity.Equal(d("10")) || !pos.AverageCost.Equal(d("50.00")) {
		t.Errorf("position %s @ %s, want 10 @ 50.00", pos.Quantity, pos.AverageCost)
	}
}

func TestSettleFill_SellReversal(t *testing.T) {
	l := NewLedger()
	seedPortfolio(l, "p1", "ex1", "1000.00")

	// Establish long 10 @ 50.
	buy := newMarketOrder("p1", domain.OrderSideBuy, "ACME", "10")
	l.CreateOrder(buy)
	if _, err := l.SettleFill(buy.OrderID, d("50.00")); err != nil {
		t.Fatalf("seed buy failed: %v", err)
	}

	// Sell 15 @ 60: reversal to -5, cost resets to 60, cash +900.
	sell := newMarketOrder("p1", domain.OrderSideSell, "ACME", "15")
	l.CreateOrder(sell)
	if _, err := l.SettleFill(sell.OrderID, d("60.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := l.GetPosition("p1", "ACME")
	if !pos.Quantity.Equal(d("-5")) {
		t.Errorf("position quantity = %s, want -5", pos.Quantity)
	}
	if !pos.AverageCost.Equal(d("60.00")) {
		t.Errorf("average cost = %s, want 60.00 (reset, not blended)", pos.AverageCost)
	}

	pf, _ := l.GetPortfolio("p1")
	// 1000 - 500 + 900.
	if !pf.CashBalance.Equal(d("1400.00")) {
		t.Errorf("cash = %s, want 1400.00", pf.CashBalance)
	}
}

func TestSettleFill_InsufficientFundsLeavesOrderPending(t *testing.T) {
	l := NewLedger()
	seedPortfolio(l, "p1", "ex1", "100.00")

	limit := d("50.00")
	o := &domain.Order{
		ExchangeID:  "ex1",
		PortfolioID: "p1",
		Symbol:      "ACME",
		Side:        domain.OrderSideBuy,
		Type:        domain.OrderTypeLimit,
		Quantity:    d("5"),
		LimitPrice:  &limit,
	}
	l.CreateOrder(o)

	_, err := l.SettleFill(o.OrderID, limit)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}

	got, _ := l.GetOrder(o.OrderID)
	if got.Status != domain.OrderStatusPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
	pf, _ := l.GetPortfolio("p1")
	if !pf.CashBalance.Equal(d("100.00")) {
		t.Errorf("cash = %s, want unchanged 100.00", pf.CashBalance)
	}
	if pos := l.GetPosition("p1", "ACME"); pos != nil {
		t.Errorf("unexpected position row: %+v", pos)
	}
	if pending := l.PendingOrders("ex1", "ACME"); len(pending) != 1 {
		t.Errorf("pending orders = %d, want 1 (order still resting)", len(pending))
	}
}

func TestSettleFill_ExactCashSettles(t *testing.T) {
	l := NewLedger()
	seedPortfolio(l, "p1", "ex1", "500.00")

	o := newMarketOrder("p1", domain.OrderSideBuy, "ACME", "10")
	l.CreateOrder(o)

	if _, err := l.SettleFill(o.OrderID, d("50.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pf, _ := l.GetPortfolio("p1")
	if !pf.CashBalance.IsZero() {
		t.Errorf("cash = %s, want 0", pf.CashBalance)
	}
}

func TestSettleFill_DoubleSettleRejected(t *testing.T) {
	l := NewLedger()
	seedPortfolio(l, "p1", "ex1", "1000.00")

	o := newMarketOrder("p1", domain.OrderSideBuy, "ACME", "1")
	l.CreateOrder(o)

	if _, err := l.SettleFill(o.OrderID, d("50.00")); err != nil {
		t.Fatalf("first settle failed: %v", err)
	}
	_, err := l.SettleFill(o.OrderID, d("50.00"))
	if !errors.Is(err, domain.ErrOrderNotOpen) {
		t.Fatalf("error = %v, want ErrOrderNotOpen", err)
	}

	pf, _ := l.GetPortfolio("p1")
	if !pf.CashBalance.Equal(d("950.00")) {
		t.Errorf("cash = %s, want 950.00 (charged once)", pf.CashBalance)
	}
}

func TestSettleFill_SellWithoutPortfolioCreatesRow(t *testing.T) {
	l := NewLedger()

	o := newMarketOrder("p1", domain.OrderSideSell, "ACME", "3")
	l.CreateOrder(o)

	if _, err := l.SettleFill(o.OrderID, d("40.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pf, err := l.GetPortfolio("p1")
	if err != nil {
		t.Fatalf("portfolio not created: %v", err)
	}
	if !pf.CashBalance.Equal(d("120.00")) {
		t.Errorf("cash = %s, want 120.00", pf.CashBalance)
	}
	pos := l.GetPosition("p1", "ACME")
	if !pos.Quantity.Equal(d("-3")) {
		t.Errorf("position quantity = %s, want -3", pos.Quantity)
	}
}

func TestMarkStopTriggered(t *testing.T) {
	l := NewLedger()

	stop := d("100")
	limit := d("105")
	o := &domain.Order{
		ExchangeID:  "ex1",
		PortfolioID: "p1",
		Symbol:      "ACME",
		Side:        domain.OrderSideBuy,
		Type:        domain.OrderTypeStopLimit,
		Quantity:    d("1"),
		StopPrice:   &stop,
		LimitPrice:  &limit,
	}
	l.CreateOrder(o)

	if err := l.MarkStopTriggered(o.OrderID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := l.GetOrder(o.OrderID)
	if !got.StopTriggered {
		t.Error("StopTriggered not persisted")
	}
	if got.Status != domain.OrderStatusPending {
		t.Errorf("status = %s, want pending (no fill on trigger)", got.Status)
	}
	if pf, err := l.GetPortfolio("p1"); err == nil {
		t.Errorf("trigger must have no monetary effect, found portfolio %+v", pf)
	}
}

func TestPendingOrders_DeterministicArrivalOrder(t *testing.T) {
	l := NewLedger()

	base := time.Now()
	for i, id := range []string{"c", "a", "b"} {
		l.CreateOrder(&domain.Order{
			OrderID:     id,
			ExchangeID:  "ex1",
			PortfolioID: "p1",
			Symbol:      "ACME",
			Side:        domain.OrderSideBuy,
			Type:        domain.OrderTypeMarket,
			Quantity:    d("1"),
			CreatedAt:   base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	pending := l.PendingOrders("ex1", "ACME")
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}
	for i, want := range []string{"c", "a", "b"} {
		if pending[i].OrderID != want {
			t.Errorf("pending[%d] = %s, want %s (created_at order)", i, pending[i].OrderID, want)
		}
	}
}

func TestPendingOrders_ScopedToPair(t *testing.T) {
	l := NewLedger()
	l.CreateOrder(newMarketOrder("p1", domain.OrderSideBuy, "ACME", "1"))

	other := newMarketOrder("p1", domain.OrderSideBuy, "OTHER", "1")
	l.CreateOrder(other)
	foreign := newMarketOrder("p1", domain.OrderSideBuy, "ACME", "1")
	foreign.ExchangeID = "ex2"
	l.CreateOrder(foreign)

	if got := len(l.PendingOrders("ex1", "ACME")); got != 1 {
		t.Errorf("pending for (ex1, ACME) = %d, want 1", got)
	}
}
