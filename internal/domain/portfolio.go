package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds a participant's cash balance on one exchange.
// The ledger guarantees the balance is never negative after a
// committed buy fill.
type Portfolio struct {
	PortfolioID string          `json:"portfolio_id"`
	ExchangeID  string          `json:"exchange_id"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
