package domain

import "errors"

// Sentinel errors for engine-level error handling. Insufficient funds
// is a recognized settlement outcome (the fill is skipped and the order
// stays pending), not a failure of the run.
var (
	ErrExchangeNotFound  = errors.New("exchange_not_found")
	ErrOrderNotFound     = errors.New("order_not_found")
	ErrOrderNotOpen      = errors.New("order_not_open")
	ErrPortfolioNotFound = errors.New("portfolio_not_found")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalidEvent      = errors.New("invalid_event")
)
