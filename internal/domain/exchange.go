package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is an isolated simulated market with its own volatility
// regime and symbol universe. Exchanges are provisioned by an external
// flow and are read-only to the engine.
type Exchange struct {
	ExchangeID string `json:"exchange_id"`
	Name       string `json:"name"`
	// Active gates the ticker cadence; EngineEnabled additionally gates
	// order matching and candle persistence on the engine cadence.
	Active        bool `json:"active"`
	EngineEnabled bool `json:"engine_enabled"`
	// VolatilityMultiplier scales the base per-tick volatility,
	// e.g. 1.0 for a calm regime, 4.5 for a crisis regime.
	VolatilityMultiplier decimal.Decimal `json:"volatility_multiplier"`
	Symbols              []string        `json:"symbols"`
	CreatedAt            time.Time       `json:"created_at"`
}
