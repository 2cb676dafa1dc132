package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// liveCandle accumulates OHLCV data for one (exchange, symbol) pair
// between engine-cadence flushes. Both cadences feed accepted prices
// into it; fill volume is added by the engine cadence only.
type liveCandle struct {
	open    decimal.Decimal
	high    decimal.Decimal
	low     decimal.Decimal
	close   decimal.Decimal
	volume  decimal.Decimal
	start   time.Time
	hasData bool
}

// observe folds a price into the bar.
func (c *liveCandle) observe(price decimal.Decimal, at time.Time) {
	if !c.hasData {
		c.open, c.high, c.low = price, price, price
		c.start = at
		c.hasData = true
	} else {
		if price.GreaterThan(c.high) {
			c.high = price
		}
		if price.LessThan(c.low) {
			c.low = price
		}
	}
	c.close = price
}

// addVolume adds fill quantity to the bar's volume.
func (c *liveCandle) addVolume(qty decimal.Decimal) {
	c.volume = c.volume.Add(qty)
}

// flush closes the bar and resets the accumulator. Returns nil when no
// price was observed in the window.
func (c *liveCandle) flush(exchangeID, symbol string, end time.Time) *domain.Candle {
	if !c.hasData {
		return nil
	}
	closed := &domain.Candle{
		CandleID:   uuid.New().String(),
		ExchangeID: exchangeID,
		Symbol:     symbol,
		Open:       c.open,
		High:       c.high,
		Low:        c.low,
		Close:      c.close,
		Volume:     c.volume,
		Start:      c.start,
		End:        end,
	}
	c.hasData = false
	c.volume = decimal.Zero
	return closed
}
