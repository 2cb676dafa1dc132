package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dvries/simvenue/internal/domain"
)

// pairKey identifies one (exchange, symbol) pair.
func pairKey(exchangeID, symbol string) string {
	return exchangeID + ":" + symbol
}

// MarketStore is a thread-safe in-memory store for last traded prices
// and candle history, keyed by (exchange, symbol). Candles are
// append-only and chronological.
type MarketStore struct {
	mu      sync.RWMutex
	prices  map[string]decimal.Decimal
	candles map[string][]*domain.Candle
}

// NewMarketStore creates an empty MarketStore.
func NewMarketStore() *MarketStore {
	return &MarketStore{
		prices:  make(map[string]decimal.Decimal),
		candles: make(map[string][]*domain.Candle),
	}
}

// LatestPrice returns the last traded price for the pair and whether
// one has been recorded.
func (s *MarketStore) LatestPrice(exchangeID, symbol string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prices[pairKey(exchangeID, symbol)]
	return p, ok
}

// SetLatestPrice records the last traded price for the pair.
func (s *MarketStore) SetLatestPrice(exchangeID, symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[pairKey(exchangeID, symbol)] = price
}

// AppendCandle adds a candle to the pair's chronological history.
func (s *MarketStore) AppendCandle(c *domain.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(c.ExchangeID, c.Symbol)
	s.candles[key] = append(s.candles[key], c)
}

// Candles returns the pair's candle history in chronological order.
// Returns an empty slice if no candles exist for the pair.
func (s *MarketStore) Candles(exchangeID, symbol string) []*domain.Candle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candles := s.candles[pairKey(exchangeID, symbol)]
	result := make([]*domain.Candle, len(candles))
	copy(result, candles)
	return result
}
