package store

import (
	"sync"

	"github.com/dvries/simvenue/internal/domain"
)

// ExchangeStore is a thread-safe in-memory store for exchanges,
// keyed by exchange_id. The engine only reads from it; the external
// provisioning flow writes.
type ExchangeStore struct {
	mu        sync.RWMutex
	exchanges map[string]*domain.Exchange
	order     []string // insertion order, for deterministic iteration
}

// NewExchangeStore creates an empty ExchangeStore.
func NewExchangeStore() *ExchangeStore {
	return &ExchangeStore{
		exchanges: make(map[string]*domain.Exchange),
	}
}

// Put inserts or replaces an exchange.
func (s *ExchangeStore) Put(ex *domain.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.exchanges[ex.ExchangeID]; !exists {
		s.order = append(s.order, ex.ExchangeID)
	}
	s.exchanges[ex.ExchangeID] = ex
}

// Get retrieves an exchange by ID. It returns
// domain.ErrExchangeNotFound if the exchange does not exist.
func (s *ExchangeStore) Get(id string) (*domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ex, ok := s.exchanges[id]
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}
	return ex, nil
}

// ListActive returns all active exchanges in insertion order.
func (s *ExchangeStore) ListActive() ([]*domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*domain.Exchange, 0, len(s.order))
	for _, id := range s.order {
		if ex := s.exchanges[id]; ex.Active {
			active = append(active, ex)
		}
	}
	return active, nil
}
