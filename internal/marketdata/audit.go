package marketdata

import (
	"sync"

	"github.com/dvries/simvenue/internal/domain"
)

// AuditLog is a bounded append-only record of accepted price updates.
// When the bound is reached the oldest events are discarded.
type AuditLog struct {
	mu     sync.Mutex
	events []*domain.PriceUpdate
	max    int
}

// NewAuditLog creates an AuditLog retaining at most max events.
func NewAuditLog(max int) *AuditLog {
	return &AuditLog{max: max}
}

// Append records an event, evicting the oldest if the log is full.
func (a *AuditLog) Append(ev *domain.PriceUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, ev)
	if len(a.events) > a.max {
		a.events = a.events[len(a.events)-a.max:]
	}
	return nil
}

// Events returns a snapshot of the retained events in append order.
func (a *AuditLog) Events() []*domain.PriceUpdate {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]*domain.PriceUpdate, len(a.events))
	copy(result, a.events)
	return result
}

// Len returns the number of retained events.
func (a *AuditLog) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.events)
}
