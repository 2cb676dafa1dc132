package marketdata

import (
	"sync"

	"github.com/dvries/simvenue/internal/domain"
)

// Broker is an in-process pub/sub channel for price updates, grouped
// by key (one group per exchange ticker stream). Publishing is
// non-blocking: a subscriber whose buffer is full misses the event
// rather than stalling the engine.
type Broker struct {
	mu   sync.RWMutex
	subs map[string][]chan *domain.PriceUpdate
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string][]chan *domain.PriceUpdate),
	}
}

// Subscribe registers a buffered channel on the group and returns it
// along with an unsubscribe function.
func (b *Broker) Subscribe(group string, buffer int) (<-chan *domain.PriceUpdate, func()) {
	ch := make(chan *domain.PriceUpdate, buffer)

	b.mu.Lock()
	b.subs[group] = append(b.subs[group], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		chans := b.subs[group]
		for i, c := range chans {
			if c == ch {
				b.subs[group] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
	}
	return ch, unsubscribe
}

// Publish delivers the event to every subscriber of the group,
// dropping it for subscribers that cannot keep up. Always returns nil;
// the error is part of the Broadcaster port for network-backed
// implementations.
func (b *Broker) Publish(group string, ev *domain.PriceUpdate) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[group] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// SubscriberCount returns the number of subscribers on the group.
func (b *Broker) SubscriberCount(group string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[group])
}
