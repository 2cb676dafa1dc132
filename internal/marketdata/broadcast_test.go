package marketdata

import (
	"testing"
	"time"

	"github.com/dvries/simvenue/internal/domain"
)

func testEvent(symbol string) *domain.PriceUpdate {
	return &domain.PriceUpdate{
		EventID:    "ev-" + symbol,
		ExchangeID: "ex1",
		Symbol:     symbol,
		Price:      domain.MustDecimal("100"),
		PrevPrice:  domain.MustDecimal("99"),
		At:         time.Now(),
	}
}

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker()

	ch1, unsub1 := b.Subscribe("ticker:ex1", 1)
	ch2, unsub2 := b.Subscribe("ticker:ex1", 1)
	defer unsub1()
	defer unsub2()

	if err := b.Publish("ticker:ex1", testEvent("ACME")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for i, ch := range []<-chan *domain.PriceUpdate{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Symbol != "ACME" {
				t.Errorf("subscriber %d got %q", i, ev.Symbol)
			}
		default:
			t.Errorf("subscriber %d got nothing", i)
		}
	}
}

func TestBroker_GroupsAreIsolated(t *testing.T) {
	b := NewBroker()

	ch, unsub := b.Subscribe("ticker:ex1", 1)
	defer unsub()

	b.Publish("ticker:ex2", testEvent("ACME"))

	select {
	case ev := <-ch:
		t.Errorf("got event %q from another group", ev.Symbol)
	default:
	}
}

func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroker()

	ch, unsub := b.Subscribe("ticker:ex1", 1)
	defer unsub()

	// Second publish finds the buffer full and must not block.
	b.Publish("ticker:ex1", testEvent("FIRST"))
	done := make(chan struct{})
	go func() {
		b.Publish("ticker:ex1", testEvent("SECOND"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	ev := <-ch
	if ev.Symbol != "FIRST" {
		t.Errorf("got %q, want FIRST", ev.Symbol)
	}
	select {
	case ev := <-ch:
		t.Errorf("dropped event %q was delivered", ev.Symbol)
	default:
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker()

	_, unsub := b.Subscribe("ticker:ex1", 1)
	if got := b.SubscriberCount("ticker:ex1"); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}

	unsub()
	if got := b.SubscriberCount("ticker:ex1"); got != 0 {
		t.Errorf("SubscriberCount after unsubscribe = %d, want 0", got)
	}

	// Publishing after unsubscribe must not panic or deliver.
	if err := b.Publish("ticker:ex1", testEvent("ACME")); err != nil {
		t.Errorf("Publish: %v", err)
	}
}
