package store

import (
	"errors"
	"testing"

	"github.com/dvries/simvenue/internal/domain"
)

func TestExchangeStore_GetNotFound(t *testing.T) {
	s := NewExchangeStore()
	_, err := s.Get("missing")
	if !errors.Is(err, domain.ErrExchangeNotFound) {
		t.Errorf("error = %v, want ErrExchangeNotFound", err)
	}
}

func TestExchangeStore_ListActiveFiltersAndPreservesOrder(t *testing.T) {
	s := NewExchangeStore()
	s.Put(&domain.Exchange{ExchangeID: "b", Active: true})
	s.Put(&domain.Exchange{ExchangeID: "a", Active: false})
	s.Put(&domain.Exchange{ExchangeID: "c", Active: true})

	active, err := s.ListActive()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
	if active[0].ExchangeID != "b" || active[1].ExchangeID != "c" {
		t.Errorf("order = [%s %s], want [b c]", active[0].ExchangeID, active[1].ExchangeID)
	}
}

func TestExchangeStore_PutReplaces(t *testing.T) {
	s := NewExchangeStore()
	s.Put(&domain.Exchange{ExchangeID: "a", Name: "one", Active: true})
	s.Put(&domain.Exchange{ExchangeID: "a", Name: "two", Active: true})

	ex, err := s.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name != "two" {
		t.Errorf("name = %s, want two", ex.Name)
	}
	if active, _ := s.ListActive(); len(active) != 1 {
		t.Errorf("active = %d, want 1 (no duplicate)", len(active))
	}
}
