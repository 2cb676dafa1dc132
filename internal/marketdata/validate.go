package marketdata

import (
	"fmt"

	"github.com/dvries/simvenue/internal/domain"
)

// Validator checks generated price events before they leave the core.
// Invalid events are dropped by the orchestrator, logged, and never
// cached, broadcast, audited or persisted.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns a domain.ErrInvalidEvent-wrapped error describing
// the first failed check, or nil for a well-formed event.
func (v *Validator) Validate(ev *domain.PriceUpdate) error {
	switch {
	case ev.EventID == "":
		return fmt.Errorf("%w: missing event_id", domain.ErrInvalidEvent)
	case ev.ExchangeID == "":
		return fmt.Errorf("%w: missing exchange_id", domain.ErrInvalidEvent)
	case ev.Symbol == "":
		return fmt.Errorf("%w: missing symbol", domain.ErrInvalidEvent)
	case ev.Price.Sign() <= 0:
		return fmt.Errorf("%w: non-positive price %s", domain.ErrInvalidEvent, ev.Price)
	case ev.At.IsZero():
		return fmt.Errorf("%w: missing timestamp", domain.ErrInvalidEvent)
	}
	return nil
}
