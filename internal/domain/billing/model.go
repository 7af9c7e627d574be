package billing

import (
	"fmt"
	"time"
)

// Status mirrors the provider's subscription status strings. Only the
// values the gate cares about are named; unrecognised statuses pass the
// gate by design, so new provider states fail open rather than locking
// paying teams out.
type Status string

const (
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusUnpaid   Status = "unpaid"
)

// Subscription is a team's latest billing state, upserted from provider
// webhooks keyed by the external subscription id.
type Subscription struct {
	TeamID            string
	ExternalID        string
	Status            Status
	CancelAtPeriodEnd bool
	PeriodEnd         time.Time
	UpdatedAt         time.Time
}

func (s Subscription) Validate() error {
	if s.TeamID == "" {
		return fmt.Errorf("subscription team id is required")
	}
	if s.ExternalID == "" {
		return fmt.Errorf("subscription external id is required")
	}
	if s.Status == "" {
		return fmt.Errorf("subscription status is required")
	}

	return nil
}

// Active is the subscription gate: a denylist, not an allowlist. Only
// canceled and unpaid close the gate; everything else, unknown statuses
// included, keeps features enabled.
func (s Subscription) Active() bool {
	switch s.Status {
	case StatusCanceled, StatusUnpaid:
		return false
	default:
		return true
	}
}

// ActiveSubscription reports the gate for a possibly missing record.
func ActiveSubscription(s *Subscription) bool {
	if s == nil {
		return false
	}
	return s.Active()
}

// Event is a provider subscription-lifecycle webhook reduced to the fields
// the reconciler needs. TeamID travels in the provider event metadata.
type Event struct {
	ExternalID        string
	TeamID            string
	ProductID         string
	CustomerID        string
	Status            Status
	CancelAtPeriodEnd bool
	PeriodEnd         time.Time
}

func (e Event) Validate() error {
	if e.ExternalID == "" {
		return fmt.Errorf("billing event subscription id is required")
	}
	if e.TeamID == "" {
		return fmt.Errorf("billing event team id is required")
	}
	if e.Status == "" {
		return fmt.Errorf("billing event status is required")
	}

	return nil
}
