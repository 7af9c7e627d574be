package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

// PortalClient creates provider-hosted billing management sessions.
type PortalClient interface {
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// SubscriptionView is what the settings page shows about billing state.
type SubscriptionView struct {
	Active            bool
	Status            billing.Status
	CancelAtPeriodEnd bool
	PeriodEnd         time.Time
}

type BillingService struct {
	memberships   team.MembershipRepository
	users         user.Repository
	subscriptions billing.Repository
	portal        PortalClient
	productID     string
	logger        *logging.Logger
}

func NewBillingService(
	memberships team.MembershipRepository,
	users user.Repository,
	subscriptions billing.Repository,
	portal PortalClient,
	productID string,
	logger *logging.Logger,
) *BillingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &BillingService{
		memberships:   memberships,
		users:         users,
		subscriptions: subscriptions,
		portal:        portal,
		productID:     productID,
		logger:        logger,
	}
}

// HandleSubscriptionEvent reconciles one provider webhook. The handler is
// idempotent: replays upsert the same row to the same state. Events for
// other products are acknowledged without touching state so unrelated
// offerings can share the webhook endpoint. A team with no members cannot
// be reconciled and is a data integrity failure, not a bad request: the
// provider must retry once the data is repaired.
func (s *BillingService) HandleSubscriptionEvent(ctx context.Context, event billing.Event) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BillingService.HandleSubscriptionEvent")
	defer span.End()

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.productID != "" && event.ProductID != s.productID {
		s.logger.InfoContext(ctx, "ignoring billing event for other product",
			"productID", event.ProductID,
			"subscriptionID", event.ExternalID,
		)
		return nil
	}

	owner, exists, err := s.memberships.FirstByTeam(ctx, event.TeamID)
	if err != nil {
		return fmt.Errorf("resolve team owner: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team %s has no members to attach billing to", ErrInvariant, event.TeamID)
	}

	sub := billing.Subscription{
		TeamID:            event.TeamID,
		ExternalID:        event.ExternalID,
		Status:            event.Status,
		CancelAtPeriodEnd: event.CancelAtPeriodEnd,
		PeriodEnd:         event.PeriodEnd,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.subscriptions.Reconcile(ctx, sub, owner.UserID, event.CustomerID); err != nil {
		return fmt.Errorf("reconcile subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "subscription reconciled",
		"teamID", event.TeamID,
		"subscriptionID", event.ExternalID,
		"status", string(event.Status),
	)

	return nil
}

// GetSubscription reports the gate state for a team's settings page. A
// missing record reads as an inactive subscription, not an error.
func (s *BillingService) GetSubscription(ctx context.Context, principal user.Principal, teamID string) (SubscriptionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BillingService.GetSubscription")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return SubscriptionView{}, err
	}

	sub, err := s.subscriptions.GetByTeam(ctx, teamID)
	if err != nil {
		return SubscriptionView{}, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return SubscriptionView{}, nil
	}

	return SubscriptionView{
		Active:            sub.Active(),
		Status:            sub.Status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		PeriodEnd:         sub.PeriodEnd,
	}, nil
}

// PortalURL creates a provider-hosted billing portal session for the
// signed-in user's own billing customer.
func (s *BillingService) PortalURL(ctx context.Context, principal user.Principal, teamID, returnURL string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BillingService.PortalURL")
	defer span.End()

	if s.portal == nil {
		return "", fmt.Errorf("%w: billing portal is not configured", ErrDependencyUnavailable)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return "", err
	}

	u, exists, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: user=%s", ErrNotFound, principal.UserID)
	}
	if u.BillingCustomerID == "" {
		return "", fmt.Errorf("%w: no billing customer on record", ErrInvalidInput)
	}

	url, err := s.portal.CreatePortalSession(ctx, u.BillingCustomerID, returnURL)
	if err != nil {
		return "", fmt.Errorf("%w: create portal session: %v", ErrDependencyUnavailable, err)
	}

	return url, nil
}
