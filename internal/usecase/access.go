package usecase

import (
	"context"
	"fmt"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

// requireTeamAccess is the single authorization gate for team-scoped
// operations. No session and no membership are different answers: the
// former maps to 401, the latter to 403. The check is a direct existence
// read on every call; membership is never cached.
func requireTeamAccess(ctx context.Context, memberships team.MembershipRepository, principal user.Principal, teamID string) error {
	if principal.Zero() {
		return fmt.Errorf("%w: no session", ErrUnauthenticated)
	}

	ok, err := memberships.Exists(ctx, teamID, principal.UserID)
	if err != nil {
		return fmt.Errorf("check team membership: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user=%s team=%s", ErrForbidden, principal.UserID, teamID)
	}

	return nil
}

// requireActiveSubscription closes mutating team features when the billing
// gate is shut. Read access is never gated.
func requireActiveSubscription(ctx context.Context, subscriptions billing.Repository, teamID string) error {
	sub, err := subscriptions.GetByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team subscription: %w", err)
	}
	if !billing.ActiveSubscription(sub) {
		return fmt.Errorf("%w: team=%s", ErrPaymentRequired, teamID)
	}

	return nil
}
