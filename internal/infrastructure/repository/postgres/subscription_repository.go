package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	qb "github.com/matchdaylabs/teamstats/internal/platform/querybuilder"
)

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByTeam(ctx context.Context, teamID string) (*billing.Subscription, error) {
	query, args, err := qb.Select("*").From("team_subscriptions").
		Where(qb.Eq("team_id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get subscription query: %w", err)
	}

	var row subscriptionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	sub := subscriptionFromRow(row)
	return &sub, nil
}

// Reconcile upserts the subscription row on the external id and stores the
// owner's billing-customer reference in the same transaction. Webhook
// replays hit the conflict arm and settle on the same state.
func (r *SubscriptionRepository) Reconcile(ctx context.Context, sub billing.Subscription, ownerUserID, customerID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for subscription reconcile: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO team_subscriptions (team_id, external_id, status, cancel_at_period_end, period_end)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (external_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    status = EXCLUDED.status,
    cancel_at_period_end = EXCLUDED.cancel_at_period_end,
    period_end = EXCLUDED.period_end,
    updated_at = NOW()`

	if _, err := tx.ExecContext(ctx, upsertQuery,
		sub.TeamID,
		sub.ExternalID,
		string(sub.Status),
		sub.CancelAtPeriodEnd,
		optionalTime(sub.PeriodEnd),
	); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if customerID != "" {
		const customerQuery = `
UPDATE users
SET billing_customer_id = $1, updated_at = NOW()
WHERE id = $2`
		if _, err := tx.ExecContext(ctx, customerQuery, customerID, ownerUserID); err != nil {
			return fmt.Errorf("store billing customer ref: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscription reconcile: %w", err)
	}

	return nil
}
