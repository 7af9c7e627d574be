package billing

import "context"

// Repository describes subscription persistence needs from use cases.
// Reconcile upserts the subscription row on the external id and updates
// the owning user's billing-customer reference in the same transaction;
// replaying an event is a no-op state-wise.
type Repository interface {
	GetByTeam(ctx context.Context, teamID string) (*Subscription, error)
	Reconcile(ctx context.Context, sub Subscription, ownerUserID, customerID string) error
}
