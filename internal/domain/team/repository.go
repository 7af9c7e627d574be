package team

import "context"

// Repository describes team persistence needs from use cases.
// CreateWithOwner writes the team row and the owner membership row in one
// transaction so a team can never exist without an admin.
type Repository interface {
	CreateWithOwner(ctx context.Context, item Team, ownerUserID string) error
	GetByID(ctx context.Context, id string) (Team, bool, error)
	GetBySlug(ctx context.Context, slug string) (Team, bool, error)
	Update(ctx context.Context, item Team) error
	ListByUser(ctx context.Context, userID string) ([]Team, error)
}

// MembershipRepository resolves and mutates team/user membership links.
type MembershipRepository interface {
	Exists(ctx context.Context, teamID, userID string) (bool, error)
	Create(ctx context.Context, item Membership) error
	ListByTeam(ctx context.Context, teamID string) ([]Membership, error)
	FirstByTeam(ctx context.Context, teamID string) (Membership, bool, error)
}
