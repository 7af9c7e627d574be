package player

import "context"

// Repository describes roster persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Player) error
	GetByID(ctx context.Context, id string) (Player, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	Update(ctx context.Context, item Player) error
	Delete(ctx context.Context, id string) error
}
