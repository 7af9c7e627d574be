package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Season) error
	GetByID(ctx context.Context, id string) (Season, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Season, error)
	Update(ctx context.Context, item Season) error
	Delete(ctx context.Context, id string) error
}
