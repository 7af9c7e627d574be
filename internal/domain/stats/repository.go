package stats

import (
	"context"
	"time"
)

// Repository describes stat entry persistence needs from use cases.
// ListByTeam joins through the roster; a zero from/to skips that bound.
type Repository interface {
	Create(ctx context.Context, item Entry) error
	CreateBatch(ctx context.Context, items []Entry) error
	GetByID(ctx context.Context, id string) (Entry, bool, error)
	Update(ctx context.Context, item Entry) error
	Delete(ctx context.Context, id string) error
	ListByPlayer(ctx context.Context, playerID string) ([]Entry, error)
	ListByTeam(ctx context.Context, teamID string, from, to time.Time) ([]Entry, error)
}
