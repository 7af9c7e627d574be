package game

import "context"

// Repository describes game and RSVP persistence needs from use cases.
// ListByTeam returns games ordered kickoff ascending with TBD games last.
// UpsertRSVP inserts or updates the single row per (game, player) pair.
type Repository interface {
	Create(ctx context.Context, item Game) error
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Game, error)
	Update(ctx context.Context, item Game) error
	Delete(ctx context.Context, id string) error

	UpsertRSVP(ctx context.Context, item RSVP) error
	ListRSVPsByGame(ctx context.Context, gameID string) ([]RSVP, error)
	ListRSVPsByGames(ctx context.Context, gameIDs []string) ([]RSVP, error)
}
