package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaylabs/teamstats/internal/domain/game"
	qb "github.com/matchdaylabs/teamstats/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	insertModel := gameInsertModel{
		ID:        item.ID,
		TeamID:    item.TeamID,
		Opponent:  item.Opponent,
		Location:  optionalString(item.Location),
		KickoffAt: item.KickoffAt,
	}

	query, args, err := qb.InsertModel("games", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").Where(qb.Eq("id", id)).Limit(1).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

// ListByTeam orders by kickoff ascending with date-TBD games last.
func (r *GameRepository) ListByTeam(ctx context.Context, teamID string) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("kickoff_at ASC NULLS LAST", "created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}

	return out, nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	query, args, err := qb.Update("games").
		Set("opponent", item.Opponent).
		Set("location", optionalString(item.Location)).
		Set("kickoff_at", item.KickoffAt).
		Set("cancelled_at", item.CancelledAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// UpsertRSVP keeps the single row per (game, player): a repeat answer
// replaces the previous one.
func (r *GameRepository) UpsertRSVP(ctx context.Context, item game.RSVP) error {
	const query = `
INSERT INTO rsvps (game_id, player_id, value)
VALUES ($1, $2, $3)
ON CONFLICT (game_id, player_id)
DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, item.GameID, item.PlayerID, string(item.Value)); err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}

	return nil
}

func (r *GameRepository) ListRSVPsByGame(ctx context.Context, gameID string) ([]game.RSVP, error) {
	query, args, err := qb.Select("*").From("rsvps").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rsvps query: %w", err)
	}

	return r.selectRSVPs(ctx, query, args)
}

func (r *GameRepository) ListRSVPsByGames(ctx context.Context, gameIDs []string) ([]game.RSVP, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(gameIDs))
	for _, id := range gameIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("rsvps").
		Where(qb.In("game_id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rsvps by games query: %w", err)
	}

	return r.selectRSVPs(ctx, query, args)
}

func (r *GameRepository) selectRSVPs(ctx context.Context, query string, args []any) ([]game.RSVP, error) {
	var rows []rsvpTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rsvps: %w", err)
	}

	out := make([]game.RSVP, 0, len(rows))
	for _, row := range rows {
		out = append(out, rsvpFromRow(row))
	}

	return out, nil
}
