package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	qb "github.com/matchdaylabs/teamstats/internal/platform/querybuilder"
)

type StatRepository struct {
	db *sqlx.DB
}

func NewStatRepository(db *sqlx.DB) *StatRepository {
	return &StatRepository{db: db}
}

const insertStatEntryQuery = `
INSERT INTO stat_entries (id, player_id, kind, recorded_at)
VALUES ($1, $2, $3, $4)`

func (r *StatRepository) Create(ctx context.Context, item stats.Entry) error {
	if _, err := r.db.ExecContext(ctx, insertStatEntryQuery, item.ID, item.PlayerID, string(item.Kind), item.RecordedAt); err != nil {
		return fmt.Errorf("insert stat entry: %w", err)
	}
	return nil
}

// CreateBatch writes all entries in one transaction; a stat sheet import
// lands fully or not at all.
func (r *StatRepository) CreateBatch(ctx context.Context, items []stats.Entry) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for stat entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insertStatEntryQuery, item.ID, item.PlayerID, string(item.Kind), item.RecordedAt); err != nil {
			return fmt.Errorf("insert stat entry %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stat entries: %w", err)
	}

	return nil
}

func (r *StatRepository) GetByID(ctx context.Context, id string) (stats.Entry, bool, error) {
	query, args, err := qb.Select("*").From("stat_entries").Where(qb.Eq("id", id)).Limit(1).ToSQL()
	if err != nil {
		return stats.Entry{}, false, fmt.Errorf("build get stat entry query: %w", err)
	}

	var row statEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.Entry{}, false, nil
		}
		return stats.Entry{}, false, fmt.Errorf("get stat entry: %w", err)
	}

	return statEntryFromRow(row), true, nil
}

func (r *StatRepository) Update(ctx context.Context, item stats.Entry) error {
	query, args, err := qb.Update("stat_entries").
		Set("kind", string(item.Kind)).
		Set("recorded_at", item.RecordedAt).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update stat entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update stat entry: %w", err)
	}

	return nil
}

func (r *StatRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stat_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stat entry: %w", err)
	}
	return nil
}

func (r *StatRepository) ListByPlayer(ctx context.Context, playerID string) ([]stats.Entry, error) {
	query, args, err := qb.Select("*").From("stat_entries").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("recorded_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list stat entries query: %w", err)
	}

	return r.selectEntries(ctx, query, args)
}

// ListByTeam joins through the roster; a zero from/to skips that bound.
// The upper bound is exclusive.
func (r *StatRepository) ListByTeam(ctx context.Context, teamID string, from, to time.Time) ([]stats.Entry, error) {
	conditions := []qb.Condition{
		qb.Expr("player_id IN (SELECT id FROM players WHERE team_id = ?)", teamID),
	}
	if !from.IsZero() {
		conditions = append(conditions, qb.Expr("recorded_at >= ?", from))
	}
	if !to.IsZero() {
		conditions = append(conditions, qb.Expr("recorded_at < ?", to))
	}

	query, args, err := qb.Select("*").From("stat_entries").
		Where(conditions...).
		OrderBy("recorded_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team stat entries query: %w", err)
	}

	return r.selectEntries(ctx, query, args)
}

func (r *StatRepository) selectEntries(ctx context.Context, query string, args []any) ([]stats.Entry, error) {
	var rows []statEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stat entries: %w", err)
	}

	out := make([]stats.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, statEntryFromRow(row))
	}

	return out, nil
}
