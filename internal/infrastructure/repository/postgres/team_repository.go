package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaylabs/teamstats/internal/domain/team"
	qb "github.com/matchdaylabs/teamstats/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// CreateWithOwner writes the team row and the owner membership row in one
// transaction so a team can never exist without an admin.
func (r *TeamRepository) CreateWithOwner(ctx context.Context, item team.Team, ownerUserID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for create team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertTeamQuery = `
INSERT INTO teams (id, slug, name, color, logo_key)
VALUES ($1, $2, $3, $4, NULLIF($5, ''))`
	if _, err := tx.ExecContext(ctx, insertTeamQuery, item.ID, item.Slug, item.Name, string(item.Color), item.LogoKey); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	const insertMembershipQuery = `
INSERT INTO team_members (team_id, user_id)
VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, insertMembershipQuery, item.ID, ownerUserID); err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create team: %w", err)
	}

	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("color", string(item.Color)).
		Set("logo_key", optionalString(item.LogoKey)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team: %w", err)
	}

	return nil
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]team.Team, error) {
	const query = `
SELECT t.*
FROM teams t
JOIN team_members m ON m.team_id = t.id
WHERE m.user_id = $1
ORDER BY t.created_at`

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select teams by user: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Exists(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teamID, userID); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return exists, nil
}

func (r *MembershipRepository) Create(ctx context.Context, item team.Membership) error {
	const query = `
INSERT INTO team_members (team_id, user_id)
VALUES ($1, $2)
ON CONFLICT (team_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, item.TeamID, item.UserID); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

func (r *MembershipRepository) ListByTeam(ctx context.Context, teamID string) ([]team.Membership, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select memberships: %w", err)
	}

	out := make([]team.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}

	return out, nil
}

// FirstByTeam returns the oldest membership, which by construction is the
// team creator.
func (r *MembershipRepository) FirstByTeam(ctx context.Context, teamID string) (team.Membership, bool, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("created_at").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Membership{}, false, fmt.Errorf("build first membership query: %w", err)
	}

	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Membership{}, false, nil
		}
		return team.Membership{}, false, fmt.Errorf("get first membership: %w", err)
	}

	return membershipFromRow(row), true, nil
}
