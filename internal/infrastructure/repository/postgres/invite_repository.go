package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaylabs/teamstats/internal/domain/invite"
	qb "github.com/matchdaylabs/teamstats/internal/platform/querybuilder"
)

type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) CreateInvite(ctx context.Context, item invite.Invite) error {
	const query = `
INSERT INTO invites (token, player_id, inviter_id, email)
VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, item.Token, item.PlayerID, item.InviterID, item.Email); err != nil {
		return fmt.Errorf("insert invite: %w", err)
	}

	return nil
}

func (r *InviteRepository) GetInviteByToken(ctx context.Context, token string) (invite.Invite, bool, error) {
	query, args, err := qb.Select("*").From("invites").Where(qb.Eq("token", token)).Limit(1).ToSQL()
	if err != nil {
		return invite.Invite{}, false, fmt.Errorf("build get invite query: %w", err)
	}

	var row inviteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Invite{}, false, nil
		}
		return invite.Invite{}, false, fmt.Errorf("get invite: %w", err)
	}

	return inviteFromRow(row), true, nil
}

func (r *InviteRepository) AcceptedInviteForPlayer(ctx context.Context, playerID string) (invite.Invite, bool, error) {
	query, args, err := qb.Select("*").From("invites").
		Where(
			qb.Eq("player_id", playerID),
			qb.Expr("accepted_at IS NOT NULL"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return invite.Invite{}, false, fmt.Errorf("build accepted invite query: %w", err)
	}

	var row inviteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Invite{}, false, nil
		}
		return invite.Invite{}, false, fmt.Errorf("get accepted invite: %w", err)
	}

	return inviteFromRow(row), true, nil
}

// AcceptInvite marks the invite accepted and links the player to the user
// in one transaction.
func (r *InviteRepository) AcceptInvite(ctx context.Context, token, userID string, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for accept invite: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const acceptQuery = `
UPDATE invites
SET accepted_at = $1, user_id = $2
WHERE token = $3 AND accepted_at IS NULL
RETURNING player_id`

	var playerID string
	if err := tx.GetContext(ctx, &playerID, acceptQuery, at, userID, token); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("invite %s is missing or already accepted", token)
		}
		return fmt.Errorf("accept invite: %w", err)
	}

	const linkQuery = `
UPDATE players
SET linked_user_id = $1, updated_at = NOW()
WHERE id = $2`
	if _, err := tx.ExecContext(ctx, linkQuery, userID, playerID); err != nil {
		return fmt.Errorf("link player to user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accept invite: %w", err)
	}

	return nil
}

func (r *InviteRepository) ListInvitesByPlayer(ctx context.Context, playerID string) ([]invite.Invite, error) {
	query, args, err := qb.Select("*").From("invites").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list invites query: %w", err)
	}

	var rows []inviteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select invites: %w", err)
	}

	out := make([]invite.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, inviteFromRow(row))
	}

	return out, nil
}

func (r *InviteRepository) CreateRequest(ctx context.Context, item invite.Request) error {
	const query = `
INSERT INTO invite_requests (token, user_id, team_id)
VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, item.Token, item.UserID, item.TeamID); err != nil {
		return fmt.Errorf("insert invite request: %w", err)
	}

	return nil
}

func (r *InviteRepository) GetRequestByToken(ctx context.Context, token string) (invite.Request, bool, error) {
	query, args, err := qb.Select("*").From("invite_requests").Where(qb.Eq("token", token)).Limit(1).ToSQL()
	if err != nil {
		return invite.Request{}, false, fmt.Errorf("build get invite request query: %w", err)
	}

	var row inviteRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Request{}, false, nil
		}
		return invite.Request{}, false, fmt.Errorf("get invite request: %w", err)
	}

	return inviteRequestFromRow(row), true, nil
}

func (r *InviteRepository) ListOpenRequestsByTeam(ctx context.Context, teamID string) ([]invite.Request, error) {
	query, args, err := qb.Select("*").From("invite_requests").
		Where(
			qb.Eq("team_id", teamID),
			qb.IsNull("accepted_at"),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list invite requests query: %w", err)
	}

	var rows []inviteRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select invite requests: %w", err)
	}

	out := make([]invite.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, inviteRequestFromRow(row))
	}

	return out, nil
}

// ApproveRequest marks the request accepted and links the requester to the
// chosen roster slot in one transaction.
func (r *InviteRepository) ApproveRequest(ctx context.Context, token, playerID, inviterID string, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for approve request: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const approveQuery = `
UPDATE invite_requests
SET accepted_at = $1
WHERE token = $2 AND accepted_at IS NULL
RETURNING user_id`

	var userID string
	if err := tx.GetContext(ctx, &userID, approveQuery, at, token); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("invite request %s is missing or already approved", token)
		}
		return fmt.Errorf("approve invite request: %w", err)
	}

	const linkQuery = `
UPDATE players
SET linked_user_id = $1, updated_at = NOW()
WHERE id = $2`
	if _, err := tx.ExecContext(ctx, linkQuery, userID, playerID); err != nil {
		return fmt.Errorf("link player to requester: %w", err)
	}

	// Keep a trail of who approved via an accepted invite row.
	const trailQuery = `
INSERT INTO invites (token, player_id, inviter_id, email, accepted_at, user_id)
SELECT $1 || '-approved', $2, $3, u.email, $4, u.id
FROM users u
WHERE u.id = $5
ON CONFLICT (token) DO NOTHING`
	if _, err := tx.ExecContext(ctx, trailQuery, token, playerID, inviterID, at, userID); err != nil {
		return fmt.Errorf("record approval trail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approve request: %w", err)
	}

	return nil
}
