package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/invite"
)

type inviteTableModel struct {
	Token      string         `db:"token"`
	PlayerID   string         `db:"player_id"`
	InviterID  string         `db:"inviter_id"`
	Email      string         `db:"email"`
	CreatedAt  time.Time      `db:"created_at"`
	AcceptedAt *time.Time     `db:"accepted_at"`
	UserID     sql.NullString `db:"user_id"`
}

func inviteFromRow(row inviteTableModel) invite.Invite {
	return invite.Invite{
		Token:      row.Token,
		PlayerID:   row.PlayerID,
		InviterID:  row.InviterID,
		Email:      row.Email,
		CreatedAt:  row.CreatedAt,
		AcceptedAt: row.AcceptedAt,
		UserID:     strings.TrimSpace(row.UserID.String),
	}
}

type inviteRequestTableModel struct {
	Token      string     `db:"token"`
	UserID     string     `db:"user_id"`
	TeamID     string     `db:"team_id"`
	CreatedAt  time.Time  `db:"created_at"`
	AcceptedAt *time.Time `db:"accepted_at"`
}

func inviteRequestFromRow(row inviteRequestTableModel) invite.Request {
	return invite.Request{
		Token:      row.Token,
		UserID:     row.UserID,
		TeamID:     row.TeamID,
		CreatedAt:  row.CreatedAt,
		AcceptedAt: row.AcceptedAt,
	}
}
