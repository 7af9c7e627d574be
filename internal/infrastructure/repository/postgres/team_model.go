package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/team"
)

type teamTableModel struct {
	ID        string         `db:"id"`
	Slug      string         `db:"slug"`
	Name      string         `db:"name"`
	Color     string         `db:"color"`
	LogoKey   sql.NullString `db:"logo_key"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.ID,
		Slug:      row.Slug,
		Name:      row.Name,
		Color:     team.Color(row.Color),
		LogoKey:   strings.TrimSpace(row.LogoKey.String),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type membershipTableModel struct {
	TeamID    string    `db:"team_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

func membershipFromRow(row membershipTableModel) team.Membership {
	return team.Membership{
		TeamID:    row.TeamID,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
	}
}
