package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/player"
)

type playerTableModel struct {
	ID           string         `db:"id"`
	TeamID       string         `db:"team_id"`
	Name         string         `db:"name"`
	AvatarKey    sql.NullString `db:"avatar_key"`
	LinkedUserID sql.NullString `db:"linked_user_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:           row.ID,
		TeamID:       row.TeamID,
		Name:         row.Name,
		AvatarKey:    strings.TrimSpace(row.AvatarKey.String),
		LinkedUserID: strings.TrimSpace(row.LinkedUserID.String),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type playerInsertModel struct {
	ID           string  `db:"id"`
	TeamID       string  `db:"team_id"`
	Name         string  `db:"name"`
	AvatarKey    *string `db:"avatar_key"`
	LinkedUserID *string `db:"linked_user_id"`
}
