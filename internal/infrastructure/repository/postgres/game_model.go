package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/game"
)

type gameTableModel struct {
	ID          string         `db:"id"`
	TeamID      string         `db:"team_id"`
	Opponent    string         `db:"opponent"`
	Location    sql.NullString `db:"location"`
	KickoffAt   *time.Time     `db:"kickoff_at"`
	CancelledAt *time.Time     `db:"cancelled_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:          row.ID,
		TeamID:      row.TeamID,
		Opponent:    row.Opponent,
		Location:    strings.TrimSpace(row.Location.String),
		KickoffAt:   row.KickoffAt,
		CancelledAt: row.CancelledAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type gameInsertModel struct {
	ID        string     `db:"id"`
	TeamID    string     `db:"team_id"`
	Opponent  string     `db:"opponent"`
	Location  *string    `db:"location"`
	KickoffAt *time.Time `db:"kickoff_at"`
}

type rsvpTableModel struct {
	GameID    string    `db:"game_id"`
	PlayerID  string    `db:"player_id"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func rsvpFromRow(row rsvpTableModel) game.RSVP {
	return game.RSVP{
		GameID:    row.GameID,
		PlayerID:  row.PlayerID,
		Value:     game.RSVPValue(row.Value),
		UpdatedAt: row.UpdatedAt,
	}
}
