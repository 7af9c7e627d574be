package postgres

import (
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/stats"
)

type statEntryTableModel struct {
	ID         string    `db:"id"`
	PlayerID   string    `db:"player_id"`
	Kind       string    `db:"kind"`
	RecordedAt time.Time `db:"recorded_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func statEntryFromRow(row statEntryTableModel) stats.Entry {
	return stats.Entry{
		ID:         row.ID,
		PlayerID:   row.PlayerID,
		Kind:       stats.Kind(row.Kind),
		RecordedAt: row.RecordedAt,
		CreatedAt:  row.CreatedAt,
	}
}
