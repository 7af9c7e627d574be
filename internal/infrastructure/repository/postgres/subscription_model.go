package postgres

import (
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
)

type subscriptionTableModel struct {
	TeamID            string     `db:"team_id"`
	ExternalID        string     `db:"external_id"`
	Status            string     `db:"status"`
	CancelAtPeriodEnd bool       `db:"cancel_at_period_end"`
	PeriodEnd         *time.Time `db:"period_end"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func subscriptionFromRow(row subscriptionTableModel) billing.Subscription {
	sub := billing.Subscription{
		TeamID:            row.TeamID,
		ExternalID:        row.ExternalID,
		Status:            billing.Status(row.Status),
		CancelAtPeriodEnd: row.CancelAtPeriodEnd,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.PeriodEnd != nil {
		sub.PeriodEnd = *row.PeriodEnd
	}
	return sub
}
