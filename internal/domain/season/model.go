package season

import (
	"fmt"
	"time"
)

// Season is a named inclusive date range used to filter games and stat
// entries. Overlapping seasons are allowed; a season is a read-time filter,
// not an ownership boundary.
type Season struct {
	ID        string
	TeamID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("season team id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("season dates are required")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("season end date is before start date")
	}

	return nil
}

// Contains reports whether t falls inside the season by calendar date,
// boundaries inclusive.
func (s Season) Contains(t time.Time) bool {
	day := truncateToDate(t)
	return !day.Before(truncateToDate(s.StartDate)) && !day.After(truncateToDate(s.EndDate))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
