package game

import (
	"fmt"
	"time"
)

// Game is a scheduled (or to-be-decided) fixture for a team. A nil
// KickoffAt means the date is TBD. Cancellation is independent of
// scheduling: CancelledAt never moves a game between past and upcoming.
type Game struct {
	ID          string
	TeamID      string
	Opponent    string
	Location    string
	KickoffAt   *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.TeamID == "" {
		return fmt.Errorf("game team id is required")
	}
	if g.Opponent == "" {
		return fmt.Errorf("game opponent is required")
	}

	return nil
}

func (g Game) Cancelled() bool {
	return g.CancelledAt != nil
}

// RSVPValue is a player's attendance answer.
type RSVPValue string

const (
	RSVPYes RSVPValue = "yes"
	RSVPNo  RSVPValue = "no"
)

func ParseRSVPValue(v string) (RSVPValue, error) {
	switch RSVPValue(v) {
	case RSVPYes, RSVPNo:
		return RSVPValue(v), nil
	default:
		return "", fmt.Errorf("unknown rsvp value %q", v)
	}
}

// RSVP is a player's answer for one game. At most one row exists per
// (game, player) pair; writes are upserts.
type RSVP struct {
	GameID    string
	PlayerID  string
	Value     RSVPValue
	UpdatedAt time.Time
}

func (r RSVP) Validate() error {
	if r.GameID == "" {
		return fmt.Errorf("rsvp game id is required")
	}
	if r.PlayerID == "" {
		return fmt.Errorf("rsvp player id is required")
	}
	if _, err := ParseRSVPValue(string(r.Value)); err != nil {
		return err
	}

	return nil
}

// RSVPTally counts yes answers against the roster size for one game.
type RSVPTally struct {
	Yes    int
	No     int
	Roster int
}

func TallyRSVPs(rsvps []RSVP, rosterSize int) RSVPTally {
	tally := RSVPTally{Roster: rosterSize}
	for _, r := range rsvps {
		switch r.Value {
		case RSVPYes:
			tally.Yes++
		case RSVPNo:
			tally.No++
		}
	}
	return tally
}
