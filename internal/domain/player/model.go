package player

import (
	"fmt"
	"time"
)

// Player is a roster slot on a team. LinkedUserID is empty until a user
// accepts an invite for this slot.
type Player struct {
	ID           string
	TeamID       string
	Name         string
	AvatarKey    string
	LinkedUserID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
