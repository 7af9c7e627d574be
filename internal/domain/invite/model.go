package invite

import (
	"fmt"
	"strings"
	"time"
)

// Invite links a user to a specific roster slot once accepted. Tokens are
// unguessable random strings; unaccepted invites may be re-sent, and a
// player holds at most one accepted invite.
type Invite struct {
	Token      string
	PlayerID   string
	InviterID  string
	Email      string
	CreatedAt  time.Time
	AcceptedAt *time.Time
	UserID     string
}

func (i Invite) Validate() error {
	if i.Token == "" {
		return fmt.Errorf("invite token is required")
	}
	if i.PlayerID == "" {
		return fmt.Errorf("invite player id is required")
	}
	if i.InviterID == "" {
		return fmt.Errorf("invite inviter id is required")
	}
	if !strings.Contains(i.Email, "@") {
		return fmt.Errorf("invite email is invalid")
	}

	return nil
}

func (i Invite) Accepted() bool {
	return i.AcceptedAt != nil
}

// Request is a user-initiated ask to join a team. An admin approves it by
// resolving it to a concrete player slot.
type Request struct {
	Token      string
	UserID     string
	TeamID     string
	CreatedAt  time.Time
	AcceptedAt *time.Time
}

func (r Request) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("invite request token is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("invite request user id is required")
	}
	if r.TeamID == "" {
		return fmt.Errorf("invite request team id is required")
	}

	return nil
}

func (r Request) Accepted() bool {
	return r.AcceptedAt != nil
}
