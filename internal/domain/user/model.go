package user

import (
	"fmt"
	"strings"
	"time"
)

// Principal is the authenticated identity attached to a request context.
// A zero Principal means the request carries no session.
type Principal struct {
	UserID string
	Email  string
}

func (p Principal) Zero() bool {
	return strings.TrimSpace(p.UserID) == ""
}

// User is an account holder. A user may administer several teams through
// membership rows and may be linked to roster players via accepted invites.
type User struct {
	ID                string
	Email             string
	Name              string
	PasswordHash      string
	BillingCustomerID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("user email is invalid")
	}
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash is required")
	}

	return nil
}
