package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

type userTableModel struct {
	ID                string         `db:"id"`
	Email             string         `db:"email"`
	Name              string         `db:"name"`
	PasswordHash      string         `db:"password_hash"`
	BillingCustomerID sql.NullString `db:"billing_customer_id"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:                row.ID,
		Email:             row.Email,
		Name:              row.Name,
		PasswordHash:      row.PasswordHash,
		BillingCustomerID: strings.TrimSpace(row.BillingCustomerID.String),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

type userInsertModel struct {
	ID                string  `db:"id"`
	Email             string  `db:"email"`
	Name              string  `db:"name"`
	PasswordHash      string  `db:"password_hash"`
	BillingCustomerID *string `db:"billing_customer_id"`
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	t := value
	return &t
}
