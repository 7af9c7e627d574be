package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrPaymentRequired       = errors.New("active subscription required")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInvariant marks states that should be impossible. Handlers log it
	// at error level and answer 500 so an operator investigates; it is
	// never softened into a user-facing validation message.
	ErrInvariant = errors.New("invariant violation")
)
