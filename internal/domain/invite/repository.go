package invite

import (
	"context"
	"time"
)

// Repository describes invite and invite-request persistence. Accept and
// Approve are transactional: marking the invite accepted and linking the
// player to the user must commit together or not at all.
type Repository interface {
	CreateInvite(ctx context.Context, item Invite) error
	GetInviteByToken(ctx context.Context, token string) (Invite, bool, error)
	AcceptedInviteForPlayer(ctx context.Context, playerID string) (Invite, bool, error)
	AcceptInvite(ctx context.Context, token, userID string, at time.Time) error
	ListInvitesByPlayer(ctx context.Context, playerID string) ([]Invite, error)

	CreateRequest(ctx context.Context, item Request) error
	GetRequestByToken(ctx context.Context, token string) (Request, bool, error)
	ListOpenRequestsByTeam(ctx context.Context, teamID string) ([]Request, error)
	ApproveRequest(ctx context.Context, token, playerID, inviterID string, at time.Time) error
}
