package httpapi

import (
	"context"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// principalFromContext returns the session principal, or the zero
// principal when the request carried no valid session. Use cases decide
// between 401 and 403 from that distinction.
func principalFromContext(ctx context.Context) user.Principal {
	p, _ := ctx.Value(principalContextKey).(user.Principal)
	return p
}
