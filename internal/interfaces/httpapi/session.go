package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

const (
	sessionCookieName = "ts_session"
	bannerCookieName  = "ts_banner_dismissed"

	sessionTTL   = 30 * 24 * time.Hour
	bannerTTL = 5 * time.Minute
)

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies the signed session cookie. Sessions
// are stateless JWTs; logout just clears the cookie.
type SessionManager struct {
	secret       []byte
	secureCookie bool
	now          func() time.Time
}

func NewSessionManager(secret string, secureCookie bool) (*SessionManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &SessionManager{
		secret:       []byte(secret),
		secureCookie: secureCookie,
		now:          time.Now,
	}, nil
}

func (m *SessionManager) Issue(w http.ResponseWriter, p user.Principal) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Principal extracts and verifies the session cookie. A missing or invalid
// cookie yields the zero principal without an error: the request proceeds
// unauthenticated and use cases answer 401 where a session is required.
func (m *SessionManager) Principal(r *http.Request) user.Principal {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return user.Principal{}
	}

	principal, err := m.verify(cookie.Value)
	if err != nil {
		return user.Principal{}
	}
	return principal
}

func (m *SessionManager) verify(raw string) (user.Principal, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return user.Principal{}, fmt.Errorf("%w: invalid session token", usecase.ErrUnauthenticated)
	}

	return user.Principal{UserID: claims.Subject, Email: claims.Email}, nil
}

// DismissBanner sets the short-lived cookie the UI reads to keep the
// payment banner hidden after a click.
func (m *SessionManager) DismissBanner(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     bannerCookieName,
		Value:    "1",
		Path:     "/",
		MaxAge:   int(bannerTTL / time.Second),
		HttpOnly: false,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) BannerDismissed(r *http.Request) bool {
	cookie, err := r.Cookie(bannerCookieName)
	return err == nil && cookie.Value != ""
}
