package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()

	sessions, err := NewSessionManager("test-secret-please-rotate", false)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sessions
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestSessionManager_IssueAndVerify(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	principal := user.Principal{UserID: "user-1", Email: "coach@example.com"}
	if err := sessions.Issue(rec, principal); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got := sessions.Principal(requestWithCookies(rec))
	if got != principal {
		t.Fatalf("principal mismatch: got %+v want %+v", got, principal)
	}
}

func TestSessionManager_MissingCookieIsZero(t *testing.T) {
	sessions := newTestSessions(t)

	got := sessions.Principal(httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	if !got.Zero() {
		t.Fatalf("expected zero principal, got %+v", got)
	}
}

func TestSessionManager_TamperedTokenIsZero(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	if err := sessions.Issue(rec, user.Principal{UserID: "user-1"}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	for _, cookie := range rec.Result().Cookies() {
		cookie.Value += "x"
		req.AddCookie(cookie)
	}

	if got := sessions.Principal(req); !got.Zero() {
		t.Fatalf("expected zero principal for tampered token, got %+v", got)
	}
}

func TestSessionManager_ExpiredTokenIsZero(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	if err := sessions.Issue(rec, user.Principal{UserID: "user-1"}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sessions.now = func() time.Time { return time.Now().Add(sessionTTL + time.Hour) }
	if got := sessions.Principal(requestWithCookies(rec)); !got.Zero() {
		t.Fatalf("expected zero principal for expired token, got %+v", got)
	}
}

func TestSessionManager_ClearExpiresCookie(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	sessions.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got MaxAge=%d", cookies[0].MaxAge)
	}
}

func TestSessionManager_BannerDismissal(t *testing.T) {
	sessions := newTestSessions(t)

	rec := httptest.NewRecorder()
	sessions.DismissBanner(rec)

	req := requestWithCookies(rec)
	if !sessions.BannerDismissed(req) {
		t.Fatal("expected banner to read as dismissed")
	}
	if sessions.BannerDismissed(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Fatal("expected banner to read as visible without the cookie")
	}
}
