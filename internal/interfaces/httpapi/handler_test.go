package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type fakeIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *fakeIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[item.ID] = item
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.users[id]
	return item, ok, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.users {
		if item.Email == email {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[item.ID] = item
	return nil
}

type fakeMembershipRepo struct {
	mu    sync.Mutex
	items []team.Membership
}

func (r *fakeMembershipRepo) Exists(_ context.Context, teamID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.TeamID == teamID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembershipRepo) Create(_ context.Context, item team.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

func (r *fakeMembershipRepo) ListByTeam(_ context.Context, teamID string) ([]team.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []team.Membership
	for _, m := range r.items {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) FirstByTeam(_ context.Context, teamID string) (team.Membership, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.TeamID == teamID {
			return m, true, nil
		}
	}
	return team.Membership{}, false, nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	subs  map[string]billing.Subscription
}

func newFakeSubscriptionRepo(users *fakeUserRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{users: users, subs: make(map[string]billing.Subscription)}
}

func (r *fakeSubscriptionRepo) GetByTeam(_ context.Context, teamID string) (*billing.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.TeamID == teamID {
			copied := sub
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) Reconcile(ctx context.Context, sub billing.Subscription, ownerUserID, customerID string) error {
	r.mu.Lock()
	r.subs[sub.ExternalID] = sub
	r.mu.Unlock()

	if customerID != "" {
		owner, ok, err := r.users.GetByID(ctx, ownerUserID)
		if err != nil || !ok {
			return fmt.Errorf("owner %s not found", ownerUserID)
		}
		owner.BillingCustomerID = customerID
		return r.users.Update(ctx, owner)
	}
	return nil
}

type fakeWebhookDecoder struct {
	event billing.Event
	err   error
}

func (d *fakeWebhookDecoder) VerifyAndDecode([]byte, string) (billing.Event, error) {
	return d.event, d.err
}

type handlerFixture struct {
	router      http.Handler
	users       *fakeUserRepo
	memberships *fakeMembershipRepo
	subs        *fakeSubscriptionRepo
	webhooks    *fakeWebhookDecoder
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	users := newFakeUserRepo()
	memberships := &fakeMembershipRepo{}
	subs := newFakeSubscriptionRepo(users)
	webhooks := &fakeWebhookDecoder{}
	ids := &fakeIDGenerator{}

	sessions := newTestSessions(t)
	authService := usecase.NewAuthService(users, ids, nil)
	billingService := usecase.NewBillingService(memberships, users, subs, nil, "prod_team", nil)

	handler := NewHandler(
		authService,
		nil, nil, nil, nil, nil, nil,
		billingService,
		webhooks,
		sessions,
		nil,
	)

	return &handlerFixture{
		router:      NewRouter(handler, sessions, nil, nil),
		users:       users,
		memberships: memberships,
		subs:        subs,
		webhooks:    webhooks,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSignupLoginMe(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/auth/signup", `{"email":"Coach@Example.com","name":"Coach","password":"correct horse"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("signup should set a session cookie")
	}

	rec = f.do(t, http.MethodGet, "/v1/me", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "coach@example.com") {
		t.Fatalf("me should return the normalized email: %s", rec.Body.String())
	}
}

func TestMe_WithoutSession(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSignup_RejectsInvalidBody(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/auth/signup", `{"email":"not-an-email","name":"","password":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBillingWebhook_Reconciles(t *testing.T) {
	f := newHandlerFixture(t)

	ctx := t.Context()
	if err := f.users.Create(ctx, user.User{ID: "user-1", Email: "owner@example.com", Name: "Owner", PasswordHash: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := f.memberships.Create(ctx, team.Membership{TeamID: "team-1", UserID: "user-1", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	f.webhooks.event = billing.Event{
		ExternalID: "sub_1",
		TeamID:     "team-1",
		ProductID:  "prod_team",
		CustomerID: "cus_9",
		Status:     billing.StatusActive,
	}

	rec := f.do(t, http.MethodPost, "/v1/webhooks/billing", `{}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	sub, err := f.subs.GetByTeam(ctx, "team-1")
	if err != nil || sub == nil {
		t.Fatalf("expected reconciled subscription, got %v err=%v", sub, err)
	}
	owner, _, _ := f.users.GetByID(ctx, "user-1")
	if owner.BillingCustomerID != "cus_9" {
		t.Fatalf("expected owner customer ref cus_9, got %q", owner.BillingCustomerID)
	}
}

func TestBillingWebhook_MemberlessTeamIs500(t *testing.T) {
	f := newHandlerFixture(t)

	f.webhooks.event = billing.Event{
		ExternalID: "sub_1",
		TeamID:     "ghost-team",
		ProductID:  "prod_team",
		Status:     billing.StatusActive,
	}

	rec := f.do(t, http.MethodPost, "/v1/webhooks/billing", `{}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBillingWebhook_OtherProductIsAcknowledged(t *testing.T) {
	f := newHandlerFixture(t)

	f.webhooks.event = billing.Event{
		ExternalID: "sub_1",
		TeamID:     "team-1",
		ProductID:  "prod_other",
		Status:     billing.StatusActive,
	}

	rec := f.do(t, http.MethodPost, "/v1/webhooks/billing", `{}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if sub, _ := f.subs.GetByTeam(t.Context(), "team-1"); sub != nil {
		t.Fatal("foreign product events must not touch state")
	}
}

func TestBillingWebhook_BadSignatureIs400(t *testing.T) {
	f := newHandlerFixture(t)
	f.webhooks.err = fmt.Errorf("signature verification failed")

	rec := f.do(t, http.MethodPost, "/v1/webhooks/billing", `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
