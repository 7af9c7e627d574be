package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/game"
	"github.com/matchdaylabs/teamstats/internal/domain/invite"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/season"
	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

// sequentialIDGenerator issues id-1, id-2, ... so tests can predict keys.
type sequentialIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type inMemoryUserRepo struct {
	users map[string]user.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[string]user.User)}
}

func (r *inMemoryUserRepo) Create(_ context.Context, item user.User) error {
	r.users[item.ID] = item
	return nil
}

func (r *inMemoryUserRepo) GetByID(_ context.Context, id string) (user.User, bool, error) {
	item, ok := r.users[id]
	return item, ok, nil
}

func (r *inMemoryUserRepo) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	for _, item := range r.users {
		if item.Email == email {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *inMemoryUserRepo) Update(_ context.Context, item user.User) error {
	r.users[item.ID] = item
	return nil
}

type inMemoryTeamRepo struct {
	teams       map[string]team.Team
	memberships *inMemoryMembershipRepo
}

func newInMemoryTeamRepo(memberships *inMemoryMembershipRepo) *inMemoryTeamRepo {
	return &inMemoryTeamRepo{
		teams:       make(map[string]team.Team),
		memberships: memberships,
	}
}

func (r *inMemoryTeamRepo) CreateWithOwner(ctx context.Context, item team.Team, ownerUserID string) error {
	r.teams[item.ID] = item
	return r.memberships.Create(ctx, team.Membership{
		TeamID:    item.ID,
		UserID:    ownerUserID,
		CreatedAt: time.Now().UTC(),
	})
}

func (r *inMemoryTeamRepo) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *inMemoryTeamRepo) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	for _, item := range r.teams {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *inMemoryTeamRepo) Update(_ context.Context, item team.Team) error {
	r.teams[item.ID] = item
	return nil
}

func (r *inMemoryTeamRepo) ListByUser(_ context.Context, userID string) ([]team.Team, error) {
	var out []team.Team
	for _, m := range r.memberships.items {
		if m.UserID != userID {
			continue
		}
		if t, ok := r.teams[m.TeamID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type inMemoryMembershipRepo struct {
	items []team.Membership
}

func newInMemoryMembershipRepo() *inMemoryMembershipRepo {
	return &inMemoryMembershipRepo{}
}

func (r *inMemoryMembershipRepo) Exists(_ context.Context, teamID, userID string) (bool, error) {
	for _, m := range r.items {
		if m.TeamID == teamID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryMembershipRepo) Create(_ context.Context, item team.Membership) error {
	r.items = append(r.items, item)
	return nil
}

func (r *inMemoryMembershipRepo) ListByTeam(_ context.Context, teamID string) ([]team.Membership, error) {
	var out []team.Membership
	for _, m := range r.items {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *inMemoryMembershipRepo) FirstByTeam(_ context.Context, teamID string) (team.Membership, bool, error) {
	var found []team.Membership
	for _, m := range r.items {
		if m.TeamID == teamID {
			found = append(found, m)
		}
	}
	if len(found) == 0 {
		return team.Membership{}, false, nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.Before(found[j].CreatedAt) })
	return found[0], true, nil
}

type inMemoryPlayerRepo struct {
	players map[string]player.Player
}

func newInMemoryPlayerRepo() *inMemoryPlayerRepo {
	return &inMemoryPlayerRepo{players: make(map[string]player.Player)}
}

func (r *inMemoryPlayerRepo) Create(_ context.Context, item player.Player) error {
	r.players[item.ID] = item
	return nil
}

func (r *inMemoryPlayerRepo) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	item, ok := r.players[id]
	return item, ok, nil
}

func (r *inMemoryPlayerRepo) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	var out []player.Player
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *inMemoryPlayerRepo) Update(_ context.Context, item player.Player) error {
	r.players[item.ID] = item
	return nil
}

func (r *inMemoryPlayerRepo) Delete(_ context.Context, id string) error {
	delete(r.players, id)
	return nil
}

type inMemoryGameRepo struct {
	games map[string]game.Game
	rsvps map[string]game.RSVP // keyed gameID/playerID
}

func newInMemoryGameRepo() *inMemoryGameRepo {
	return &inMemoryGameRepo{
		games: make(map[string]game.Game),
		rsvps: make(map[string]game.RSVP),
	}
}

func (r *inMemoryGameRepo) Create(_ context.Context, item game.Game) error {
	r.games[item.ID] = item
	return nil
}

func (r *inMemoryGameRepo) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	item, ok := r.games[id]
	return item, ok, nil
}

func (r *inMemoryGameRepo) ListByTeam(_ context.Context, teamID string) ([]game.Game, error) {
	var out []game.Game
	for _, g := range r.games {
		if g.TeamID == teamID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		gi, gj := out[i], out[j]
		switch {
		case gi.KickoffAt == nil && gj.KickoffAt == nil:
			return gi.ID < gj.ID
		case gi.KickoffAt == nil:
			return false
		case gj.KickoffAt == nil:
			return true
		default:
			return gi.KickoffAt.Before(*gj.KickoffAt)
		}
	})
	return out, nil
}

func (r *inMemoryGameRepo) Update(_ context.Context, item game.Game) error {
	r.games[item.ID] = item
	return nil
}

func (r *inMemoryGameRepo) Delete(_ context.Context, id string) error {
	delete(r.games, id)
	return nil
}

func (r *inMemoryGameRepo) UpsertRSVP(_ context.Context, item game.RSVP) error {
	r.rsvps[item.GameID+"/"+item.PlayerID] = item
	return nil
}

func (r *inMemoryGameRepo) ListRSVPsByGame(_ context.Context, gameID string) ([]game.RSVP, error) {
	var out []game.RSVP
	for _, rv := range r.rsvps {
		if rv.GameID == gameID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *inMemoryGameRepo) ListRSVPsByGames(_ context.Context, gameIDs []string) ([]game.RSVP, error) {
	wanted := make(map[string]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		wanted[id] = struct{}{}
	}
	var out []game.RSVP
	for _, rv := range r.rsvps {
		if _, ok := wanted[rv.GameID]; ok {
			out = append(out, rv)
		}
	}
	return out, nil
}

type inMemorySeasonRepo struct {
	seasons map[string]season.Season
}

func newInMemorySeasonRepo() *inMemorySeasonRepo {
	return &inMemorySeasonRepo{seasons: make(map[string]season.Season)}
}

func (r *inMemorySeasonRepo) Create(_ context.Context, item season.Season) error {
	r.seasons[item.ID] = item
	return nil
}

func (r *inMemorySeasonRepo) GetByID(_ context.Context, id string) (season.Season, bool, error) {
	item, ok := r.seasons[id]
	return item, ok, nil
}

func (r *inMemorySeasonRepo) ListByTeam(_ context.Context, teamID string) ([]season.Season, error) {
	var out []season.Season
	for _, s := range r.seasons {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *inMemorySeasonRepo) Update(_ context.Context, item season.Season) error {
	r.seasons[item.ID] = item
	return nil
}

func (r *inMemorySeasonRepo) Delete(_ context.Context, id string) error {
	delete(r.seasons, id)
	return nil
}

type inMemoryStatsRepo struct {
	entries map[string]stats.Entry
	players *inMemoryPlayerRepo
}

func newInMemoryStatsRepo(players *inMemoryPlayerRepo) *inMemoryStatsRepo {
	return &inMemoryStatsRepo{
		entries: make(map[string]stats.Entry),
		players: players,
	}
}

func (r *inMemoryStatsRepo) Create(_ context.Context, item stats.Entry) error {
	r.entries[item.ID] = item
	return nil
}

func (r *inMemoryStatsRepo) CreateBatch(ctx context.Context, items []stats.Entry) error {
	for _, item := range items {
		if err := r.Create(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *inMemoryStatsRepo) GetByID(_ context.Context, id string) (stats.Entry, bool, error) {
	item, ok := r.entries[id]
	return item, ok, nil
}

func (r *inMemoryStatsRepo) Update(_ context.Context, item stats.Entry) error {
	r.entries[item.ID] = item
	return nil
}

func (r *inMemoryStatsRepo) Delete(_ context.Context, id string) error {
	delete(r.entries, id)
	return nil
}

func (r *inMemoryStatsRepo) ListByPlayer(_ context.Context, playerID string) ([]stats.Entry, error) {
	var out []stats.Entry
	for _, e := range r.entries {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *inMemoryStatsRepo) ListByTeam(_ context.Context, teamID string, from, to time.Time) ([]stats.Entry, error) {
	var out []stats.Entry
	for _, e := range r.entries {
		p, ok := r.players.players[e.PlayerID]
		if !ok || p.TeamID != teamID {
			continue
		}
		if !from.IsZero() && e.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.RecordedAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

type inMemoryInviteRepo struct {
	invites  map[string]invite.Invite
	requests map[string]invite.Request
	players  *inMemoryPlayerRepo
}

func newInMemoryInviteRepo(players *inMemoryPlayerRepo) *inMemoryInviteRepo {
	return &inMemoryInviteRepo{
		invites:  make(map[string]invite.Invite),
		requests: make(map[string]invite.Request),
		players:  players,
	}
}

func (r *inMemoryInviteRepo) CreateInvite(_ context.Context, item invite.Invite) error {
	r.invites[item.Token] = item
	return nil
}

func (r *inMemoryInviteRepo) GetInviteByToken(_ context.Context, token string) (invite.Invite, bool, error) {
	item, ok := r.invites[token]
	return item, ok, nil
}

func (r *inMemoryInviteRepo) AcceptedInviteForPlayer(_ context.Context, playerID string) (invite.Invite, bool, error) {
	for _, item := range r.invites {
		if item.PlayerID == playerID && item.Accepted() {
			return item, true, nil
		}
	}
	return invite.Invite{}, false, nil
}

func (r *inMemoryInviteRepo) AcceptInvite(_ context.Context, token, userID string, at time.Time) error {
	item, ok := r.invites[token]
	if !ok {
		return fmt.Errorf("invite %s not found", token)
	}
	item.AcceptedAt = &at
	item.UserID = userID
	r.invites[token] = item

	p, ok := r.players.players[item.PlayerID]
	if !ok {
		return fmt.Errorf("player %s not found", item.PlayerID)
	}
	p.LinkedUserID = userID
	r.players.players[p.ID] = p
	return nil
}

func (r *inMemoryInviteRepo) ListInvitesByPlayer(_ context.Context, playerID string) ([]invite.Invite, error) {
	var out []invite.Invite
	for _, item := range r.invites {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *inMemoryInviteRepo) CreateRequest(_ context.Context, item invite.Request) error {
	r.requests[item.Token] = item
	return nil
}

func (r *inMemoryInviteRepo) GetRequestByToken(_ context.Context, token string) (invite.Request, bool, error) {
	item, ok := r.requests[token]
	return item, ok, nil
}

func (r *inMemoryInviteRepo) ListOpenRequestsByTeam(_ context.Context, teamID string) ([]invite.Request, error) {
	var out []invite.Request
	for _, item := range r.requests {
		if item.TeamID == teamID && !item.Accepted() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *inMemoryInviteRepo) ApproveRequest(_ context.Context, token, playerID, _ string, at time.Time) error {
	item, ok := r.requests[token]
	if !ok {
		return fmt.Errorf("invite request %s not found", token)
	}
	item.AcceptedAt = &at
	r.requests[token] = item

	p, ok := r.players.players[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	p.LinkedUserID = item.UserID
	r.players.players[p.ID] = p
	return nil
}

type inMemorySubscriptionRepo struct {
	byTeam     map[string]billing.Subscription
	byExternal map[string]string // external id -> team id
	users      *inMemoryUserRepo
}

func newInMemorySubscriptionRepo(users *inMemoryUserRepo) *inMemorySubscriptionRepo {
	return &inMemorySubscriptionRepo{
		byTeam:     make(map[string]billing.Subscription),
		byExternal: make(map[string]string),
		users:      users,
	}
}

func (r *inMemorySubscriptionRepo) GetByTeam(_ context.Context, teamID string) (*billing.Subscription, error) {
	if sub, ok := r.byTeam[teamID]; ok {
		return &sub, nil
	}
	return nil, nil
}

func (r *inMemorySubscriptionRepo) Reconcile(ctx context.Context, sub billing.Subscription, ownerUserID, customerID string) error {
	if teamID, ok := r.byExternal[sub.ExternalID]; ok && teamID != sub.TeamID {
		delete(r.byTeam, teamID)
	}
	r.byExternal[sub.ExternalID] = sub.TeamID
	r.byTeam[sub.TeamID] = sub

	if r.users != nil && customerID != "" {
		if u, ok, _ := r.users.GetByID(ctx, ownerUserID); ok {
			u.BillingCustomerID = customerID
			r.users.users[u.ID] = u
		}
	}
	return nil
}

// setActiveSubscription opens the billing gate for a team in tests.
func (r *inMemorySubscriptionRepo) setActiveSubscription(teamID string) {
	r.byTeam[teamID] = billing.Subscription{
		TeamID:     teamID,
		ExternalID: "sub-" + teamID,
		Status:     billing.StatusActive,
		UpdatedAt:  time.Now().UTC(),
	}
}

// testEnv bundles the in-memory repositories every service test needs.
type testEnv struct {
	users       *inMemoryUserRepo
	memberships *inMemoryMembershipRepo
	teams       *inMemoryTeamRepo
	players     *inMemoryPlayerRepo
	games       *inMemoryGameRepo
	seasons     *inMemorySeasonRepo
	stats       *inMemoryStatsRepo
	invites     *inMemoryInviteRepo
	subs        *inMemorySubscriptionRepo
	ids         *sequentialIDGenerator
}

func newTestEnv() *testEnv {
	users := newInMemoryUserRepo()
	memberships := newInMemoryMembershipRepo()
	players := newInMemoryPlayerRepo()
	return &testEnv{
		users:       users,
		memberships: memberships,
		teams:       newInMemoryTeamRepo(memberships),
		players:     players,
		games:       newInMemoryGameRepo(),
		seasons:     newInMemorySeasonRepo(),
		stats:       newInMemoryStatsRepo(players),
		invites:     newInMemoryInviteRepo(players),
		subs:        newInMemorySubscriptionRepo(users),
		ids:         &sequentialIDGenerator{},
	}
}

// seedTeam creates a user, a team owned by them and an active subscription,
// returning the owner's principal.
func (e *testEnv) seedTeam(teamID, slug, userID string) user.Principal {
	e.users.users[userID] = user.User{
		ID:        userID,
		Email:     userID + "@example.com",
		Name:      "Owner " + userID,
		CreatedAt: time.Now().UTC(),
	}
	e.teams.teams[teamID] = team.Team{
		ID:        teamID,
		Slug:      slug,
		Name:      "Team " + teamID,
		Color:     team.ColorBlue,
		CreatedAt: time.Now().UTC(),
	}
	e.memberships.items = append(e.memberships.items, team.Membership{
		TeamID:    teamID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})
	e.subs.setActiveSubscription(teamID)
	return user.Principal{UserID: userID, Email: userID + "@example.com"}
}

func (e *testEnv) seedPlayer(id, teamID, name string) player.Player {
	p := player.Player{
		ID:        id,
		TeamID:    teamID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	e.players.players[id] = p
	return p
}

type recordingEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (s *recordingEmailSender) Send(_ context.Context, to, subject, textBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: textBody})
	return nil
}

func (s *recordingEmailSender) all() []sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentEmail(nil), s.sent...)
}

type staticParser struct {
	lines []ParsedStat
	err   error
}

func (p *staticParser) Parse(_ context.Context, _ string, _ []player.Player) ([]ParsedStat, error) {
	return p.lines, p.err
}

type staticPortalClient struct {
	url string
	err error
}

func (c *staticPortalClient) CreatePortalSession(_ context.Context, _, _ string) (string, error) {
	return c.url, c.err
}

type memoryFileStore struct {
	objects map[string][]byte
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{objects: make(map[string][]byte)}
}

func (s *memoryFileStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return s.PublicURL(key), nil
}

func (s *memoryFileStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memoryFileStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}
