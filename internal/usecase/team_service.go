package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/game"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

// FileStore is the object storage surface teams need: put, delete and a
// stable public URL per key.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type CreateTeamInput struct {
	Slug  string
	Name  string
	Color string
}

type UpdateTeamInput struct {
	Name  string
	Color string
}

// Overview is the team landing view: schedule, standings and the gate
// flag, composed from independent reads.
type Overview struct {
	Team               team.Team
	Style              team.Style
	Players            []player.Player
	Schedule           game.Schedule
	Standings          []stats.StandingsRow
	SubscriptionActive bool
}

// Member is one row of the team member list, a membership joined with the
// user it links.
type Member struct {
	UserID   string
	Name     string
	Email    string
	JoinedAt time.Time
}

type TeamService struct {
	teams         team.Repository
	memberships   team.MembershipRepository
	users         user.Repository
	players       player.Repository
	games         game.Repository
	stats         stats.Repository
	subscriptions billing.Repository
	files         FileStore
	ids           idgen.Generator
	logger        *logging.Logger
}

func NewTeamService(
	teams team.Repository,
	memberships team.MembershipRepository,
	users user.Repository,
	players player.Repository,
	games game.Repository,
	statsRepo stats.Repository,
	subscriptions billing.Repository,
	files FileStore,
	ids idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teams:         teams,
		memberships:   memberships,
		users:         users,
		players:       players,
		games:         games,
		stats:         statsRepo,
		subscriptions: subscriptions,
		files:         files,
		ids:           ids,
		logger:        logger,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, principal user.Principal, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	if principal.Zero() {
		return team.Team{}, fmt.Errorf("%w: no session", ErrUnauthenticated)
	}

	color, err := team.ParseColor(strings.TrimSpace(input.Color))
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{
		ID:        id,
		Slug:      strings.ToLower(strings.TrimSpace(input.Slug)),
		Name:      strings.TrimSpace(input.Name),
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists, err := s.teams.GetBySlug(ctx, item.Slug); err != nil {
		return team.Team{}, fmt.Errorf("check slug: %w", err)
	} else if exists {
		return team.Team{}, fmt.Errorf("%w: slug %q is taken", ErrInvalidInput, item.Slug)
	}

	// Team and owner membership commit together; see team.Repository.
	if err := s.teams.CreateWithOwner(ctx, item, principal.UserID); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", item.ID, "slug", item.Slug)
	return item, nil
}

func (s *TeamService) ListMyTeams(ctx context.Context, principal user.Principal) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListMyTeams")
	defer span.End()

	if principal.Zero() {
		return nil, fmt.Errorf("%w: no session", ErrUnauthenticated)
	}

	items, err := s.teams.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}

	return items, nil
}

// ListMembers returns the team's memberships joined with user names and
// emails, oldest membership first. A membership whose user row is gone is
// skipped rather than failing the whole list.
func (s *TeamService) ListMembers(ctx context.Context, principal user.Principal, teamID string) ([]Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListMembers")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}

	links, err := s.memberships.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	members := make([]Member, 0, len(links))
	for _, link := range links {
		u, exists, err := s.users.GetByID(ctx, link.UserID)
		if err != nil {
			return nil, fmt.Errorf("get member user: %w", err)
		}
		if !exists {
			continue
		}
		members = append(members, Member{
			UserID:   u.ID,
			Name:     u.Name,
			Email:    u.Email,
			JoinedAt: link.CreatedAt,
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	return members, nil
}

func (s *TeamService) GetTeamBySlug(ctx context.Context, principal user.Principal, slug string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamBySlug")
	defer span.End()

	item, err := s.getBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, err
	}
	if err := requireTeamAccess(ctx, s.memberships, principal, item.ID); err != nil {
		return team.Team{}, err
	}

	return item, nil
}

func (s *TeamService) UpdateSettings(ctx context.Context, principal user.Principal, teamID string, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateSettings")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return team.Team{}, err
	}

	item, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if raw := strings.TrimSpace(input.Color); raw != "" {
		color, err := team.ParseColor(raw)
		if err != nil {
			return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		item.Color = color
	}
	item.UpdatedAt = time.Now().UTC()

	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teams.Update(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	return item, nil
}

// UploadLogo stores the blob synchronously: a storage failure surfaces to
// the caller, unlike the best-effort email path.
func (s *TeamService) UploadLogo(ctx context.Context, principal user.Principal, teamID, contentType string, body io.Reader) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UploadLogo")
	defer span.End()

	if s.files == nil {
		return "", fmt.Errorf("%w: file storage is not configured", ErrDependencyUnavailable)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return "", err
	}

	item, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	key := "teams/" + teamID + "/logo"
	url, err := s.files.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("%w: upload logo: %v", ErrDependencyUnavailable, err)
	}

	item.LogoKey = key
	item.UpdatedAt = time.Now().UTC()
	if err := s.teams.Update(ctx, item); err != nil {
		return "", fmt.Errorf("store logo key: %w", err)
	}

	return url, nil
}

func (s *TeamService) DeleteLogo(ctx context.Context, principal user.Principal, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteLogo")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return err
	}

	item, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if item.LogoKey == "" {
		return nil
	}
	if s.files == nil {
		return fmt.Errorf("%w: file storage is not configured", ErrDependencyUnavailable)
	}

	if err := s.files.Delete(ctx, item.LogoKey); err != nil {
		return fmt.Errorf("%w: delete logo: %v", ErrDependencyUnavailable, err)
	}

	item.LogoKey = ""
	item.UpdatedAt = time.Now().UTC()
	if err := s.teams.Update(ctx, item); err != nil {
		return fmt.Errorf("clear logo key: %w", err)
	}

	return nil
}

// GetOverview composes the team page. The four reads are independent and
// run concurrently; all must finish before the view is assembled.
func (s *TeamService) GetOverview(ctx context.Context, principal user.Principal, teamID string) (Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetOverview")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return Overview{}, err
	}

	item, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return Overview{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return Overview{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	var (
		players []player.Player
		games   []game.Game
		entries []stats.Entry
		sub     *billing.Subscription
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		players, err = s.players.ListByTeam(ctx, teamID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		games, err = s.games.ListByTeam(ctx, teamID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		entries, err = s.stats.ListByTeam(ctx, teamID, time.Time{}, time.Time{})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		sub, err = s.subscriptions.GetByTeam(ctx, teamID)
		return err
	})
	if err := p.Wait(); err != nil {
		return Overview{}, fmt.Errorf("load team overview: %w", err)
	}

	return Overview{
		Team:               item,
		Style:              team.StyleFor(item.Color),
		Players:            players,
		Schedule:           game.Partition(games, time.Now().UTC()),
		Standings:          stats.Standings(rosterLines(players, entries)),
		SubscriptionActive: billing.ActiveSubscription(sub),
	}, nil
}

func (s *TeamService) getBySlug(ctx context.Context, slug string) (team.Team, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return team.Team{}, fmt.Errorf("%w: team slug is required", ErrInvalidInput)
	}

	item, exists, err := s.teams.GetBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by slug: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, slug)
	}

	return item, nil
}

// rosterLines pairs players with their entries in name-ascending order so
// the standings sort has a deterministic base order for full ties.
func rosterLines(players []player.Player, entries []stats.Entry) []stats.RosterLine {
	byPlayer := make(map[string][]stats.Entry, len(players))
	for _, e := range entries {
		byPlayer[e.PlayerID] = append(byPlayer[e.PlayerID], e)
	}

	sorted := append([]player.Player(nil), players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	lines := make([]stats.RosterLine, 0, len(sorted))
	for _, p := range sorted {
		lines = append(lines, stats.RosterLine{
			PlayerID: p.ID,
			Name:     p.Name,
			Entries:  byPlayer[p.ID],
		})
	}
	return lines
}
