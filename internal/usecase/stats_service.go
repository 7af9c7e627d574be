package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/season"
	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/platform/resilience"
)

// ParsedStat is one line a stat sheet parser extracted from free text.
// Kind is the raw string from the parser and is re-validated before use.
type ParsedStat struct {
	PlayerID string
	Kind     string
}

// StatSheetParser turns free-form text (pasted match notes, score sheets)
// into structured stat lines scoped to the supplied roster.
type StatSheetParser interface {
	Parse(ctx context.Context, text string, roster []player.Player) ([]ParsedStat, error)
}

type StatsService struct {
	memberships   team.MembershipRepository
	players       player.Repository
	entries       stats.Repository
	seasons       season.Repository
	subscriptions billing.Repository
	parser        StatSheetParser
	ids           idgen.Generator
	logger        *logging.Logger
	flight        resilience.SingleFlight
}

func NewStatsService(
	memberships team.MembershipRepository,
	players player.Repository,
	entries stats.Repository,
	seasons season.Repository,
	subscriptions billing.Repository,
	parser StatSheetParser,
	ids idgen.Generator,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsService{
		memberships:   memberships,
		players:       players,
		entries:       entries,
		seasons:       seasons,
		subscriptions: subscriptions,
		parser:        parser,
		ids:           ids,
		logger:        logger,
	}
}

func (s *StatsService) RecordEntry(ctx context.Context, principal user.Principal, playerID, kind string, recordedAt time.Time) (stats.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecordEntry")
	defer span.End()

	p, err := s.playerWithAccess(ctx, principal, playerID)
	if err != nil {
		return stats.Entry{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, p.TeamID); err != nil {
		return stats.Entry{}, err
	}

	parsedKind, err := stats.ParseKind(kind)
	if err != nil {
		return stats.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	id, err := s.ids.NewID()
	if err != nil {
		return stats.Entry{}, fmt.Errorf("generate stat entry id: %w", err)
	}

	entry := stats.Entry{
		ID:         id,
		PlayerID:   p.ID,
		Kind:       parsedKind,
		RecordedAt: recordedAt.UTC(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return stats.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return stats.Entry{}, fmt.Errorf("create stat entry: %w", err)
	}

	return entry, nil
}

func (s *StatsService) UpdateEntry(ctx context.Context, principal user.Principal, entryID, kind string, recordedAt time.Time) (stats.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.UpdateEntry")
	defer span.End()

	entry, teamID, err := s.entryWithAccess(ctx, principal, entryID)
	if err != nil {
		return stats.Entry{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, teamID); err != nil {
		return stats.Entry{}, err
	}

	if kind != "" {
		parsedKind, err := stats.ParseKind(kind)
		if err != nil {
			return stats.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		entry.Kind = parsedKind
	}
	if !recordedAt.IsZero() {
		entry.RecordedAt = recordedAt.UTC()
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return stats.Entry{}, fmt.Errorf("update stat entry: %w", err)
	}

	return entry, nil
}

func (s *StatsService) DeleteEntry(ctx context.Context, principal user.Principal, entryID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.DeleteEntry")
	defer span.End()

	entry, teamID, err := s.entryWithAccess(ctx, principal, entryID)
	if err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, teamID); err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete stat entry: %w", err)
	}

	return nil
}

// Standings computes the golden-boot table for a team, optionally scoped to
// one season. Reads are allowed regardless of subscription state.
func (s *StatsService) Standings(ctx context.Context, principal user.Principal, teamID, seasonID string) ([]stats.StandingsRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Standings")
	defer span.End()

	roster, err := s.teamRoster(ctx, principal, teamID, seasonID)
	if err != nil {
		return nil, err
	}

	return stats.Standings(roster), nil
}

// MatrixView is the per-day stat grid: one column per day key, one row per
// roster slot, cells aligned across rows.
type MatrixView struct {
	Days []string
	Rows []stats.MatrixRow
}

func (s *StatsService) Matrix(ctx context.Context, principal user.Principal, teamID, seasonID string) (MatrixView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Matrix")
	defer span.End()

	roster, err := s.teamRoster(ctx, principal, teamID, seasonID)
	if err != nil {
		return MatrixView{}, err
	}

	days, rows := stats.DayMatrix(roster)
	return MatrixView{Days: days, Rows: rows}, nil
}

// ImportFromText records every valid line the parser extracted. Lines naming
// a player outside the roster or a kind outside the enum are discarded, not
// errors: parser output is untrusted.
func (s *StatsService) ImportFromText(ctx context.Context, principal user.Principal, teamID, text string, recordedAt time.Time) ([]stats.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ImportFromText")
	defer span.End()

	if s.parser == nil {
		return nil, fmt.Errorf("%w: stat sheet parser is not configured", ErrDependencyUnavailable)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, teamID); err != nil {
		return nil, err
	}

	roster, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	parsed, err := s.parser.Parse(ctx, text, roster)
	if err != nil {
		return nil, fmt.Errorf("%w: parse stat sheet: %v", ErrDependencyUnavailable, err)
	}

	rosterIDs := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		rosterIDs[p.ID] = struct{}{}
	}

	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	entries := make([]stats.Entry, 0, len(parsed))
	for _, line := range parsed {
		kind, err := stats.ParseKind(line.Kind)
		if err != nil {
			s.logger.WarnContext(ctx, "import: dropping line with unknown kind", "kind", line.Kind)
			continue
		}
		if _, ok := rosterIDs[line.PlayerID]; !ok {
			s.logger.WarnContext(ctx, "import: dropping line for unknown player", "playerID", line.PlayerID)
			continue
		}

		id, err := s.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate stat entry id: %w", err)
		}
		entries = append(entries, stats.Entry{
			ID:         id,
			PlayerID:   line.PlayerID,
			Kind:       kind,
			RecordedAt: recordedAt.UTC(),
			CreatedAt:  time.Now().UTC(),
		})
	}

	if len(entries) == 0 {
		return nil, nil
	}
	if err := s.entries.CreateBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("create stat entries: %w", err)
	}

	return entries, nil
}

// teamRoster loads the roster with per-player entries, season-filtered when
// a season id is supplied. Players are ordered name ascending so stable tie
// handling downstream keeps a deterministic base order.
// teamRoster collapses concurrent loads for the same viewer, team and
// season into one set of queries. Standings and the matrix both need the
// roster and often land in the same page load.
func (s *StatsService) teamRoster(ctx context.Context, principal user.Principal, teamID, seasonID string) ([]stats.RosterLine, error) {
	key := strings.Join([]string{"roster", principal.UserID, teamID, seasonID}, ":")
	v, err, _ := s.flight.Do(key, func() (any, error) {
		return s.loadRoster(ctx, principal, teamID, seasonID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]stats.RosterLine), nil
}

func (s *StatsService) loadRoster(ctx context.Context, principal user.Principal, teamID, seasonID string) ([]stats.RosterLine, error) {
	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}

	var from, to time.Time
	if seasonID != "" {
		item, exists, err := s.seasons.GetByID(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("get season: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
		}
		if item.TeamID != teamID {
			return nil, fmt.Errorf("%w: season belongs to another team", ErrInvalidInput)
		}
		from = dayStart(item.StartDate)
		to = dayStart(item.EndDate).Add(24 * time.Hour)
	}

	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	entries, err := s.entries.ListByTeam(ctx, teamID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list stat entries: %w", err)
	}

	return rosterLines(players, entries), nil
}

func (s *StatsService) playerWithAccess(ctx context.Context, principal user.Principal, playerID string) (player.Player, error) {
	if strings.TrimSpace(playerID) == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, p.TeamID); err != nil {
		return player.Player{}, err
	}

	return p, nil
}

func (s *StatsService) entryWithAccess(ctx context.Context, principal user.Principal, entryID string) (stats.Entry, string, error) {
	if strings.TrimSpace(entryID) == "" {
		return stats.Entry{}, "", fmt.Errorf("%w: stat entry id is required", ErrInvalidInput)
	}

	entry, exists, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return stats.Entry{}, "", fmt.Errorf("get stat entry: %w", err)
	}
	if !exists {
		return stats.Entry{}, "", fmt.Errorf("%w: stat entry=%s", ErrNotFound, entryID)
	}

	p, err := s.playerWithAccess(ctx, principal, entry.PlayerID)
	if err != nil {
		return stats.Entry{}, "", err
	}

	return entry, p.TeamID, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
