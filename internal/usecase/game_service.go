package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/game"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

type GameInput struct {
	Opponent  string
	Location  string
	KickoffAt *time.Time
}

// GameCard is a game with its per-game badges: attendance against roster
// size and same-day goal/assist counts.
type GameCard struct {
	Game    game.Game
	RSVPs   game.RSVPTally
	Goals   int
	Assists int
}

// ScheduleView is the games page: the partitioned schedule with one card
// per game.
type ScheduleView struct {
	Schedule game.Schedule
	Cards    map[string]GameCard
}

type GameService struct {
	memberships   team.MembershipRepository
	games         game.Repository
	players       player.Repository
	stats         stats.Repository
	subscriptions billing.Repository
	ids           idgen.Generator
	logger        *logging.Logger
}

func NewGameService(
	memberships team.MembershipRepository,
	games game.Repository,
	players player.Repository,
	statsRepo stats.Repository,
	subscriptions billing.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		memberships:   memberships,
		games:         games,
		players:       players,
		stats:         statsRepo,
		subscriptions: subscriptions,
		ids:           ids,
		logger:        logger,
	}
}

func (s *GameService) CreateGame(ctx context.Context, principal user.Principal, teamID string, input GameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return game.Game{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, teamID); err != nil {
		return game.Game{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	item := game.Game{
		ID:        id,
		TeamID:    teamID,
		Opponent:  strings.TrimSpace(input.Opponent),
		Location:  strings.TrimSpace(input.Location),
		KickoffAt: input.KickoffAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.games.Create(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return item, nil
}

func (s *GameService) UpdateGame(ctx context.Context, principal user.Principal, gameID string, input GameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.UpdateGame")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return game.Game{}, err
	}

	if opponent := strings.TrimSpace(input.Opponent); opponent != "" {
		item.Opponent = opponent
	}
	item.Location = strings.TrimSpace(input.Location)
	item.KickoffAt = input.KickoffAt
	item.UpdatedAt = time.Now().UTC()

	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.games.Update(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}

	return item, nil
}

// CancelGame flips the cancellation axis only; the game keeps its place in
// the past/upcoming partition.
func (s *GameService) CancelGame(ctx context.Context, principal user.Principal, gameID string, cancelled bool) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CancelGame")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, gameID)
	if err != nil {
		return game.Game{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return game.Game{}, err
	}

	if cancelled {
		now := time.Now().UTC()
		item.CancelledAt = &now
	} else {
		item.CancelledAt = nil
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.games.Update(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("update game: %w", err)
	}

	return item, nil
}

func (s *GameService) DeleteGame(ctx context.Context, principal user.Principal, gameID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.DeleteGame")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, gameID)
	if err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return err
	}

	if err := s.games.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	return nil
}

// SaveRSVP upserts the single row per (game, player): the second answer
// for the same pair replaces the first.
func (s *GameService) SaveRSVP(ctx context.Context, principal user.Principal, gameID, playerID, value string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.SaveRSVP")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, gameID)
	if err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return err
	}

	parsed, err := game.ParseRSVPValue(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if !exists || p.TeamID != item.TeamID {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	rsvp := game.RSVP{
		GameID:    item.ID,
		PlayerID:  p.ID,
		Value:     parsed,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.games.UpsertRSVP(ctx, rsvp); err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}

	return nil
}

func (s *GameService) GetSchedule(ctx context.Context, principal user.Principal, teamID string) (ScheduleView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetSchedule")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return ScheduleView{}, err
	}

	games, err := s.games.ListByTeam(ctx, teamID)
	if err != nil {
		return ScheduleView{}, fmt.Errorf("list games: %w", err)
	}
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return ScheduleView{}, fmt.Errorf("list players: %w", err)
	}
	entries, err := s.stats.ListByTeam(ctx, teamID, time.Time{}, time.Time{})
	if err != nil {
		return ScheduleView{}, fmt.Errorf("list stat entries: %w", err)
	}

	ids := make([]string, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	rsvps, err := s.games.ListRSVPsByGames(ctx, ids)
	if err != nil {
		return ScheduleView{}, fmt.Errorf("list rsvps: %w", err)
	}

	rsvpsByGame := make(map[string][]game.RSVP, len(games))
	for _, r := range rsvps {
		rsvpsByGame[r.GameID] = append(rsvpsByGame[r.GameID], r)
	}
	entriesByDay := make(map[string][]stats.Entry)
	for _, e := range entries {
		key := stats.DayKey(e.RecordedAt)
		entriesByDay[key] = append(entriesByDay[key], e)
	}

	cards := make(map[string]GameCard, len(games))
	for _, g := range games {
		card := GameCard{
			Game:  g,
			RSVPs: game.TallyRSVPs(rsvpsByGame[g.ID], len(players)),
		}
		// Badge counts match entries recorded on the game's calendar day.
		if g.KickoffAt != nil {
			card.Goals, card.Assists = stats.CountKinds(entriesByDay[stats.DayKey(*g.KickoffAt)])
		}
		cards[g.ID] = card
	}

	return ScheduleView{
		Schedule: game.Partition(games, time.Now().UTC()),
		Cards:    cards,
	}, nil
}

func (s *GameService) getWithAccess(ctx context.Context, principal user.Principal, gameID string) (game.Game, error) {
	if strings.TrimSpace(gameID) == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, item.TeamID); err != nil {
		return game.Game{}, err
	}

	return item, nil
}
