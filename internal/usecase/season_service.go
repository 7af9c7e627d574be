package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/domain/season"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

type SeasonInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type SeasonService struct {
	memberships   team.MembershipRepository
	seasons       season.Repository
	subscriptions billing.Repository
	ids           idgen.Generator
	logger        *logging.Logger
}

func NewSeasonService(
	memberships team.MembershipRepository,
	seasons season.Repository,
	subscriptions billing.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonService{
		memberships:   memberships,
		seasons:       seasons,
		subscriptions: subscriptions,
		ids:           ids,
		logger:        logger,
	}
}

// CreateSeason does not reject overlapping ranges: seasons are read-time
// filters and split-season setups legitimately overlap.
func (s *SeasonService) CreateSeason(ctx context.Context, principal user.Principal, teamID string, input SeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CreateSeason")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return season.Season{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, teamID); err != nil {
		return season.Season{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}

	item := season.Season{
		ID:        id,
		TeamID:    teamID,
		Name:      strings.TrimSpace(input.Name),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.seasons.Create(ctx, item); err != nil {
		return season.Season{}, fmt.Errorf("create season: %w", err)
	}

	return item, nil
}

func (s *SeasonService) ListSeasons(ctx context.Context, principal user.Principal, teamID string) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ListSeasons")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}

	items, err := s.seasons.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return items, nil
}

func (s *SeasonService) UpdateSeason(ctx context.Context, principal user.Principal, seasonID string, input SeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.UpdateSeason")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, seasonID)
	if err != nil {
		return season.Season{}, err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return season.Season{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if !input.StartDate.IsZero() {
		item.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		item.EndDate = input.EndDate
	}
	item.UpdatedAt = time.Now().UTC()

	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.seasons.Update(ctx, item); err != nil {
		return season.Season{}, fmt.Errorf("update season: %w", err)
	}

	return item, nil
}

func (s *SeasonService) DeleteSeason(ctx context.Context, principal user.Principal, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.DeleteSeason")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, seasonID)
	if err != nil {
		return err
	}
	if err := requireActiveSubscription(ctx, s.subscriptions, item.TeamID); err != nil {
		return err
	}

	if err := s.seasons.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}

	return nil
}

func (s *SeasonService) getWithAccess(ctx context.Context, principal user.Principal, seasonID string) (season.Season, error) {
	if strings.TrimSpace(seasonID) == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	item, exists, err := s.seasons.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, item.TeamID); err != nil {
		return season.Season{}, err
	}

	return item, nil
}
