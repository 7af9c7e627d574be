package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	idgen "github.com/matchdaylabs/teamstats/internal/platform/id"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

type PlayerService struct {
	teams       team.Repository
	memberships team.MembershipRepository
	players     player.Repository
	files       FileStore
	ids         idgen.Generator
	logger      *logging.Logger
}

func NewPlayerService(
	teams team.Repository,
	memberships team.MembershipRepository,
	players player.Repository,
	files FileStore,
	ids idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		teams:       teams,
		memberships: memberships,
		players:     players,
		files:       files,
		ids:         ids,
		logger:      logger,
	}
}

func (s *PlayerService) AddPlayer(ctx context.Context, principal user.Principal, teamID, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AddPlayer")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return player.Player{}, err
	}
	if _, exists, err := s.teams.GetByID(ctx, teamID); err != nil {
		return player.Player{}, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return player.Player{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	item := player.Player{
		ID:        id,
		TeamID:    teamID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.players.Create(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	return item, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context, principal user.Principal, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	if err := requireTeamAccess(ctx, s.memberships, principal, teamID); err != nil {
		return nil, err
	}

	items, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func (s *PlayerService) RenamePlayer(ctx context.Context, principal user.Principal, playerID, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RenamePlayer")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, playerID)
	if err != nil {
		return player.Player{}, err
	}

	item.Name = strings.TrimSpace(name)
	item.UpdatedAt = time.Now().UTC()
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.players.Update(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	return item, nil
}

func (s *PlayerService) RemovePlayer(ctx context.Context, principal user.Principal, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RemovePlayer")
	defer span.End()

	item, err := s.getWithAccess(ctx, principal, playerID)
	if err != nil {
		return err
	}

	if err := s.players.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	return nil
}

func (s *PlayerService) UploadAvatar(ctx context.Context, principal user.Principal, playerID, contentType string, body io.Reader) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UploadAvatar")
	defer span.End()

	if s.files == nil {
		return "", fmt.Errorf("%w: file storage is not configured", ErrDependencyUnavailable)
	}

	item, err := s.getWithAccess(ctx, principal, playerID)
	if err != nil {
		return "", err
	}

	key := "players/" + item.ID + "/avatar"
	url, err := s.files.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("%w: upload avatar: %v", ErrDependencyUnavailable, err)
	}

	item.AvatarKey = key
	item.UpdatedAt = time.Now().UTC()
	if err := s.players.Update(ctx, item); err != nil {
		return "", fmt.Errorf("store avatar key: %w", err)
	}

	return url, nil
}

// getWithAccess resolves a player and checks membership on its team in one
// step; every player mutation funnels through here.
func (s *PlayerService) getWithAccess(ctx context.Context, principal user.Principal, playerID string) (player.Player, error) {
	if strings.TrimSpace(playerID) == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	if err := requireTeamAccess(ctx, s.memberships, principal, item.TeamID); err != nil {
		return player.Player{}, err
	}

	return item, nil
}
