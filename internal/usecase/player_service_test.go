package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

func newPlayerService(env *testEnv, files FileStore) *PlayerService {
	return NewPlayerService(
		env.teams,
		env.memberships,
		env.players,
		files,
		env.ids,
		nil,
	)
}

func TestPlayerService_AddPlayer(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, newMemoryFileStore())
	principal := env.seedTeam("team-1", "tigers", "user-1")

	created, err := service.AddPlayer(t.Context(), principal, "team-1", "  Alba ")
	if err != nil {
		t.Fatalf("add player failed: %v", err)
	}
	if created.Name != "Alba" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.TeamID != "team-1" {
		t.Fatalf("unexpected team id: %q", created.TeamID)
	}

	if _, ok := env.players.players[created.ID]; !ok {
		t.Fatalf("player was not stored")
	}
}

func TestPlayerService_AddPlayerRejectsEmptyName(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, newMemoryFileStore())
	principal := env.seedTeam("team-1", "tigers", "user-1")

	_, err := service.AddPlayer(t.Context(), principal, "team-1", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_AccessControl(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, newMemoryFileStore())
	env.seedTeam("team-1", "tigers", "user-1")
	env.seedPlayer("player-1", "team-1", "Alba")

	t.Run("anonymous viewer gets unauthenticated", func(t *testing.T) {
		_, err := service.ListPlayers(t.Context(), user.Principal{}, "team-1")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("non member gets forbidden", func(t *testing.T) {
		outsider := user.Principal{UserID: "user-2", Email: "sam@example.com"}
		_, err := service.RenamePlayer(t.Context(), outsider, "player-1", "Sam")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestPlayerService_RenamePlayer(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, newMemoryFileStore())
	principal := env.seedTeam("team-1", "tigers", "user-1")
	env.seedPlayer("player-1", "team-1", "Alba")

	renamed, err := service.RenamePlayer(t.Context(), principal, "player-1", "Albacete")
	if err != nil {
		t.Fatalf("rename player failed: %v", err)
	}
	if renamed.Name != "Albacete" {
		t.Fatalf("unexpected name: %q", renamed.Name)
	}
	if env.players.players["player-1"].Name != "Albacete" {
		t.Fatalf("rename was not persisted")
	}
}

func TestPlayerService_RemovePlayer(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, newMemoryFileStore())
	principal := env.seedTeam("team-1", "tigers", "user-1")
	env.seedPlayer("player-1", "team-1", "Alba")

	if err := service.RemovePlayer(t.Context(), principal, "player-1"); err != nil {
		t.Fatalf("remove player failed: %v", err)
	}
	if _, ok := env.players.players["player-1"]; ok {
		t.Fatalf("player still stored after removal")
	}

	err := service.RemovePlayer(t.Context(), principal, "player-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed player, got %v", err)
	}
}

func TestPlayerService_UploadAvatar(t *testing.T) {
	env := newTestEnv()
	files := newMemoryFileStore()
	service := newPlayerService(env, files)
	principal := env.seedTeam("team-1", "tigers", "user-1")
	env.seedPlayer("player-1", "team-1", "Alba")

	url, err := service.UploadAvatar(t.Context(), principal, "player-1", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload avatar failed: %v", err)
	}
	if url == "" {
		t.Fatalf("expected a public url")
	}
	if env.players.players["player-1"].AvatarKey != "players/player-1/avatar" {
		t.Fatalf("avatar key not stored: %q", env.players.players["player-1"].AvatarKey)
	}
}

func TestPlayerService_UploadAvatarWithoutStorage(t *testing.T) {
	env := newTestEnv()
	service := newPlayerService(env, nil)
	principal := env.seedTeam("team-1", "tigers", "user-1")
	env.seedPlayer("player-1", "team-1", "Alba")

	_, err := service.UploadAvatar(t.Context(), principal, "player-1", "image/png", strings.NewReader("png-bytes"))
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
