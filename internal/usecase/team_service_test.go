package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
)

func newTeamService(env *testEnv, files FileStore) *TeamService {
	return NewTeamService(
		env.teams,
		env.memberships,
		env.users,
		env.players,
		env.games,
		env.stats,
		env.subs,
		files,
		env.ids,
		nil,
	)
}

func TestTeamService_CreateTeamMakesCreatorAMember(t *testing.T) {
	env := newTestEnv()
	service := newTeamService(env, newMemoryFileStore())
	principal := user.Principal{UserID: "user-1", Email: "dana@example.com"}

	created, err := service.CreateTeam(t.Context(), principal, CreateTeamInput{
		Slug:  "North-Tigers",
		Name:  "North Tigers",
		Color: "blue",
	})
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if created.Slug != "north-tigers" {
		t.Fatalf("expected lowercased slug, got %q", created.Slug)
	}

	isMember, err := env.memberships.Exists(t.Context(), created.ID, "user-1")
	if err != nil {
		t.Fatalf("membership check failed: %v", err)
	}
	if !isMember {
		t.Fatalf("creator is not a member of the new team")
	}
}

func TestTeamService_CreateTeamRejectsTakenSlug(t *testing.T) {
	env := newTestEnv()
	service := newTeamService(env, newMemoryFileStore())
	env.seedTeam("team-1", "tigers", "user-1")

	_, err := service.CreateTeam(t.Context(), user.Principal{UserID: "user-2"}, CreateTeamInput{
		Slug:  "tigers",
		Name:  "Other Tigers",
		Color: "red",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for taken slug, got %v", err)
	}
}

func TestTeamService_GetTeamBySlugDistinguishes401From403(t *testing.T) {
	env := newTestEnv()
	service := newTeamService(env, newMemoryFileStore())
	env.seedTeam("team-1", "tigers", "user-1")
	outsider := env.seedTeam("team-2", "lions", "user-2")

	_, err := service.GetTeamBySlug(t.Context(), user.Principal{}, "tigers")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without a session, got %v", err)
	}

	_, err = service.GetTeamBySlug(t.Context(), outsider, "tigers")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestTeamService_ListMembersOrdersByJoinDate(t *testing.T) {
	env := newTestEnv()
	service := newTeamService(env, newMemoryFileStore())
	owner := env.seedTeam("team-1", "tigers", "user-1")

	env.users.users["user-2"] = user.User{
		ID:        "user-2",
		Email:     "user-2@example.com",
		Name:      "Sam",
		CreatedAt: time.Now().UTC(),
	}
	env.memberships.items = append(env.memberships.items, team.Membership{
		TeamID:    "team-1",
		UserID:    "user-2",
		CreatedAt: time.Now().UTC().Add(time.Hour),
	})
	// Membership row whose user was deleted; the list skips it.
	env.memberships.items = append(env.memberships.items, team.Membership{
		TeamID:    "team-1",
		UserID:    "user-gone",
		CreatedAt: time.Now().UTC().Add(2 * time.Hour),
	})

	members, err := service.ListMembers(t.Context(), owner, "team-1")
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].UserID != "user-1" || members[1].UserID != "user-2" {
		t.Fatalf("members out of join order: %s, %s", members[0].UserID, members[1].UserID)
	}
	if members[1].Email != "user-2@example.com" || members[1].Name != "Sam" {
		t.Fatalf("member user fields not joined: %+v", members[1])
	}

	outsider := env.seedTeam("team-2", "lions", "user-3")
	if _, err := service.ListMembers(t.Context(), outsider, "team-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}

func TestTeamService_UploadLogoStoresKeyAndReturnsURL(t *testing.T) {
	env := newTestEnv()
	files := newMemoryFileStore()
	service := newTeamService(env, files)
	owner := env.seedTeam("team-1", "tigers", "user-1")

	url, err := service.UploadLogo(t.Context(), owner, "team-1", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload logo failed: %v", err)
	}
	if url != "https://cdn.test/teams/team-1/logo" {
		t.Fatalf("unexpected logo url: %s", url)
	}
	if env.teams.teams["team-1"].LogoKey != "teams/team-1/logo" {
		t.Fatalf("logo key was not stored on the team")
	}

	if err := service.DeleteLogo(t.Context(), owner, "team-1"); err != nil {
		t.Fatalf("delete logo failed: %v", err)
	}
	if env.teams.teams["team-1"].LogoKey != "" {
		t.Fatalf("logo key was not cleared")
	}
	if _, ok := files.objects["teams/team-1/logo"]; ok {
		t.Fatalf("logo blob was not deleted")
	}
}

func TestTeamService_GetOverview(t *testing.T) {
	env := newTestEnv()
	service := newTeamService(env, newMemoryFileStore())
	owner := env.seedTeam("team-1", "tigers", "user-1")

	alba := env.seedPlayer("p-alba", "team-1", "Alba")
	berg := env.seedPlayer("p-berg", "team-1", "Berg")

	day := time.Date(2026, 5, 9, 15, 0, 0, 0, time.UTC)
	seedEntries := []struct {
		playerID string
		kind     stats.Kind
		count    int
	}{
		{alba.ID, stats.KindGoal, 3},
		{alba.ID, stats.KindAssist, 1},
		{berg.ID, stats.KindGoal, 3},
		{berg.ID, stats.KindAssist, 2},
	}
	n := 0
	for _, seed := range seedEntries {
		for i := 0; i < seed.count; i++ {
			n++
			env.stats.entries[string(rune('a'+n))] = stats.Entry{
				ID:         string(rune('a' + n)),
				PlayerID:   seed.playerID,
				Kind:       seed.kind,
				RecordedAt: day,
				CreatedAt:  day,
			}
		}
	}

	overview, err := service.GetOverview(t.Context(), owner, "team-1")
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}

	if !overview.SubscriptionActive {
		t.Fatalf("expected active subscription flag")
	}
	if len(overview.Standings) != 2 {
		t.Fatalf("expected 2 standings rows, got %d", len(overview.Standings))
	}
	// Goals level at 3; Berg's extra assist breaks the tie.
	if overview.Standings[0].PlayerID != berg.ID {
		t.Fatalf("expected Berg first on assists tiebreak, got %s", overview.Standings[0].PlayerID)
	}
	if overview.Style.Background == "" {
		t.Fatalf("expected resolved style tokens")
	}
}
