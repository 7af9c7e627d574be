package usecase

import (
	"errors"
	"testing"
	"time"
)

func newSeasonService(env *testEnv) *SeasonService {
	return NewSeasonService(env.memberships, env.seasons, env.subs, env.ids, nil)
}

func TestSeasonService_CreateSeason(t *testing.T) {
	env := newTestEnv()
	service := newSeasonService(env)
	owner := env.seedTeam("team-1", "tigers", "user-1")

	created, err := service.CreateSeason(t.Context(), owner, "team-1", SeasonInput{
		Name:      "Spring 2026",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create season failed: %v", err)
	}

	items, err := service.ListSeasons(t.Context(), owner, "team-1")
	if err != nil {
		t.Fatalf("list seasons failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("unexpected season list: %+v", items)
	}
}

func TestSeasonService_CreateSeasonRejectsInvertedRange(t *testing.T) {
	env := newTestEnv()
	service := newSeasonService(env)
	owner := env.seedTeam("team-1", "tigers", "user-1")

	_, err := service.CreateSeason(t.Context(), owner, "team-1", SeasonInput{
		Name:      "Backwards",
		StartDate: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for end before start, got %v", err)
	}
}

func TestSeasonService_AllowsOverlappingSeasons(t *testing.T) {
	env := newTestEnv()
	service := newSeasonService(env)
	owner := env.seedTeam("team-1", "tigers", "user-1")

	_, err := service.CreateSeason(t.Context(), owner, "team-1", SeasonInput{
		Name:      "Full Year",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create first season failed: %v", err)
	}

	_, err = service.CreateSeason(t.Context(), owner, "team-1", SeasonInput{
		Name:      "Spring Cup",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("overlapping season rejected: %v", err)
	}
}
