package stats

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func entries(playerID string, kind Kind, days ...string) []Entry {
	out := make([]Entry, 0, len(days))
	for i, d := range days {
		out = append(out, Entry{
			ID:         playerID + "-" + string(kind) + "-" + d,
			PlayerID:   playerID,
			Kind:       kind,
			RecordedAt: day(d).Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestStandings_GoalTieBrokenByAssists(t *testing.T) {
	t.Parallel()

	roster := []RosterLine{
		{
			PlayerID: "a",
			Name:     "Alba",
			Entries: append(
				entries("a", KindGoal, "2026-03-01", "2026-03-08", "2026-03-15"),
				entries("a", KindAssist, "2026-03-01")...,
			),
		},
		{
			PlayerID: "b",
			Name:     "Berg",
			Entries: append(
				entries("b", KindGoal, "2026-03-01", "2026-03-08", "2026-03-15"),
				entries("b", KindAssist, "2026-03-01", "2026-03-08")...,
			),
		},
	}

	rows := Standings(roster)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PlayerID != "b" || rows[0].Goals != 3 || rows[0].Assists != 2 {
		t.Fatalf("unexpected rank 1 row: %+v", rows[0])
	}
	if rows[1].PlayerID != "a" || rows[1].Goals != 3 || rows[1].Assists != 1 {
		t.Fatalf("unexpected rank 2 row: %+v", rows[1])
	}
}

func TestStandings_StableOnFullTies(t *testing.T) {
	t.Parallel()

	roster := []RosterLine{
		{PlayerID: "p1", Name: "Aas", Entries: entries("p1", KindGoal, "2026-04-01")},
		{PlayerID: "p2", Name: "Moe", Entries: entries("p2", KindGoal, "2026-04-02")},
		{PlayerID: "p3", Name: "Zug", Entries: entries("p3", KindGoal, "2026-04-03")},
	}

	rows := Standings(roster)
	for i, want := range []string{"p1", "p2", "p3"} {
		if rows[i].PlayerID != want {
			t.Fatalf("row %d: expected %s, got %s", i, want, rows[i].PlayerID)
		}
	}
}

func TestStandings_EmptyInput(t *testing.T) {
	t.Parallel()

	if rows := Standings(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestDayMatrix_GlobalDayUnionAndEmptyCells(t *testing.T) {
	t.Parallel()

	roster := []RosterLine{
		{PlayerID: "a", Name: "Alba", Entries: entries("a", KindGoal, "2026-05-02")},
		{PlayerID: "b", Name: "Berg", Entries: entries("b", KindAssist, "2026-05-01", "2026-05-04")},
	}

	days, rows := DayMatrix(roster)

	wantDays := []string{"2026-05-01", "2026-05-02", "2026-05-04"}
	if len(days) != len(wantDays) {
		t.Fatalf("expected %d days, got %v", len(wantDays), days)
	}
	for i, want := range wantDays {
		if days[i] != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, days[i])
		}
	}

	for _, row := range rows {
		if len(row.Cells) != len(days) {
			t.Fatalf("player %s: expected %d cells, got %d", row.PlayerID, len(days), len(row.Cells))
		}
	}

	// Player a has nothing on 2026-05-01 and 2026-05-04: cells exist, empty.
	if len(rows[0].Cells[0]) != 0 || len(rows[0].Cells[2]) != 0 {
		t.Fatalf("expected empty cells for player a, got %+v", rows[0].Cells)
	}
	if len(rows[0].Cells[1]) != 1 {
		t.Fatalf("expected one entry for player a on 2026-05-02, got %d", len(rows[0].Cells[1]))
	}
}

func TestDayMatrix_StreakFlags(t *testing.T) {
	t.Parallel()

	roster := []RosterLine{
		{
			PlayerID: "a",
			Name:     "Alba",
			Entries: append(
				entries("a", KindGoal, "2026-06-01", "2026-06-02"),
				entries("a", KindAssist, "2026-06-03")...,
			),
		},
	}

	_, rows := DayMatrix(roster)
	cells := rows[0].Cells

	if !cells[0][0].Streak {
		t.Fatal("goal on day 1 should streak with goal on day 2")
	}
	if !cells[1][0].Streak {
		t.Fatal("goal on day 2 should streak with goal on day 1")
	}
	// Day 3 holds an assist; neighbours hold only goals.
	if cells[2][0].Streak {
		t.Fatal("assist on day 3 has no same-kind neighbour")
	}
}

func TestDayMatrix_StreakAcrossPlayersDoesNotLeak(t *testing.T) {
	t.Parallel()

	roster := []RosterLine{
		{PlayerID: "a", Name: "Alba", Entries: entries("a", KindGoal, "2026-07-01")},
		{PlayerID: "b", Name: "Berg", Entries: entries("b", KindGoal, "2026-07-02")},
	}

	_, rows := DayMatrix(roster)
	if rows[0].Cells[0][0].Streak {
		t.Fatal("player a's goal must not streak off player b's adjacent day")
	}
	if rows[1].Cells[1][0].Streak {
		t.Fatal("player b's goal must not streak off player a's adjacent day")
	}
}

func TestDayMatrix_EmptyInput(t *testing.T) {
	t.Parallel()

	days, rows := DayMatrix(nil)
	if len(days) != 0 || len(rows) != 0 {
		t.Fatalf("expected empty outputs, got days=%v rows=%v", days, rows)
	}
}

func TestCountKinds(t *testing.T) {
	t.Parallel()

	goals, assists := CountKinds(append(
		entries("a", KindGoal, "2026-08-01", "2026-08-02"),
		entries("a", KindAssist, "2026-08-01")...,
	))
	if goals != 2 || assists != 1 {
		t.Fatalf("expected 2 goals 1 assist, got %d/%d", goals, assists)
	}
}
