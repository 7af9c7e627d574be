package stats

import "sort"

// RosterLine pairs a roster slot with its raw entries. Callers supply
// lines in display order (name ascending); aggregation keeps that order
// for full ties.
type RosterLine struct {
	PlayerID string
	Name     string
	Entries  []Entry
}

// StandingsRow is one line of the golden-boot table.
type StandingsRow struct {
	PlayerID string
	Name     string
	Goals    int
	Assists  int
}

// Standings ranks players by goals descending, assists breaking ties.
// The sort is stable: players level on both counts keep their input order.
func Standings(roster []RosterLine) []StandingsRow {
	rows := make([]StandingsRow, 0, len(roster))
	for _, line := range roster {
		goals, assists := CountKinds(line.Entries)
		rows = append(rows, StandingsRow{
			PlayerID: line.PlayerID,
			Name:     line.Name,
			Goals:    goals,
			Assists:  assists,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		return rows[i].Assists > rows[j].Assists
	})

	return rows
}

// CountKinds tallies goals and assists in one pass.
func CountKinds(entries []Entry) (goals, assists int) {
	for _, e := range entries {
		switch e.Kind {
		case KindGoal:
			goals++
		case KindAssist:
			assists++
		}
	}
	return goals, assists
}

// MatrixEntry is one entry in a day cell, flagged when the neighbouring
// day bucket for the same player holds an entry of the same kind.
type MatrixEntry struct {
	Entry  Entry
	Streak bool
}

// MatrixRow is one player's line in the per-day matrix. Cells align with
// the day-key slice returned next to the rows: every player has a cell for
// every day, empty cells included.
type MatrixRow struct {
	PlayerID string
	Name     string
	Cells    [][]MatrixEntry
}

// DayMatrix buckets each player's entries by UTC calendar day. The day-key
// set is the sorted union of days across all supplied lines, so rows stay
// column-aligned even for players with no entries on a given day.
func DayMatrix(roster []RosterLine) ([]string, []MatrixRow) {
	daySet := make(map[string]struct{})
	for _, line := range roster {
		for _, e := range line.Entries {
			daySet[DayKey(e.RecordedAt)] = struct{}{}
		}
	}

	days := make([]string, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]MatrixRow, 0, len(roster))
	for _, line := range roster {
		buckets := make(map[string][]Entry, len(days))
		for _, e := range line.Entries {
			key := DayKey(e.RecordedAt)
			buckets[key] = append(buckets[key], e)
		}

		cells := make([][]MatrixEntry, len(days))
		for i, day := range days {
			entries := buckets[day]
			cell := make([]MatrixEntry, 0, len(entries))
			for _, e := range entries {
				cell = append(cell, MatrixEntry{
					Entry:  e,
					Streak: hasAdjacentKind(buckets, days, i, e.Kind),
				})
			}
			cells[i] = cell
		}

		rows = append(rows, MatrixRow{
			PlayerID: line.PlayerID,
			Name:     line.Name,
			Cells:    cells,
		})
	}

	return days, rows
}

// hasAdjacentKind reports whether the previous or next day bucket holds at
// least one entry of the given kind. Boundaries without a matching
// neighbour are not streaks.
func hasAdjacentKind(buckets map[string][]Entry, days []string, idx int, kind Kind) bool {
	for _, neighbour := range []int{idx - 1, idx + 1} {
		if neighbour < 0 || neighbour >= len(days) {
			continue
		}
		for _, e := range buckets[days[neighbour]] {
			if e.Kind == kind {
				return true
			}
		}
	}
	return false
}
