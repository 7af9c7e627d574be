package game

import "time"

// Schedule is a team's fixture list split along the time axis. Games with
// no kickoff yet are listed separately as TBD; they never count as past or
// upcoming. Next is the earliest upcoming game, removed from Upcoming so
// callers can emphasise it.
type Schedule struct {
	Past     []Game
	Next     *Game
	Upcoming []Game
	TBD      []Game
}

// Partition splits games by kickoff relative to now. Input order is
// preserved within each bucket; callers pass games sorted kickoff
// ascending, which makes the first upcoming game the next one.
func Partition(games []Game, now time.Time) Schedule {
	var s Schedule
	for _, g := range games {
		switch {
		case g.KickoffAt == nil:
			s.TBD = append(s.TBD, g)
		case !g.KickoffAt.After(now):
			s.Past = append(s.Past, g)
		case s.Next == nil:
			next := g
			s.Next = &next
		default:
			s.Upcoming = append(s.Upcoming, g)
		}
	}
	return s
}
