package httpapi

import (
	"time"

	"github.com/matchdaylabs/teamstats/internal/domain/game"
	"github.com/matchdaylabs/teamstats/internal/domain/invite"
	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/domain/season"
	"github.com/matchdaylabs/teamstats/internal/domain/stats"
	"github.com/matchdaylabs/teamstats/internal/domain/team"
	"github.com/matchdaylabs/teamstats/internal/domain/user"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(u user.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

type styleDTO struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

type teamDTO struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	LogoKey   string    `json:"logo_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toTeamDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:        t.ID,
		Slug:      t.Slug,
		Name:      t.Name,
		Color:     string(t.Color),
		LogoKey:   t.LogoKey,
		CreatedAt: t.CreatedAt,
	}
}

func toTeamDTOs(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTeamDTO(t))
	}
	return out
}

type memberDTO struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

func toMemberDTOs(items []usecase.Member) []memberDTO {
	out := make([]memberDTO, 0, len(items))
	for _, m := range items {
		out = append(out, memberDTO{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
		})
	}
	return out
}

type playerDTO struct {
	ID           string `json:"id"`
	TeamID       string `json:"team_id"`
	Name         string `json:"name"`
	AvatarKey    string `json:"avatar_key,omitempty"`
	LinkedUserID string `json:"linked_user_id,omitempty"`
}

func toPlayerDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		TeamID:       p.TeamID,
		Name:         p.Name,
		AvatarKey:    p.AvatarKey,
		LinkedUserID: p.LinkedUserID,
	}
}

func toPlayerDTOs(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toPlayerDTO(p))
	}
	return out
}

type gameDTO struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	Opponent    string     `json:"opponent"`
	Location    string     `json:"location,omitempty"`
	KickoffAt   *time.Time `json:"kickoff_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func toGameDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:          g.ID,
		TeamID:      g.TeamID,
		Opponent:    g.Opponent,
		Location:    g.Location,
		KickoffAt:   g.KickoffAt,
		CancelledAt: g.CancelledAt,
	}
}

func toGameDTOs(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, g := range items {
		out = append(out, toGameDTO(g))
	}
	return out
}

type rsvpTallyDTO struct {
	Yes    int `json:"yes"`
	No     int `json:"no"`
	Roster int `json:"roster"`
}

type gameCardDTO struct {
	Game    gameDTO      `json:"game"`
	RSVPs   rsvpTallyDTO `json:"rsvps"`
	Goals   int          `json:"goals"`
	Assists int          `json:"assists"`
}

type scheduleDTO struct {
	Past     []gameDTO `json:"past"`
	Next     *gameDTO  `json:"next,omitempty"`
	Upcoming []gameDTO `json:"upcoming"`
	TBD      []gameDTO `json:"tbd"`
}

func toScheduleDTO(s game.Schedule) scheduleDTO {
	dto := scheduleDTO{
		Past:     toGameDTOs(s.Past),
		Upcoming: toGameDTOs(s.Upcoming),
		TBD:      toGameDTOs(s.TBD),
	}
	if s.Next != nil {
		next := toGameDTO(*s.Next)
		dto.Next = &next
	}
	return dto
}

type scheduleViewDTO struct {
	Schedule scheduleDTO            `json:"schedule"`
	Cards    map[string]gameCardDTO `json:"cards"`
}

func toScheduleViewDTO(v usecase.ScheduleView) scheduleViewDTO {
	cards := make(map[string]gameCardDTO, len(v.Cards))
	for id, card := range v.Cards {
		cards[id] = gameCardDTO{
			Game:    toGameDTO(card.Game),
			RSVPs:   rsvpTallyDTO{Yes: card.RSVPs.Yes, No: card.RSVPs.No, Roster: card.RSVPs.Roster},
			Goals:   card.Goals,
			Assists: card.Assists,
		}
	}
	return scheduleViewDTO{Schedule: toScheduleDTO(v.Schedule), Cards: cards}
}

type seasonDTO struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toSeasonDTO(s season.Season) seasonDTO {
	return seasonDTO{
		ID:        s.ID,
		TeamID:    s.TeamID,
		Name:      s.Name,
		StartDate: s.StartDate.Format(time.DateOnly),
		EndDate:   s.EndDate.Format(time.DateOnly),
	}
}

func toSeasonDTOs(items []season.Season) []seasonDTO {
	out := make([]seasonDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toSeasonDTO(s))
	}
	return out
}

type statEntryDTO struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	Kind       string    `json:"kind"`
	RecordedAt time.Time `json:"recorded_at"`
}

func toStatEntryDTO(e stats.Entry) statEntryDTO {
	return statEntryDTO{
		ID:         e.ID,
		PlayerID:   e.PlayerID,
		Kind:       string(e.Kind),
		RecordedAt: e.RecordedAt,
	}
}

func toStatEntryDTOs(items []stats.Entry) []statEntryDTO {
	out := make([]statEntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, toStatEntryDTO(e))
	}
	return out
}

type standingsRowDTO struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
}

func toStandingsDTOs(rows []stats.StandingsRow) []standingsRowDTO {
	out := make([]standingsRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingsRowDTO{
			PlayerID: row.PlayerID,
			Name:     row.Name,
			Goals:    row.Goals,
			Assists:  row.Assists,
		})
	}
	return out
}

type matrixCellDTO struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Streak bool   `json:"streak"`
}

type matrixRowDTO struct {
	PlayerID string            `json:"player_id"`
	Name     string            `json:"name"`
	Cells    [][]matrixCellDTO `json:"cells"`
}

type matrixViewDTO struct {
	Days []string       `json:"days"`
	Rows []matrixRowDTO `json:"rows"`
}

func toMatrixViewDTO(v usecase.MatrixView) matrixViewDTO {
	rows := make([]matrixRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		cells := make([][]matrixCellDTO, 0, len(row.Cells))
		for _, day := range row.Cells {
			cell := make([]matrixCellDTO, 0, len(day))
			for _, entry := range day {
				cell = append(cell, matrixCellDTO{
					ID:     entry.Entry.ID,
					Kind:   string(entry.Entry.Kind),
					Streak: entry.Streak,
				})
			}
			cells = append(cells, cell)
		}
		rows = append(rows, matrixRowDTO{PlayerID: row.PlayerID, Name: row.Name, Cells: cells})
	}
	return matrixViewDTO{Days: v.Days, Rows: rows}
}

type inviteDTO struct {
	Token      string     `json:"token"`
	PlayerID   string     `json:"player_id"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

func toInviteDTO(i invite.Invite) inviteDTO {
	return inviteDTO{
		Token:      i.Token,
		PlayerID:   i.PlayerID,
		Email:      i.Email,
		CreatedAt:  i.CreatedAt,
		AcceptedAt: i.AcceptedAt,
	}
}

func toInviteDTOs(items []invite.Invite) []inviteDTO {
	out := make([]inviteDTO, 0, len(items))
	for _, i := range items {
		out = append(out, toInviteDTO(i))
	}
	return out
}

type joinRequestDTO struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	TeamID    string    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toJoinRequestDTOs(items []invite.Request) []joinRequestDTO {
	out := make([]joinRequestDTO, 0, len(items))
	for _, r := range items {
		out = append(out, joinRequestDTO{
			Token:     r.Token,
			UserID:    r.UserID,
			TeamID:    r.TeamID,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

type subscriptionDTO struct {
	Active            bool       `json:"active"`
	Status            string     `json:"status,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	PeriodEnd         *time.Time `json:"period_end,omitempty"`
}

func toSubscriptionDTO(v usecase.SubscriptionView) subscriptionDTO {
	dto := subscriptionDTO{
		Active:            v.Active,
		Status:            string(v.Status),
		CancelAtPeriodEnd: v.CancelAtPeriodEnd,
	}
	if !v.PeriodEnd.IsZero() {
		end := v.PeriodEnd
		dto.PeriodEnd = &end
	}
	return dto
}

type overviewDTO struct {
	Team               teamDTO           `json:"team"`
	Style              styleDTO          `json:"style"`
	Players            []playerDTO       `json:"players"`
	Schedule           scheduleDTO       `json:"schedule"`
	Standings          []standingsRowDTO `json:"standings"`
	SubscriptionActive bool              `json:"subscription_active"`
}

func toOverviewDTO(v usecase.Overview) overviewDTO {
	return overviewDTO{
		Team:               toTeamDTO(v.Team),
		Style:              styleDTO{Background: v.Style.Background, Text: v.Style.Text, Accent: v.Style.Accent},
		Players:            toPlayerDTOs(v.Players),
		Schedule:           toScheduleDTO(v.Schedule),
		Standings:          toStandingsDTOs(v.Standings),
		SubscriptionActive: v.SubscriptionActive,
	}
}
