package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, sessions *SessionManager) {
	mux.HandleFunc("POST /v1/auth/signup", handler.Signup)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/logout", handler.Logout)
	mux.Handle("GET /v1/me", WithSession(sessions, http.HandlerFunc(handler.Me)))
	mux.HandleFunc("POST /v1/banner/dismiss", handler.DismissBanner)
}

// registerTeamRoutes wires everything that reads the session cookie. The
// session middleware attaches the principal when present; use cases
// answer 401 for missing sessions and 403 for non-members.
func registerTeamRoutes(mux *http.ServeMux, handler *Handler, sessions *SessionManager) {
	session := func(h http.HandlerFunc) http.Handler {
		return WithSession(sessions, h)
	}

	mux.Handle("POST /v1/teams", session(handler.CreateTeam))
	mux.Handle("GET /v1/teams", session(handler.ListMyTeams))
	mux.Handle("GET /v1/teams/by-slug/{slug}", session(handler.GetTeamBySlug))
	mux.Handle("PATCH /v1/teams/{teamID}", session(handler.UpdateTeamSettings))
	mux.Handle("PUT /v1/teams/{teamID}/logo", session(handler.UploadTeamLogo))
	mux.Handle("DELETE /v1/teams/{teamID}/logo", session(handler.DeleteTeamLogo))
	mux.Handle("GET /v1/teams/{teamID}/members", session(handler.ListTeamMembers))
	mux.Handle("GET /v1/teams/{teamID}/overview", session(handler.GetTeamOverview))

	mux.Handle("POST /v1/teams/{teamID}/players", session(handler.AddPlayer))
	mux.Handle("GET /v1/teams/{teamID}/players", session(handler.ListPlayers))
	mux.Handle("PATCH /v1/players/{playerID}", session(handler.RenamePlayer))
	mux.Handle("DELETE /v1/players/{playerID}", session(handler.RemovePlayer))
	mux.Handle("PUT /v1/players/{playerID}/avatar", session(handler.UploadPlayerAvatar))

	mux.Handle("POST /v1/teams/{teamID}/games", session(handler.CreateGame))
	mux.Handle("GET /v1/teams/{teamID}/games", session(handler.GetSchedule))
	mux.Handle("PATCH /v1/games/{gameID}", session(handler.UpdateGame))
	mux.Handle("POST /v1/games/{gameID}/cancel", session(handler.CancelGame))
	mux.Handle("DELETE /v1/games/{gameID}", session(handler.DeleteGame))
	mux.Handle("PUT /v1/games/{gameID}/rsvps/{playerID}", session(handler.SaveRSVP))

	mux.Handle("POST /v1/teams/{teamID}/seasons", session(handler.CreateSeason))
	mux.Handle("GET /v1/teams/{teamID}/seasons", session(handler.ListSeasons))
	mux.Handle("PATCH /v1/seasons/{seasonID}", session(handler.UpdateSeason))
	mux.Handle("DELETE /v1/seasons/{seasonID}", session(handler.DeleteSeason))

	mux.Handle("POST /v1/players/{playerID}/stats", session(handler.RecordStat))
	mux.Handle("PATCH /v1/stats/{entryID}", session(handler.UpdateStat))
	mux.Handle("DELETE /v1/stats/{entryID}", session(handler.DeleteStat))
	mux.Handle("GET /v1/teams/{teamID}/standings", session(handler.GetStandings))
	mux.Handle("GET /v1/teams/{teamID}/stats-matrix", session(handler.GetStatsMatrix))
	mux.Handle("POST /v1/teams/{teamID}/stats-import", session(handler.ImportStats))

	mux.Handle("POST /v1/players/{playerID}/invites", session(handler.InvitePlayer))
	mux.Handle("GET /v1/players/{playerID}/invites", session(handler.ListInvites))
	mux.Handle("POST /v1/invites/{token}/resend", session(handler.ResendInvite))
	mux.Handle("POST /v1/invites/{token}/accept", session(handler.AcceptInvite))
	mux.Handle("POST /v1/join/{slug}", session(handler.RequestToJoin))
	mux.Handle("GET /v1/teams/{teamID}/join-requests", session(handler.ListJoinRequests))
	mux.Handle("POST /v1/join-requests/{token}/approve", session(handler.ApproveJoinRequest))

	mux.Handle("GET /v1/teams/{teamID}/subscription", session(handler.GetSubscription))
	mux.Handle("POST /v1/teams/{teamID}/billing-portal", session(handler.CreateBillingPortal))
}

// Webhooks authenticate by signature, not by session.
func registerWebhookRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/webhooks/billing", handler.BillingWebhook)
}
