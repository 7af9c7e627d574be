package httpapi

import (
	"net/http"
	"time"

	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type gameRequest struct {
	Opponent  string     `json:"opponent" validate:"required,max=100"`
	Location  string     `json:"location" validate:"omitempty,max=200"`
	KickoffAt *time.Time `json:"kickoff_at"`
}

type cancelGameRequest struct {
	Cancelled bool `json:"cancelled"`
}

type rsvpRequest struct {
	Value string `json:"value" validate:"required,max=10"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req gameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.gameService.CreateGame(ctx, principalFromContext(ctx), r.PathValue("teamID"), usecase.GameInput{
		Opponent:  req.Opponent,
		Location:  req.Location,
		KickoffAt: req.KickoffAt,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toGameDTO(created))
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGame")
	defer span.End()

	var req gameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.gameService.UpdateGame(ctx, principalFromContext(ctx), r.PathValue("gameID"), usecase.GameInput{
		Opponent:  req.Opponent,
		Location:  req.Location,
		KickoffAt: req.KickoffAt,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toGameDTO(updated))
}

func (h *Handler) CancelGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelGame")
	defer span.End()

	var req cancelGameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.gameService.CancelGame(ctx, principalFromContext(ctx), r.PathValue("gameID"), req.Cancelled)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toGameDTO(updated))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	if err := h.gameService.DeleteGame(ctx, principalFromContext(ctx), r.PathValue("gameID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) SaveRSVP(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveRSVP")
	defer span.End()

	var req rsvpRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.gameService.SaveRSVP(ctx, principalFromContext(ctx), r.PathValue("gameID"), r.PathValue("playerID"), req.Value)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"saved": true})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	view, err := h.gameService.GetSchedule(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toScheduleViewDTO(view))
}
