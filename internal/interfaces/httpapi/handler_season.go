package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type seasonRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

func (r seasonRequest) toInput() (usecase.SeasonInput, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return usecase.SeasonInput{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return usecase.SeasonInput{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	return usecase.SeasonInput{Name: r.Name, StartDate: start, EndDate: end}, nil
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSeason")
	defer span.End()

	var req seasonRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.seasonService.CreateSeason(ctx, principalFromContext(ctx), r.PathValue("teamID"), input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toSeasonDTO(created))
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.seasonService.ListSeasons(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toSeasonDTOs(seasons))
}

func (h *Handler) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSeason")
	defer span.End()

	var req seasonRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.seasonService.UpdateSeason(ctx, principalFromContext(ctx), r.PathValue("seasonID"), input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toSeasonDTO(updated))
}

func (h *Handler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSeason")
	defer span.End()

	if err := h.seasonService.DeleteSeason(ctx, principalFromContext(ctx), r.PathValue("seasonID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}
