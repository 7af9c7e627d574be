package httpapi

import (
	"net/http"

	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type createTeamRequest struct {
	Slug  string `json:"slug" validate:"required,max=60"`
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

type updateTeamRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.teamService.CreateTeam(ctx, principalFromContext(ctx), usecase.CreateTeamInput{
		Slug:  req.Slug,
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toTeamDTO(created))
}

func (h *Handler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeams")
	defer span.End()

	teams, err := h.teamService.ListMyTeams(ctx, principalFromContext(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTOs(teams))
}

func (h *Handler) GetTeamBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamBySlug")
	defer span.End()

	found, err := h.teamService.GetTeamBySlug(ctx, principalFromContext(ctx), r.PathValue("slug"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(found))
}

func (h *Handler) UpdateTeamSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamSettings")
	defer span.End()

	var req updateTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.teamService.UpdateSettings(ctx, principalFromContext(ctx), r.PathValue("teamID"), usecase.UpdateTeamInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(updated))
}

func (h *Handler) UploadTeamLogo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadTeamLogo")
	defer span.End()

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	url, err := h.teamService.UploadLogo(ctx, principalFromContext(ctx), r.PathValue("teamID"), r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) DeleteTeamLogo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeamLogo")
	defer span.End()

	if err := h.teamService.DeleteLogo(ctx, principalFromContext(ctx), r.PathValue("teamID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMembers")
	defer span.End()

	members, err := h.teamService.ListMembers(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMemberDTOs(members))
}

func (h *Handler) GetTeamOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamOverview")
	defer span.End()

	overview, err := h.teamService.GetOverview(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toOverviewDTO(overview))
}
