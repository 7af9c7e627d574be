package httpapi

import (
	"net/http"
	"time"
)

type recordStatRequest struct {
	Kind       string     `json:"kind" validate:"required,max=20"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type importStatsRequest struct {
	Text       string     `json:"text" validate:"required,max=20000"`
	RecordedAt *time.Time `json:"recorded_at"`
}

func timestampOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (h *Handler) RecordStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordStat")
	defer span.End()

	var req recordStatRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.statsService.RecordEntry(ctx, principalFromContext(ctx), r.PathValue("playerID"), req.Kind, timestampOrZero(req.RecordedAt))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toStatEntryDTO(created))
}

func (h *Handler) UpdateStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateStat")
	defer span.End()

	var req recordStatRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.statsService.UpdateEntry(ctx, principalFromContext(ctx), r.PathValue("entryID"), req.Kind, timestampOrZero(req.RecordedAt))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toStatEntryDTO(updated))
}

func (h *Handler) DeleteStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteStat")
	defer span.End()

	if err := h.statsService.DeleteEntry(ctx, principalFromContext(ctx), r.PathValue("entryID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	rows, err := h.statsService.Standings(ctx, principalFromContext(ctx), r.PathValue("teamID"), r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toStandingsDTOs(rows))
}

func (h *Handler) GetStatsMatrix(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatsMatrix")
	defer span.End()

	view, err := h.statsService.Matrix(ctx, principalFromContext(ctx), r.PathValue("teamID"), r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatrixViewDTO(view))
}

func (h *Handler) ImportStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportStats")
	defer span.End()

	var req importStatsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.statsService.ImportFromText(ctx, principalFromContext(ctx), r.PathValue("teamID"), req.Text, timestampOrZero(req.RecordedAt))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toStatEntryDTOs(created))
}
