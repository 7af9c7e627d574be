package httpapi

import (
	"net/http"
)

type invitePlayerRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type approveRequestRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

func (h *Handler) InvitePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvitePlayer")
	defer span.End()

	var req invitePlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.inviteService.InvitePlayer(ctx, principalFromContext(ctx), r.PathValue("playerID"), req.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toInviteDTO(created))
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListInvites")
	defer span.End()

	invites, err := h.inviteService.ListInvites(ctx, principalFromContext(ctx), r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toInviteDTOs(invites))
}

func (h *Handler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResendInvite")
	defer span.End()

	if err := h.inviteService.ResendInvite(ctx, principalFromContext(ctx), r.PathValue("token")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptInvite")
	defer span.End()

	joined, err := h.inviteService.AcceptInvite(ctx, principalFromContext(ctx), r.PathValue("token"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTO(joined))
}

func (h *Handler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestToJoin")
	defer span.End()

	created, err := h.inviteService.RequestToJoin(ctx, principalFromContext(ctx), r.PathValue("slug"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, joinRequestDTO{
		Token:     created.Token,
		UserID:    created.UserID,
		TeamID:    created.TeamID,
		CreatedAt: created.CreatedAt,
	})
}

func (h *Handler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJoinRequests")
	defer span.End()

	requests, err := h.inviteService.ListJoinRequests(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toJoinRequestDTOs(requests))
}

func (h *Handler) ApproveJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveJoinRequest")
	defer span.End()

	var req approveRequestRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.inviteService.ApproveRequest(ctx, principalFromContext(ctx), r.PathValue("token"), req.PlayerID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"approved": true})
}
