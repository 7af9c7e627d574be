package httpapi

import (
	"fmt"
	"net/http"

	"github.com/matchdaylabs/teamstats/internal/domain/user"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Signup")
	defer span.End()

	var req signupRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	account, err := h.authService.Signup(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.sessions.Issue(w, user.Principal{UserID: account.ID, Email: account.Email}); err != nil {
		h.logger.ErrorContext(ctx, "issue session failed", "error", err)
		writeInternalError(ctx, w)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toUserDTO(account))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var req loginRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	account, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.sessions.Issue(w, user.Principal{UserID: account.ID, Email: account.Email}); err != nil {
		h.logger.ErrorContext(ctx, "issue session failed", "error", err)
		writeInternalError(ctx, w)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toUserDTO(account))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	h.sessions.Clear(w)
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"logged_out": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	principal := principalFromContext(ctx)
	if principal.Zero() {
		writeError(ctx, w, fmt.Errorf("%w: no active session", usecase.ErrUnauthenticated))
		return
	}

	account, err := h.authService.GetUser(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toUserDTO(account))
}
