package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

// maxUploadBytes caps logo and avatar uploads.
const maxUploadBytes = 5 << 20

type Handler struct {
	authService    *usecase.AuthService
	teamService    *usecase.TeamService
	playerService  *usecase.PlayerService
	gameService    *usecase.GameService
	seasonService  *usecase.SeasonService
	statsService   *usecase.StatsService
	inviteService  *usecase.InviteService
	billingService *usecase.BillingService
	webhooks       WebhookDecoder
	sessions       *SessionManager
	logger         *logging.Logger
	validator      *validator.Validate
	healthCheck    func(ctx context.Context) error
}

func NewHandler(
	authService *usecase.AuthService,
	teamService *usecase.TeamService,
	playerService *usecase.PlayerService,
	gameService *usecase.GameService,
	seasonService *usecase.SeasonService,
	statsService *usecase.StatsService,
	inviteService *usecase.InviteService,
	billingService *usecase.BillingService,
	webhooks WebhookDecoder,
	sessions *SessionManager,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:    authService,
		teamService:    teamService,
		playerService:  playerService,
		gameService:    gameService,
		seasonService:  seasonService,
		statsService:   statsService,
		inviteService:  inviteService,
		billingService: billingService,
		webhooks:       webhooks,
		sessions:       sessions,
		logger:         logger,
		validator:      validator.New(),
	}
}

// SetHealthCheck wires a readiness probe, typically the database ping.
func (h *Handler) SetHealthCheck(check func(ctx context.Context) error) {
	h.healthCheck = check
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.healthCheck != nil {
		if err := h.healthCheck(ctx); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: health check: %v", usecase.ErrDependencyUnavailable, err))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissBanner")
	defer span.End()

	h.sessions.DismissBanner(w)
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"dismissed": true})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
