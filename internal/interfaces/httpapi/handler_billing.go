package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

// maxWebhookBytes caps billing webhook payloads.
const maxWebhookBytes = 1 << 20

const webhookSignatureHeader = "Stripe-Signature"

// WebhookDecoder checks a billing webhook signature and decodes the
// payload into the reconciler's event shape. A signature failure must be
// distinguishable from a decode failure so the endpoint can answer 400
// for both without running the reconciler.
type WebhookDecoder interface {
	VerifyAndDecode(payload []byte, signatureHeader string) (billing.Event, error)
}

type portalRequest struct {
	ReturnURL string `json:"return_url" validate:"required,url,max=500"`
}

func (h *Handler) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BillingWebhook")
	defer span.End()

	if h.webhooks == nil {
		writeError(ctx, w, fmt.Errorf("%w: billing webhooks are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read webhook payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	event, err := h.webhooks.VerifyAndDecode(payload, r.Header.Get(webhookSignatureHeader))
	if err != nil {
		h.logger.WarnContext(ctx, "billing webhook rejected", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.billingService.HandleSubscriptionEvent(ctx, event); err != nil {
		if errors.Is(err, usecase.ErrInvariant) {
			h.logger.ErrorContext(ctx, "billing webhook hit an invariant violation", "error", err, "subscription_id", event.ExternalID)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSubscription")
	defer span.End()

	view, err := h.billingService.GetSubscription(ctx, principalFromContext(ctx), r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toSubscriptionDTO(view))
}

func (h *Handler) CreateBillingPortal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBillingPortal")
	defer span.End()

	var req portalRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	url, err := h.billingService.PortalURL(ctx, principalFromContext(ctx), r.PathValue("teamID"), req.ReturnURL)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"url": url})
}
