package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/matchdaylabs/teamstats/internal/domain/billing"
)

const defaultTolerance = 5 * time.Minute

// ErrBadSignature rejects webhook payloads that fail verification. The
// handler answers 400 without touching the body any further.
var ErrBadSignature = fmt.Errorf("webhook signature verification failed")

// WebhookVerifier checks the provider's `t=...,v1=...` signature scheme:
// v1 is HMAC-SHA256 over "<t>.<payload>" with the endpoint secret, and t
// must fall within the tolerance window to blunt replays.
type WebhookVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewWebhookVerifier(secret string, tolerance time.Duration) *WebhookVerifier {
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}
	return &WebhookVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

func (v *WebhookVerifier) Verify(payload []byte, header string) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrBadSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, decodeErr := hex.DecodeString(sig)
		if decodeErr != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return fmt.Errorf("%w: no matching v1 signature", ErrBadSignature)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var (
		timestamp  int64
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: malformed timestamp", ErrBadSignature)
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: header is missing t or v1", ErrBadSignature)
	}
	return timestamp, signatures, nil
}

// VerifyAndDecode is the one-call form handlers use: check the signature,
// then decode the payload.
func (v *WebhookVerifier) VerifyAndDecode(payload []byte, header string) (billing.Event, error) {
	if err := v.Verify(payload, header); err != nil {
		return billing.Event{}, err
	}
	return ParseEvent(payload)
}

type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object webhookSubscription `json:"object"`
	} `json:"data"`
}

type webhookSubscription struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	Status            string            `json:"status"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []struct {
			Price struct {
				Product string `json:"product"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// ParseEvent decodes a subscription-lifecycle webhook body into the
// reconciler's event shape. The team id travels in subscription metadata.
func ParseEvent(payload []byte) (billing.Event, error) {
	var envelope webhookEnvelope
	if err := sonic.Unmarshal(payload, &envelope); err != nil {
		return billing.Event{}, fmt.Errorf("decode webhook payload: %w", err)
	}

	sub := envelope.Data.Object
	event := billing.Event{
		ExternalID:        sub.ID,
		TeamID:            sub.Metadata["team_id"],
		CustomerID:        sub.Customer,
		Status:            billing.Status(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if len(sub.Items.Data) > 0 {
		event.ProductID = sub.Items.Data[0].Price.Product
	}
	if sub.CurrentPeriodEnd > 0 {
		event.PeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}

	return event, nil
}
