package stripe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/bytedance/sonic"

	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

const defaultAPIBaseURL = "https://api.stripe.com"

// PortalClient creates customer-portal sessions so team admins can manage
// their subscription on the provider's hosted pages. It satisfies
// usecase.PortalClient.
type PortalClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *logging.Logger
}

type PortalClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logging.Logger
}

func NewPortalClient(cfg PortalClientConfig) *PortalClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}

	return &PortalClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		logger:  logger,
	}
}

func (c *PortalClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", returnURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/billing_portal/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build portal session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", crerr.Wrap(err, "create portal session")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", crerr.Wrap(err, "read portal session response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", crerr.Newf("portal session request failed: status=%d body=%s", resp.StatusCode, truncate(string(body), 512))
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := sonic.Unmarshal(body, &session); err != nil {
		return "", crerr.Wrap(err, "decode portal session response")
	}
	if session.URL == "" {
		return "", crerr.New("portal session response is missing a url")
	}

	c.logger.DebugContext(ctx, "portal session created", "customer_id", customerID)
	return session.URL, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
