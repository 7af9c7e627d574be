package mailgun

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/platform/resilience"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

const defaultBaseURL = "https://api.mailgun.net"

var errMailgunTransient = crerr.New("mailgun transient failure")

type ClientConfig struct {
	BaseURL        string
	Domain         string
	APIKey         string
	Sender         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client sends transactional mail through the Mailgun messages API. It
// satisfies usecase.EmailSender.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	domain         string
	authHeader     string
	sender         string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
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
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	auth := base64.StdEncoding.EncodeToString([]byte("api:" + strings.TrimSpace(cfg.APIKey)))

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        baseURL,
		domain:         strings.TrimSpace(cfg.Domain),
		authHeader:     "Basic " + auth,
		sender:         strings.TrimSpace(cfg.Sender),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Send(ctx context.Context, to, subject, textBody string) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "mailgun circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: mail provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}
	if strings.TrimSpace(to) == "" {
		return crerr.New("recipient is required")
	}

	form := url.Values{}
	form.Set("from", c.sender)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", textBody)

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	body.SetString(form.Encode())

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/v3/" + c.domain + "/messages")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set(fasthttp.HeaderAuthorization, c.authHeader)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBody(body.B)

	err := c.http.DoTimeout(req, resp, c.requestTimeout(ctx))
	if c.circuitEnabled {
		if err != nil || resp.StatusCode() >= fasthttp.StatusInternalServerError {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return crerr.Wrapf(errMailgunTransient, "send mail: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		c.logger.DebugContext(ctx, "mail sent", "to", to, "status", status)
		return nil
	case status >= fasthttp.StatusInternalServerError || status == fasthttp.StatusTooManyRequests:
		return crerr.Wrapf(errMailgunTransient, "mailgun answered %d", status)
	default:
		return crerr.Newf("mailgun rejected message: status=%d body=%s", status, truncate(string(resp.Body()), 512))
	}
}

// requestTimeout honors an earlier context deadline when one is set.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return c.timeout
	}
	remaining := time.Until(deadline)
	if remaining <= 0 || remaining > c.timeout {
		return c.timeout
	}
	return remaining
}

// IsTransient reports whether a send failure is worth retrying.
func IsTransient(err error) bool {
	return crerr.Is(err, errMailgunTransient)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
