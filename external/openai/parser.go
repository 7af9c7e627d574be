package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/bytedance/sonic"

	"github.com/matchdaylabs/teamstats/internal/domain/player"
	"github.com/matchdaylabs/teamstats/internal/platform/logging"
	"github.com/matchdaylabs/teamstats/internal/platform/resilience"
	"github.com/matchdaylabs/teamstats/internal/usecase"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
)

const systemPrompt = `You extract soccer stat lines from free-form match notes.
You receive a roster of players as "id: name" pairs and the raw notes.
Answer with a JSON object {"stats": [{"player_id": "...", "kind": "goal"|"assist"}]}.
Emit one entry per goal or assist mentioned. Only use player ids from the roster.
If a mentioned player is not on the roster, skip that line. Answer with JSON only.`

// Parser extracts stat lines from pasted match notes through a
// chat-completions API. It satisfies usecase.StatSheetParser.
type Parser struct {
	http           *http.Client
	baseURL        string
	apiKey         string
	model          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type ParserConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

func NewParser(cfg ParserConfig) *Parser {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Parser{
		http:           &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
	Temperature    float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type extractedStats struct {
	Stats []struct {
		PlayerID string `json:"player_id"`
		Kind     string `json:"kind"`
	} `json:"stats"`
}

func (p *Parser) Parse(ctx context.Context, text string, roster []player.Player) ([]usecase.ParsedStat, error) {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "parser circuit breaker rejected request", "state", p.breaker.State())
			return nil, fmt.Errorf("%w: stat sheet parser is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	content, err := p.complete(ctx, text, roster)
	if p.circuitEnabled {
		if err != nil {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, err
	}

	var extracted extractedStats
	if err := sonic.Unmarshal([]byte(content), &extracted); err != nil {
		return nil, crerr.Wrap(err, "model answered with malformed JSON")
	}

	stats := make([]usecase.ParsedStat, 0, len(extracted.Stats))
	for _, s := range extracted.Stats {
		stats = append(stats, usecase.ParsedStat{PlayerID: s.PlayerID, Kind: s.Kind})
	}

	p.logger.DebugContext(ctx, "stat sheet parsed", "lines", len(stats))
	return stats, nil
}

func (p *Parser) complete(ctx context.Context, text string, roster []player.Player) (string, error) {
	var rosterList strings.Builder
	for _, pl := range roster {
		fmt.Fprintf(&rosterList, "%s: %s\n", pl.ID, pl.Name)
	}

	payload, err := sonic.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Roster:\n" + rosterList.String() + "\nNotes:\n" + text},
		},
		ResponseFormat: &formatSpec{Type: "json_object"},
	})
	if err != nil {
		return "", crerr.Wrap(err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", crerr.Wrap(err, "call completion API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", crerr.Wrap(err, "read completion response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", crerr.Newf("completion API failed: status=%d body=%s", resp.StatusCode, truncate(string(body), 512))
	}

	var parsed chatResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return "", crerr.Wrap(err, "decode completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", crerr.New("completion response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
