package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

const (
	defaultHTTPTimeout = 90 * time.Second
	defaultRateLimit   = 2.0
	defaultBurst       = 4
	maxResponseBytes   = 4 << 20
)

// HTTPConfig configures HTTPClient.
type HTTPConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// HTTPClient calls a generation service over JSON/HTTP. Each Generate is a
// single attempt; retrying is up to the caller.
type HTTPClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type generateRequest struct {
	Phase   diamond.Phase             `json:"phase"`
	Locale  string                    `json:"locale"`
	Context diamond.GenerationContext `json:"context"`
}

type generateResponse struct {
	Phase   diamond.Phase   `json:"phase"`
	Payload json.RawMessage `json:"payload"`
	Cost    float64         `json:"cost"`
	Error   string          `json:"error,omitempty"`
}

// NewHTTPClient creates an HTTPClient posting to cfg.BaseURL + "/generate".
func NewHTTPClient(cfg HTTPConfig, logger *slog.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("generator base URL required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &HTTPClient{
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/generate",
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(limit), burst),
		logger:     logger,
	}, nil
}

// Generate posts the generation context and decodes the stage payload.
func (c *HTTPClient) Generate(ctx context.Context, gc diamond.GenerationContext) (*diamond.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(generateRequest{Phase: gc.Phase, Locale: gc.Locale, Context: gc})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("generator responded",
		"phase", gc.Phase,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var out generateResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(data, &out) == nil && out.Error != "" {
			return nil, fmt.Errorf("generator error (%d): %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("generator error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if out.Phase != "" && out.Phase != gc.Phase {
		return nil, fmt.Errorf("generator answered for %s, asked for %s", out.Phase, gc.Phase)
	}

	payload, err := decodePayload(gc.Phase, out.Payload)
	if err != nil {
		return nil, err
	}
	return &diamond.Result{Payload: payload, Cost: out.Cost}, nil
}
