package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rpggio/doublediamond/internal/config"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

const defaultTemperature = 0.7

// LLM generates stage content by prompting a language model and decoding
// the JSON object in its completion.
type LLM struct {
	model   llms.Model
	cost    float64
	timeout time.Duration
	logger  *slog.Logger
}

// NewLLM wraps any langchaingo model. cost is charged per successful call.
func NewLLM(model llms.Model, cost float64, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LLM{model: model, cost: cost, logger: logger}
}

// WithTimeout bounds every Generate call, whatever the caller's context.
func (g *LLM) WithTimeout(d time.Duration) *LLM {
	g.timeout = d
	return g
}

// NewOpenAI builds an LLM backed by an OpenAI-compatible endpoint.
func NewOpenAI(cfg config.GeneratorConfig, logger *slog.Logger) (*LLM, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return NewLLM(model, cfg.CostPerCall, logger).WithTimeout(timeout), nil
}

// Generate runs one completion for the requested stage.
func (g *LLM) Generate(ctx context.Context, gc diamond.GenerationContext) (*diamond.Result, error) {
	prompt, err := buildPrompt(gc)
	if err != nil {
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(defaultTemperature),
	)
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	raw, err := extractJSON(completion)
	if err != nil {
		g.logger.Warn("llm completion without JSON", "phase", gc.Phase, "length", len(completion))
		return nil, err
	}

	payload, err := decodePayload(gc.Phase, []byte(raw))
	if err != nil {
		return nil, err
	}
	return &diamond.Result{Payload: payload, Cost: g.cost}, nil
}
