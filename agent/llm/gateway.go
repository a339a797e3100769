package llm

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	contractx "github.com/attache-labs/attache/agent/contract"
	openrouterx "github.com/attache-labs/attache/pkg/openrouter"
)

// Gateway is the single synchronous completion capability shared by the
// classifier, the extractors, and the resolver. It owns retries and rate
// limiting; callers only pick sampling options per call.
type Gateway struct {
	client      *openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
	maxRetries  int
	limiter     *rate.Limiter
}

var _ contractx.Gateway = (*Gateway)(nil)

func NewGateway(cfg Config) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := openrouterx.NewClient(cfg.OpenRouter())
	if client == nil {
		return nil, fmt.Errorf("%w: openrouter client not configured", contractx.ErrValidation)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Gateway{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxCompletionToken,
		maxRetries:  cfg.MaxRetries,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Complete runs one prompt round-trip with bounded retries. A transport
// failure after all attempts surfaces as ErrModelInvoke, never as an empty
// string.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts contractx.CompleteOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	temperature := g.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := g.maxTokens
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}
	retries := g.maxRetries
	if opts.MaxRetries > 0 {
		retries = opts.MaxRetries
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		Temperature: openaisdk.Float(float64(temperature)),
	}
	if maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(maxTokens))
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}

		completion, err := g.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Int("attempt", attempt).Str("model", g.model).Msg("completion attempt failed")
			continue
		}
		if len(completion.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in completion")
			continue
		}
		content := completion.Choices[0].Message.Content
		if strings.TrimSpace(content) == "" {
			lastErr = fmt.Errorf("empty completion content")
			continue
		}
		return content, nil
	}

	return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, lastErr)
}
