package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/customsbot-poc/server/internal/core/error"
	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/prompts"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// GeminiConfig holds everything needed to construct the Gemini-backed oracle.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   model.OracleModelConfig
}

// Gemini implements model.Oracle and model.CodePredictor on top of a single
// Gemini chat model. Both the deterministic engine's judgment calls (scenario
// detection, correction intent, slot extraction) and commodity-code
// prediction go through Complete.
type Gemini struct {
	chatModel  einomodel.BaseChatModel
	modelName  string
	maxRetries int
}

// NewGemini creates the genai client and wraps it in an Eino chat model.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating oracle chat model")
		return nil, fmt.Errorf("error creating oracle chat model: %w", err)
	}

	return &Gemini{
		chatModel:  chatModel,
		modelName:  cfg.Model.Model,
		maxRetries: cfg.Model.MaxRateLimitRetries,
	}, nil
}

// Complete sends a single-shot prompt and returns the trimmed text reply.
// Rate-limit responses are retried within the configured bound; every other
// failure propagates to the caller, whose fallback policy decides what to do.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	msgs := []*schema.Message{schema.UserMessage(prompt)}

	var out *schema.Message
	var err error
	for attempt := 0; ; attempt++ {
		out, err = g.chatModel.Generate(ctx, msgs)
		if err == nil {
			break
		}
		if attempt >= g.maxRetries || !isRateLimited(err) {
			logx.Error().Err(err).Str("model", g.modelName).Msg("completion failed")
			return "", errx.WrapOracle(err)
		}
		logx.Warn().Err(err).Int("attempt", attempt+1).Msg("rate limited, retrying completion")
	}
	if out == nil {
		return "", errx.WrapOracle(fmt.Errorf("empty completion"))
	}

	g.logUsage(out)
	return strings.TrimSpace(out.Content), nil
}

// PredictCommodityCodes asks for a ranked (rank, 6-digit code, confidence%)
// listing for the adapter to parse.
func (g *Gemini) PredictCommodityCodes(ctx context.Context, description string) (string, error) {
	return g.Complete(ctx, prompts.ClassifyCodes(description))
}

func (g *Gemini) logUsage(out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	pricing := model.ResolvePricing(g.modelName)
	inC, outC, totalC := model.ComputeCost(usage, pricing)
	logx.Debug().
		Str("model", g.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit")
}

var (
	_ model.Oracle        = (*Gemini)(nil)
	_ model.CodePredictor = (*Gemini)(nil)
)
