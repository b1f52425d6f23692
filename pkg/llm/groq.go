package llm

import (
	"context"
	"errors"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

var errNoChoices = errors.New("no completion choices returned")

const (
	// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	defaultGroqModel = "mixtral-8x7b-32768"
)

// GroqClient implements Client against Groq's OpenAI-compatible
// chat completions API.
type GroqClient struct {
	api   *openai.Client
	model string
}

// NewGroqClient creates a Groq-backed client. Empty model and baseURL fall
// back to defaults; baseURL is overridable so tests can point at a local
// fake endpoint.
func NewGroqClient(apiKey, model, baseURL string) *GroqClient {
	if model == "" {
		model = defaultGroqModel
	}
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &GroqClient{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Generate sends a chat completion request and returns one reply per choice.
func (c *GroqClient) Generate(ctx context.Context, req Request) ([]Reply, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	// go-openai marshals Temperature with omitempty, so a literal 0 would be
	// dropped from the request body and the provider would fall back to its
	// default. The smallest positive float32 survives marshalling and is
	// indistinguishable from 0 for sampling purposes.
	temperature := req.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, &UnavailableError{Provider: "groq", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &UnavailableError{Provider: "groq", Err: errNoChoices}
	}

	replies := make([]Reply, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		replies = append(replies, Reply{
			Text: choice.Message.Content,
			Meta: map[string]any{"finish_reason": string(choice.FinishReason)},
		})
	}
	return replies, nil
}
