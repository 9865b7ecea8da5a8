package client

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Provider identifiers, matching the ids in the embedded model catalog.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// claudeMaxTokens caps Anthropic completions; long-scene scripts fit
// comfortably under this.
const claudeMaxTokens = 8192

// Config selects the chat model backing one LLMClient.
type Config struct {
	Provider string
	Model    string
	APIKey   string
}

// LLMClient wraps a provider chat model behind a uniform stream/complete
// surface. One client serves one (provider, model, key) triple; callers
// construct a fresh client per request site.
type LLMClient struct {
	chatModel einomodel.BaseChatModel
	provider  string
	model     string
}

// New builds the chat model for the configured provider. The API key must
// already be resolved; an empty key is rejected here so no network setup is
// ever attempted without one.
func New(ctx context.Context, cfg Config) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	var (
		chatModel einomodel.BaseChatModel
		err       error
	)
	switch cfg.Provider {
	case ProviderOpenAI:
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	case ProviderGemini:
		var genaiClient *genai.Client
		genaiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err == nil {
			chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
				Client: genaiClient,
				Model:  cfg.Model,
			})
		}
	case ProviderAnthropic:
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: claudeMaxTokens,
		})
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("creating chat model failed")
		return nil, fmt.Errorf("creating %s chat model: %w", cfg.Provider, err)
	}

	return &LLMClient{chatModel: chatModel, provider: cfg.Provider, model: cfg.Model}, nil
}

// Model returns the API model name this client talks to.
func (c *LLMClient) Model() string {
	return c.model
}

// Stream sends the composed request and returns a forward-only,
// non-restartable reader of text fragments. Fragments arrive in order and
// the reader terminates with io.EOF. A single attempt only; the caller
// decides what a failed or empty stream means.
func (c *LLMClient) Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[string], error) {
	reader, err := c.chatModel.Stream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("starting %s stream: %w", c.provider, err)
	}
	return schema.StreamReaderWithConvert(reader, func(msg *schema.Message) (string, error) {
		if msg == nil || msg.Content == "" {
			return "", schema.ErrNoValue
		}
		return msg.Content, nil
	}), nil
}

// Complete runs a single non-streamed completion, used by metadata requests.
func (c *LLMClient) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	msg, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.provider, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%s completion returned no message", c.provider)
	}
	return msg.Content, nil
}
