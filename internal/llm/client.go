package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/aicmt/aicmt/internal/git"
)

// Provider selects the model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Options configures a Client. APIKey is required; everything else has a
// usable zero value.
type Options struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Model    string

	// AnalysisPrompt replaces the built-in system prompt when set.
	AnalysisPrompt string

	// NumCommits pins the number of groups the model must return; 0 lets
	// the model decide.
	NumCommits int

	// RequestsPerMinute throttles completion calls client-side; 0 disables
	// throttling.
	RequestsPerMinute int
}

// Client talks to a chat-completion backend and turns batches of working-tree
// changes into proposed commit groups. All provider failures leave the client
// already classified as *Error; callers branch on Kind, never on message text.
type Client struct {
	provider     Provider
	openaiClient *openai.Client
	geminiClient *GeminiClient
	model        string
	baseURL      string
	systemPrompt string
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	logger := slog.Default().With("component", "llm")

	c := &Client{
		provider:     opts.Provider,
		model:        opts.Model,
		baseURL:      opts.BaseURL,
		systemPrompt: buildSystemPrompt(opts.AnalysisPrompt, opts.NumCommits),
		logger:       logger,
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	switch opts.Provider {
	case ProviderGemini:
		if c.model == "" {
			c.model = defaultGeminiModel
		}
		geminiClient, err := NewGeminiClient(ctx, opts.APIKey, c.model)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		c.geminiClient = geminiClient
	case ProviderOpenAI, "":
		c.provider = ProviderOpenAI
		if c.model == "" {
			c.model = defaultOpenAIModel
		}
		cfg := openai.DefaultConfig(opts.APIKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		c.openaiClient = openai.NewClientWithConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}

	logger.Debug("client initialized", "provider", c.provider, "model", c.model)
	return c, nil
}

// Provider returns the active backend.
func (c *Client) Provider() Provider { return c.provider }

// Model returns the model name completions are sent to.
func (c *Client) Model() string { return c.model }

// BaseURL returns the configured API endpoint, or "" for the provider default.
func (c *Client) BaseURL() string { return c.baseURL }

// AnalyzeChanges sends one batch of changes to the model and returns the
// proposed commit groups. Errors are classified: IsContextLength(err) means
// the batch was too large and a smaller one may succeed.
func (c *Client) AnalyzeChanges(ctx context.Context, changes []git.Change) ([]CommitGroup, error) {
	requestID := uuid.New().String()
	logger := c.logger.With("request_id", requestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	userPrompt := buildUserPrompt(changes)
	logger.Debug("analyzing batch", "changes", len(changes), "prompt_length", len(userPrompt))

	var content string
	var err error
	switch c.provider {
	case ProviderGemini:
		content, err = c.geminiClient.CompleteJSON(ctx, c.systemPrompt, userPrompt)
		if err != nil {
			return nil, classifyGeminiError(err)
		}
	default:
		content, err = c.completeOpenAIJSON(ctx, userPrompt)
		if err != nil {
			return nil, err
		}
	}

	groups, err := parseGroupingResponse(content)
	if err != nil {
		return nil, err
	}

	logger.Debug("batch analyzed", "groups", len(groups))
	return groups, nil
}

// completeOpenAIJSON runs one JSON-mode chat completion. The raw SDK error
// is classified before it is returned.
func (c *Client) completeOpenAIJSON(ctx context.Context, userPrompt string) (string, error) {
	resp, err := c.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.5,
	})

	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindBadResponse, Message: "API returned an empty response"}
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &Error{Kind: KindBadResponse, Message: "API returned empty response content"}
	}

	c.logger.Debug("openai json completion",
		"model", c.model,
		"prompt_length", len(userPrompt),
		"response_length", len(content),
		"tokens_used", resp.Usage.TotalTokens,
	)

	return content, nil
}
