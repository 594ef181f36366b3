package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = openai.GPT4o

	systemPrompt = `You are an ADHD coach and mental health assistant. Your role is to:
1. Provide practical advice for managing ADHD symptoms
2. Suggest coping strategies and organizational techniques
3. Offer emotional support and encouragement
4. Help break down tasks into manageable steps
5. Share evidence-based ADHD management strategies

Keep responses concise, clear, and easy to follow. Use bullet points and short paragraphs.
Always maintain a supportive and understanding tone.`

	temperature = 0.7
	maxTokens   = 500
)

var (
	ErrNotConfigured = errors.New("chat completion is not configured")
	ErrEmptyReply    = errors.New("chat completion returned no content")
)

// Completer turns one user message into one assistant reply.
type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// OpenAICompleter talks to any server implementing the OpenAI chat
// completions API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(cfg OpenAIConfig) *OpenAICompleter {
	if cfg.APIKey == "" {
		return &OpenAICompleter{}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, text string) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
