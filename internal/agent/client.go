// Package agent implements the Analyze/Mutate/Validate collaborators on top
// of an OpenAI-compatible chat completions API.
package agent

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient is the minimal completion surface the agents need. It exists so
// tests can substitute a fake.
type ChatClient interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}

// ClientConfig configures the chat client explicitly. Nothing here reads the
// environment; the caller resolves credentials and passes them in.
type ClientConfig struct {
	APIKey      string
	BaseURL     string // empty = api.openai.com; any OpenAI-compatible endpoint works
	Model       string
	Temperature float32
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

// NewClient creates a Client from explicit configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key must not be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model must not be empty")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends a system+user message pair and returns the assistant text.
func (c *Client) Complete(ctx context.Context, system string, user string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
	if system != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
		}, messages...)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
