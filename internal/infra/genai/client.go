package genai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenAI-compatible endpoint of the Gemini API
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-2.5-flash"
)

// Client is the Gemini client using OpenAI-compatible interface
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new Gemini client
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Complete sends a single user prompt and returns the first choice.
// No timeout is applied beyond ctx.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
