package data

import (
	"context"
	"strings"

	"github.com/sleepguard/sleepguard/internal/biz/repo"
	"github.com/sleepguard/sleepguard/internal/infra/genai"
)

// geminiRepo implements the generator repository
type geminiRepo struct {
	client *genai.Client
}

// NewGeminiRepo creates a Gemini repository
func NewGeminiRepo(client *genai.Client) repo.GeneratorRepo {
	return &geminiRepo{client: client}
}

// Generate returns a single completion, ErrEmptyCompletion when blank
func (r *geminiRepo) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := r.client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", repo.ErrEmptyCompletion
	}
	return text, nil
}
