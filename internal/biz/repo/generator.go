package repo

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model produced no text
var ErrEmptyCompletion = errors.New("empty completion")

// GeneratorRepo is the generative text interface
type GeneratorRepo interface {
	// Generate returns a single completion for the prompt
	Generate(ctx context.Context, prompt string) (string, error)
}
