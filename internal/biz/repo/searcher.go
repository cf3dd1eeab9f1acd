package repo

import (
	"context"
	"errors"
)

// ErrSearchToolMissing is returned when the search binary is not installed
var ErrSearchToolMissing = errors.New("search tool not installed")

// SearcherRepo runs the username search tool
type SearcherRepo interface {
	// Search returns the raw tool output for the username.
	// A non-zero exit of the tool is not an error, the output is returned as is.
	Search(ctx context.Context, username string) (string, error)
}
