package repo

import (
	"context"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
)

// FileRepo persists exports and reports on the local filesystem
type FileRepo interface {
	// ExportChat writes messages as chat_<chatID>.json and returns the file path
	ExportChat(ctx context.Context, chatID int64, msgs []domain.Message) (string, error)

	// WriteSearchReport writes the report text and returns the file path
	WriteSearchReport(ctx context.Context, report *domain.SearchReport) (string, error)

	// Remove deletes a file written by this repo
	Remove(path string) error
}
