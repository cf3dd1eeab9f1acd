package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// fileRepo implements the file repository on the local filesystem
type fileRepo struct {
	exportDir string
	reportDir string
}

// NewFileRepo creates a file repository.
// Chat exports go to exportDir, search reports to reportDir.
func NewFileRepo(exportDir, reportDir string) repo.FileRepo {
	if exportDir == "" {
		exportDir = "."
	}
	if reportDir == "" {
		reportDir = os.TempDir()
	}
	return &fileRepo{exportDir: exportDir, reportDir: reportDir}
}

// ExportChat writes the messages as an indented JSON array
func (r *fileRepo) ExportChat(ctx context.Context, chatID int64, msgs []domain.Message) (string, error) {
	if err := os.MkdirAll(r.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	exported := make([]domain.ExportedMessage, 0, len(msgs))
	for i := range msgs {
		exported = append(exported, msgs[i].ToExported())
	}

	path := filepath.Join(r.exportDir, fmt.Sprintf("chat_%d.json", chatID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(exported); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// WriteSearchReport writes the report text
func (r *fileRepo) WriteSearchReport(ctx context.Context, report *domain.SearchReport) (string, error) {
	if err := domain.ValidateUsername(report.Username); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.reportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(r.reportDir, report.FileName())
	if err := os.WriteFile(path, []byte(report.Text()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Remove deletes a file
func (r *fileRepo) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
