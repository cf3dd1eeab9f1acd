package data

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

func TestMaigretRepo_MissingBinary(t *testing.T) {
	tests := []string{
		"definitely-not-a-real-search-tool",
		filepath.Join(t.TempDir(), "missing", "maigret"),
	}

	for _, binary := range tests {
		r := NewMaigretRepo(MaigretConfig{Binary: binary})
		_, err := r.Search(context.Background(), "alice")
		if !errors.Is(err, repo.ErrSearchToolMissing) {
			t.Errorf("%s: expected ErrSearchToolMissing, got %v", binary, err)
		}
	}
}

func TestMaigretRepo_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}

	r := NewMaigretRepo(MaigretConfig{Binary: "false"})
	out, err := r.Search(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Expected no error for non-zero exit, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected empty output, got %q", out)
	}
}

func TestMaigretRepo_Arguments(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	r := NewMaigretRepo(MaigretConfig{Binary: "echo", Timeout: 7, OutputDir: "out"})
	out, err := r.Search(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "alice --timeout 7 --folderoutput out --json simple"
	if strings.TrimSpace(out) != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestMaigretRepo_Defaults(t *testing.T) {
	r := NewMaigretRepo(MaigretConfig{}).(*maigretRepo)
	if r.cfg.Binary != "maigret" || r.cfg.Timeout != 10 || r.cfg.OutputDir != "searches" {
		t.Errorf("Unexpected defaults %+v", r.cfg)
	}
}

func TestMaigretRepo_RejectsOptionLikeName(t *testing.T) {
	r := NewMaigretRepo(MaigretConfig{Binary: "echo"})
	out, err := r.Search(context.Background(), "--version")
	if !errors.Is(err, domain.ErrInvalidUsername) {
		t.Errorf("Expected ErrInvalidUsername, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}
