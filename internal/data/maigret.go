package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"

	"github.com/sleepguard/sleepguard/internal/biz/domain"
	"github.com/sleepguard/sleepguard/internal/biz/repo"
)

// MaigretConfig contains the search tool configuration
type MaigretConfig struct {
	Binary    string
	Timeout   int // per-site timeout in seconds
	OutputDir string
}

// maigretRepo implements the searcher repository by running maigret
type maigretRepo struct {
	cfg MaigretConfig
}

// NewMaigretRepo creates a maigret repository
func NewMaigretRepo(cfg MaigretConfig) repo.SearcherRepo {
	if cfg.Binary == "" {
		cfg.Binary = "maigret"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "searches"
	}
	return &maigretRepo{cfg: cfg}
}

// Search runs the tool and returns its combined output.
// A non-zero exit is not an error: the output is parsed as is.
func (r *maigretRepo) Search(ctx context.Context, username string) (string, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, r.cfg.Binary, username,
		"--timeout", strconv.Itoa(r.cfg.Timeout),
		"--folderoutput", r.cfg.OutputDir,
		"--json", "simple",
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", r.cfg.Binary, repo.ErrSearchToolMissing)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run %s: %w", r.cfg.Binary, err)
		}
	}
	return string(out), nil
}
