package repository

import (
	"fmt"
	"os/exec"

	"github.com/compozy/semtag/internal/domain"

	"go.uber.org/zap"
)

// NewTagRepository selects the backend implementation by name.
func NewTagRepository(backend, dir, remote, token string, logger *zap.Logger) (TagRepository, error) {
	switch backend {
	case "", domain.BackendGoGit:
		return NewGitRepository(dir, remote, token, logger)
	case domain.BackendCLI:
		if _, err := exec.LookPath("git"); err != nil {
			return nil, fmt.Errorf("git binary not found: %w", err)
		}
		return NewCLIRepository(ExecRunner{Logger: logger}, dir, remote), nil
	default:
		return nil, fmt.Errorf("unknown repository backend %q", backend)
	}
}
