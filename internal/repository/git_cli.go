package repository

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner abstracts command execution so the git CLI backend can be tested
// without a git binary. Output is returned on success and on failure.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger *zap.Logger
}

// Run executes name with args and returns its combined output.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if r.Logger != nil {
		r.Logger.Debug("Ran command",
			zap.String("command", name),
			zap.Strings("args", args),
			zap.Int("output_length", len(output)),
			zap.Error(err))
	}
	return output, err
}

// cliRepository implements TagRepository by shelling out to git.
type cliRepository struct {
	runner Runner
	dir    string
	remote string
}

// NewCLIRepository creates a TagRepository backed by the git binary.
func NewCLIRepository(runner Runner, dir, remote string) TagRepository {
	return &cliRepository{runner: runner, dir: dir, remote: remote}
}

// git runs a git subcommand in the repository directory and returns trimmed output.
func (r *cliRepository) git(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, "git", append([]string{"-C", r.dir}, args...)...)
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed != "" {
			return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, trimmed)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return trimmed, nil
}

// ListTags returns all tag names.
func (r *cliRepository) ListTags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CurrentBranch returns the abbreviated name of HEAD.
func (r *cliRepository) CurrentBranch(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// FetchRemote fetches the configured remote.
func (r *cliRepository) FetchRemote(ctx context.Context) error {
	_, err := r.git(ctx, "fetch", r.remote)
	return err
}

// WorkingTreeStatus combines porcelain status with commits only the remote has.
func (r *cliRepository) WorkingTreeStatus(ctx context.Context, branch string) (string, error) {
	status, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	behind, err := r.git(ctx, "log", fmt.Sprintf("%s..%s/%s", branch, r.remote, branch), "--oneline")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join([]string{status, behind}, "\n")), nil
}

// CreateAnnotatedTag tags HEAD with a message.
func (r *cliRepository) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	_, err := r.git(ctx, "tag", "-a", name, "-m", message)
	return err
}

// PushTags pushes every local tag to the remote.
func (r *cliRepository) PushTags(ctx context.Context) error {
	_, err := r.git(ctx, "push", r.remote, "--tags")
	return err
}

// DeleteTag removes a local tag.
func (r *cliRepository) DeleteTag(ctx context.Context, name string) error {
	_, err := r.git(ctx, "tag", "-d", name)
	return err
}
