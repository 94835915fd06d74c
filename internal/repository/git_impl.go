package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

const defaultTaggerName = "semtag"

// gitRepository is the go-git implementation of the TagRepository interface.
type gitRepository struct {
	repo   *git.Repository
	remote string
	token  string
	logger *zap.Logger
}

// NewGitRepository opens the repository containing dir.
func NewGitRepository(dir, remote, token string, logger *zap.Logger) (TagRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gitRepository{repo: repo, remote: remote, token: token, logger: logger}, nil
}

// ListTags returns all tag names.
func (r *gitRepository) ListTags(_ context.Context) ([]string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// CurrentBranch returns the short name of HEAD, or "HEAD" when detached.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// FetchRemote updates remote-tracking branches and tags.
func (r *gitRepository) FetchRemote(ctx context.Context) error {
	auth, err := r.getAuth()
	if err != nil {
		return err
	}
	err = r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: r.remote,
		Tags:       git.AllTags,
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch from %s: %w", r.remote, err)
	}
	return nil
}

// WorkingTreeStatus lists dirty paths followed by remote commits missing locally.
func (r *gitRepository) WorkingTreeStatus(_ context.Context, branch string) (string, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	w.Excludes = append(w.Excludes, r.userExcludes()...)
	status, err := w.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	var lines []string
	for path, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		lines = append(lines, fmt.Sprintf("%c%c %s", fileStatus.Staging, fileStatus.Worktree, path))
	}
	slices.Sort(lines)
	missing, err := r.missingCommits(branch)
	if err != nil {
		return "", err
	}
	return strings.Join(append(lines, missing...), "\n"), nil
}

// userExcludes loads the core.excludesFile patterns of the system and global
// git config, which Worktree.Status does not read on its own.
func (r *gitRepository) userExcludes() []gitignore.Pattern {
	root := osfs.New("/")
	var patterns []gitignore.Pattern
	for scope, load := range map[string]func(billy.Filesystem) ([]gitignore.Pattern, error){
		"system": gitignore.LoadSystemPatterns,
		"global": gitignore.LoadGlobalPatterns,
	} {
		ps, err := load(root)
		if err != nil {
			r.logger.Debug("Skipping excludes file", zap.String("scope", scope), zap.Error(err))
			continue
		}
		patterns = append(patterns, ps...)
	}
	return patterns
}

// missingCommits lists commits on <remote>/<branch> that <branch> does not contain.
func (r *gitRepository) missingCommits(branch string) ([]string, error) {
	localRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	remoteRef, err := r.repo.Reference(plumbing.NewRemoteReferenceName(r.remote, branch), true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s/%s: %w", r.remote, branch, err)
	}
	return r.commitsNotIn(remoteRef.Hash(), localRef.Hash())
}

// commitsNotIn walks history from tip and stops at the first commit reachable from base.
func (r *gitRepository) commitsNotIn(tip, base plumbing.Hash) ([]string, error) {
	if tip == base {
		return nil, nil
	}
	baseCommit, err := r.repo.CommitObject(base)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", base, err)
	}
	commits, err := r.repo.Log(&git.LogOptions{From: tip})
	if err != nil {
		return nil, fmt.Errorf("failed to get commits: %w", err)
	}
	var missing []string
	err = commits.ForEach(func(c *object.Commit) error {
		if c.Hash == base {
			return storer.ErrStop
		}
		contained, err := c.IsAncestor(baseCommit)
		if err != nil {
			return err
		}
		if contained {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		missing = append(missing, fmt.Sprintf("%s %s", c.Hash.String()[:7], subject))
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	return missing, nil
}

// CreateAnnotatedTag tags HEAD.
func (r *gitRepository) CreateAnnotatedTag(_ context.Context, name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
		Tagger:  r.tagger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// tagger builds the tag signature from git config, falling back to a fixed identity.
func (r *gitRepository) tagger() *object.Signature {
	sig := &object.Signature{Name: defaultTaggerName, When: time.Now()}
	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		r.logger.Debug("Could not read git config for tagger", zap.Error(err))
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	sig.Email = cfg.User.Email
	return sig
}

// PushTags pushes every local tag to the remote.
func (r *gitRepository) PushTags(ctx context.Context) error {
	auth, err := r.getAuth()
	if err != nil {
		return err
	}
	err = r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.remote,
		RefSpecs:   []config.RefSpec{"refs/tags/*:refs/tags/*"},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push tags to %s: %w", r.remote, err)
	}
	return nil
}

// DeleteTag removes a local tag.
func (r *gitRepository) DeleteTag(_ context.Context, name string) error {
	if err := r.repo.DeleteTag(name); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", name, err)
	}
	return nil
}

// getAuth returns token authentication for HTTP remotes. SSH and file
// remotes use the transport defaults.
func (r *gitRepository) getAuth() (transport.AuthMethod, error) {
	remote, err := r.repo.Remote(r.remote)
	if err != nil {
		return nil, fmt.Errorf("failed to get remote %s: %w", r.remote, err)
	}
	if r.token == "" {
		return nil, nil
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || !strings.HasPrefix(urls[0], "http") {
		return nil, nil
	}
	// Use x-access-token as username for GitHub token authentication
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.token,
	}, nil
}
