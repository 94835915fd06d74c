// Package semtag resolves the next semantic version of a git repository and
// optionally records it as an annotated tag.
package semtag

import (
	"context"

	"github.com/compozy/semtag/internal/domain"
	"github.com/compozy/semtag/internal/orchestrator"
	"github.com/compozy/semtag/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Errors returned by Run, for use with errors.Is.
var (
	ErrInvalidVersion        = domain.ErrInvalidVersion
	ErrInvalidRequest        = domain.ErrInvalidRequest
	ErrNotGreaterThanCurrent = domain.ErrNotGreaterThanCurrent
	ErrNoBaseVersion         = domain.ErrNoBaseVersion
	ErrNotSynchronized       = domain.ErrNotSynchronized
	ErrRepositoryQueryFailed = domain.ErrRepositoryQueryFailed
	ErrTagConflict           = domain.ErrTagConflict
)

// Options configures Run. Zero values fall back to the defaults: base 0.0.0,
// message "%s", dir ".", remote "origin" and the go-git backend.
type Options struct {
	Base    string
	Filter  string
	Tag     bool
	Publish bool
	Branch  string
	Message string
	Preid   string
	Dir     string
	Remote  string
	// Backend is "go-git" or "git".
	Backend string
	// GithubToken enables the remote tag check when GithubOwner and GithubRepo are set.
	// It is also used to authenticate pushes to https remotes.
	GithubToken string
	GithubOwner string
	GithubRepo  string
	// Journal records tagging sessions under .git/semtag.
	Journal bool
	Logger  *zap.Logger
}

func (o Options) release() domain.ReleaseOptions {
	return domain.DefaultReleaseOptions().Merge(domain.ReleaseOptions{
		Base:    o.Base,
		Filter:  o.Filter,
		Tag:     o.Tag,
		Publish: o.Publish,
		Branch:  o.Branch,
		Message: o.Message,
		Preid:   o.Preid,
		Dir:     o.Dir,
		Remote:  o.Remote,
	})
}

// Run returns the current version when request is empty, or else resolves
// request (an explicit version or a bump keyword) and, with Tag or Publish,
// tags the repository. The returned version never carries the "v" prefix; an
// empty string means no version tag exists yet.
func Run(ctx context.Context, request string, opts Options) (string, error) {
	release := opts.release()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tagRepo, err := repository.NewTagRepository(opts.Backend, release.Dir, release.Remote, opts.GithubToken, log)
	if err != nil {
		return "", err
	}
	var registry repository.TagRegistry
	if opts.GithubToken != "" && opts.GithubOwner != "" && opts.GithubRepo != "" {
		registry, err = repository.NewGithubTagRegistry(opts.GithubToken, opts.GithubOwner, opts.GithubRepo)
		if err != nil {
			log.Warn("GitHub tag registry disabled", zap.Error(err))
			registry = nil
		}
	}
	var sessions repository.SessionRepository
	if opts.Journal {
		if root, err := repository.RootDir(release.Dir); err == nil {
			sessions = repository.NewJSONSessionRepository(afero.NewOsFs(), repository.SessionDir(root))
		}
	}
	publisher := orchestrator.NewTagPublisher(tagRepo, registry, sessions, log)
	if request == "" {
		current, err := publisher.Current(ctx, release)
		if err != nil || current == nil {
			return "", err
		}
		return current.String(), nil
	}
	next, err := publisher.Publish(ctx, request, release)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}
