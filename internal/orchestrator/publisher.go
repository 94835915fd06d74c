package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/semtag/internal/domain"
	"github.com/compozy/semtag/internal/logger"
	"github.com/compozy/semtag/internal/repository"
	"github.com/compozy/semtag/internal/usecase"
	"go.uber.org/zap"
)

// TagPublisher resolves the next version and, when asked, records it as a tag.
type TagPublisher struct {
	tagRepo  repository.TagRepository
	registry repository.TagRegistry
	sessions repository.SessionRepository
	latest   *usecase.LatestVersionUseCase
	guard    *usecase.SyncGuard
	resolver usecase.VersionResolver
	logger   *zap.Logger
}

// NewTagPublisher creates a publisher. registry and sessions may be nil.
func NewTagPublisher(
	tagRepo repository.TagRepository,
	registry repository.TagRegistry,
	sessions repository.SessionRepository,
	log *zap.Logger,
) *TagPublisher {
	if registry == nil {
		registry = repository.NewNoopTagRegistry()
	}
	return &TagPublisher{
		tagRepo:  tagRepo,
		registry: registry,
		sessions: sessions,
		latest:   &usecase.LatestVersionUseCase{TagRepo: tagRepo},
		guard:    &usecase.SyncGuard{TagRepo: tagRepo},
		logger:   logger.OrNop(log),
	}
}

// Current returns the highest version tag matching opts.Filter, or nil.
func (p *TagPublisher) Current(ctx context.Context, opts domain.ReleaseOptions) (*domain.Version, error) {
	return p.latest.Execute(ctx, opts.Filter)
}

// Publish resolves request against the current version. With opts.Tag it then
// checks sync, creates the annotated tag and, with opts.Publish, pushes tags.
// Each step runs only after the previous one succeeded.
func (p *TagPublisher) Publish(
	ctx context.Context,
	request string,
	opts domain.ReleaseOptions,
) (*domain.Version, error) {
	opts = opts.Normalize()
	current, err := p.Current(ctx, opts)
	if err != nil {
		return nil, err
	}
	req, err := domain.ParseBumpRequest(request, opts.Preid)
	if err != nil {
		return nil, err
	}
	next, err := p.resolver.Resolve(req, current, opts)
	if err != nil {
		return nil, err
	}
	log := p.logger.With(zap.String("version", next.String()))
	if current != nil {
		log = log.With(zap.String("current", current.String()))
	}
	if !opts.Tag {
		log.Debug("Resolved version without tagging")
		return next, nil
	}
	exec := p.newExecutor(next, opts)
	if err := exec.Execute(ctx); err != nil {
		return nil, err
	}
	log.Info("Tagged version",
		zap.String("tag", next.TagName()),
		zap.String("branch", exec.Session().Branch),
		zap.Bool("pushed", opts.Publish),
	)
	return next, nil
}

func (p *TagPublisher) newExecutor(next *domain.Version, opts domain.ReleaseOptions) *StepExecutor {
	exec := NewStepExecutor(p.sessions, p.logger)
	session := exec.Session()
	session.Version = next.String()
	session.TagName = next.TagName()
	session.Message = opts.FormatMessage(next.String())
	session.Remote = opts.Remote
	session.Publish = opts.Publish

	exec.AddStep(Step{
		Name: "check sync",
		Type: domain.OperationTypeCheckSync,
		Execute: func(ctx context.Context) error {
			verdict, err := p.guard.CheckSync(ctx, opts)
			session.Branch = verdict.Branch
			if err != nil {
				return err
			}
			if !verdict.InSync {
				p.logger.Debug("Repository not in sync", zap.String("branch", verdict.Branch),
					zap.String("details", verdict.Details))
				return &domain.SyncError{Branch: verdict.Branch, Details: verdict.Details}
			}
			return nil
		},
	})
	if opts.Publish {
		exec.AddStep(Step{
			Name: "check remote tag",
			Type: domain.OperationTypeCheckRemote,
			Execute: func(ctx context.Context) error {
				exists, err := p.registry.RemoteTagExists(ctx, session.TagName)
				if err != nil {
					return domain.QueryError("remote tag lookup", err)
				}
				if exists {
					return fmt.Errorf("%w: %s", domain.ErrTagConflict, session.TagName)
				}
				return nil
			},
		})
	}
	exec.AddStep(Step{
		Name: "create tag",
		Type: domain.OperationTypeCreateTag,
		Execute: func(ctx context.Context) error {
			if err := p.tagRepo.CreateAnnotatedTag(ctx, session.TagName, session.Message); err != nil {
				return domain.QueryError("create tag", err)
			}
			return nil
		},
	})
	if opts.Publish {
		exec.AddStep(Step{
			Name: "push tags",
			Type: domain.OperationTypePushTags,
			Execute: func(ctx context.Context) error {
				if err := p.tagRepo.PushTags(ctx); err != nil {
					return domain.QueryError("push tags", err)
				}
				return nil
			},
		})
	}
	return exec
}
