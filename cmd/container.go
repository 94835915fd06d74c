package cmd

import (
	"github.com/compozy/semtag/internal/config"
	"github.com/compozy/semtag/internal/logger"
	"github.com/compozy/semtag/internal/orchestrator"
	"github.com/compozy/semtag/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
type container struct {
	cfg       *config.Config
	logger    *zap.Logger
	publisher *orchestrator.TagPublisher
}

// newContainer creates a new container with all the dependencies.
func newContainer(flags *pflag.FlagSet) (*container, error) {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, err
	}

	tagRepo, err := repository.NewTagRepository(cfg.Backend, cfg.Dir, cfg.Remote, cfg.GithubToken, log)
	if err != nil {
		return nil, err
	}

	// GitHub registry is optional; a bad token or slug only disables it
	var registry repository.TagRegistry
	if err := cfg.TokenProblem(); err != nil {
		log.Warn("Ignoring GitHub token; remote tag checks disabled", zap.Error(err))
	} else if cfg.HasGitHub() {
		registry, err = repository.NewGithubTagRegistry(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			log.Warn("GitHub tag registry disabled", zap.Error(err))
			registry = nil
		}
	}

	var sessions repository.SessionRepository
	if cfg.Journal {
		root, err := repository.RootDir(cfg.Dir)
		if err != nil {
			log.Warn("Session journal disabled", zap.Error(err))
		} else {
			fsRepo := repository.FileSystemRepository(afero.NewOsFs())
			sessions = repository.NewJSONSessionRepository(fsRepo, repository.SessionDir(root))
		}
	}

	return &container{
		cfg:       cfg,
		logger:    log,
		publisher: orchestrator.NewTagPublisher(tagRepo, registry, sessions, log),
	}, nil
}

func (c *container) close() {
	_ = c.logger.Sync()
}
