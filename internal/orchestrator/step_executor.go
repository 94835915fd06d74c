package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/semtag/internal/domain"
	"github.com/compozy/semtag/internal/logger"
	"github.com/compozy/semtag/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is one write-gated stage of a publish run.
type Step struct {
	Name    string
	Type    domain.OperationType
	Execute func(ctx context.Context) error
}

// StepExecutor runs steps strictly in order, stopping at the first failure,
// and journals progress when a session repository is configured.
type StepExecutor struct {
	session  *domain.PublishSession
	sessions repository.SessionRepository
	steps    []Step
	logger   *zap.Logger
}

// NewStepExecutor starts a new session. sessions may be nil to run without a journal.
func NewStepExecutor(sessions repository.SessionRepository, log *zap.Logger) *StepExecutor {
	return &StepExecutor{
		session:  domain.NewPublishSession(uuid.New().String()),
		sessions: sessions,
		logger:   logger.OrNop(log),
	}
}

// LoadStepExecutor continues a recorded session. An empty sessionID selects the latest one.
func LoadStepExecutor(
	ctx context.Context,
	sessions repository.SessionRepository,
	sessionID string,
	log *zap.Logger,
) (*StepExecutor, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session journal is disabled")
	}
	var (
		session *domain.PublishSession
		err     error
	)
	if sessionID == "" {
		session, err = sessions.LoadLatest(ctx)
	} else {
		session, err = sessions.Load(ctx, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &StepExecutor{session: session, sessions: sessions, logger: logger.OrNop(log)}, nil
}

// AddStep appends a step. A step whose operation is already recorded reuses that record.
func (e *StepExecutor) AddStep(step Step) {
	e.steps = append(e.steps, step)
	if e.session.Operation(step.Type) == nil {
		e.session.AddOperation(step.Type)
	}
}

// Execute runs every step not yet completed. The failing step's error is returned unchanged.
func (e *StepExecutor) Execute(ctx context.Context) error {
	e.session.Status = domain.SessionStatusRunning
	e.save(ctx)
	for _, step := range e.steps {
		if e.session.Succeeded(step.Type) {
			continue
		}
		log := e.logger.With(zap.String("session_id", e.session.SessionID), zap.String("step", step.Name))
		e.session.MarkOperationStarted(step.Type)
		e.save(ctx)
		log.Debug("Running step")
		if err := step.Execute(ctx); err != nil {
			e.session.MarkOperationFailed(step.Type, err)
			e.save(ctx)
			log.Debug("Step failed", zap.Error(err))
			return err
		}
		e.session.MarkOperationCompleted(step.Type)
		e.save(ctx)
	}
	e.session.Status = domain.SessionStatusCompleted
	e.session.Error = ""
	e.save(ctx)
	return nil
}

// Session returns the journal entry of this run.
func (e *StepExecutor) Session() *domain.PublishSession {
	return e.session
}

// save persists the session; a failing journal never fails the run.
func (e *StepExecutor) save(ctx context.Context) {
	if e.sessions == nil {
		return
	}
	if err := e.sessions.Save(ctx, e.session); err != nil {
		e.logger.Warn("Failed to save session", zap.String("session_id", e.session.SessionID), zap.Error(err))
	}
}
