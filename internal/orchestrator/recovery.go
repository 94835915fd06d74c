package orchestrator

import (
	"context"
	"fmt"

	"github.com/compozy/semtag/internal/domain"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// History lists recorded sessions, newest first.
func (p *TagPublisher) History(ctx context.Context) ([]*domain.PublishSession, error) {
	if p.sessions == nil {
		return nil, fmt.Errorf("session journal is disabled")
	}
	return p.sessions.List(ctx)
}

// Resume pushes the tag of a session that was created locally but never
// pushed. Pushing tags is idempotent, so the push is retried with backoff.
func (p *TagPublisher) Resume(ctx context.Context, sessionID string) (*domain.PublishSession, error) {
	exec, err := LoadStepExecutor(ctx, p.sessions, sessionID, p.logger)
	if err != nil {
		return nil, err
	}
	session := exec.Session()
	if !session.Publish || !session.NeedsPush() {
		return session, fmt.Errorf("session %s has no pending push", session.SessionID)
	}
	session.ResetOperation(domain.OperationTypePushTags)
	exec.AddStep(Step{
		Name: "push tags",
		Type: domain.OperationTypePushTags,
		Execute: func(ctx context.Context) error {
			return p.withRetry(ctx, "push tags", p.tagRepo.PushTags)
		},
	})
	if err := exec.Execute(ctx); err != nil {
		return session, err
	}
	p.logger.Info("Resumed push", zap.String("session_id", session.SessionID), zap.String("tag", session.TagName))
	return session, nil
}

// Rollback deletes the local tag of a session whose push never completed and
// drops the session from the journal.
func (p *TagPublisher) Rollback(ctx context.Context, sessionID string) (*domain.PublishSession, error) {
	exec, err := LoadStepExecutor(ctx, p.sessions, sessionID, p.logger)
	if err != nil {
		return nil, err
	}
	session := exec.Session()
	if session.Succeeded(domain.OperationTypePushTags) {
		return session, fmt.Errorf("tag %s was already pushed to %s; refusing to delete it", session.TagName, session.Remote)
	}
	if !session.Succeeded(domain.OperationTypeCreateTag) {
		p.logger.Info("Nothing to roll back", zap.String("session_id", session.SessionID))
		return session, nil
	}
	if err := p.tagRepo.DeleteTag(ctx, session.TagName); err != nil {
		return session, domain.QueryError("delete tag", err)
	}
	session.MarkOperationRolledBack(domain.OperationTypeCreateTag)
	session.Status = domain.SessionStatusRolledBack
	if err := p.sessions.Delete(ctx, session.SessionID); err != nil {
		p.logger.Warn("Failed to drop rolled back session", zap.String("session_id", session.SessionID), zap.Error(err))
	}
	p.logger.Info("Rolled back tag", zap.String("session_id", session.SessionID), zap.String("tag", session.TagName))
	return session, nil
}

func (p *TagPublisher) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			p.logger.Debug("Attempt failed", zap.String("step", op), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return domain.QueryError(op, err)
	}
	return nil
}
