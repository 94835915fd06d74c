package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"github.com/compozy/semtag/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockTagRepository struct{ mock.Mock }

func (m *mockTagRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (m *mockTagRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockTagRepository) FetchRemote(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTagRepository) WorkingTreeStatus(ctx context.Context, branch string) (string, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Error(1)
}

func (m *mockTagRepository) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	args := m.Called(ctx, name, message)
	return args.Error(0)
}

func (m *mockTagRepository) PushTags(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTagRepository) DeleteTag(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type mockTagRegistry struct{ mock.Mock }

func (m *mockTagRegistry) RemoteTagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

type mockSessionRepository struct{ mock.Mock }

func (m *mockSessionRepository) Save(ctx context.Context, session *domain.PublishSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) Load(ctx context.Context, sessionID string) (*domain.PublishSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishSession), args.Error(1)
}

func (m *mockSessionRepository) LoadLatest(ctx context.Context) (*domain.PublishSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishSession), args.Error(1)
}

func (m *mockSessionRepository) List(ctx context.Context) ([]*domain.PublishSession, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]*domain.PublishSession)
	return sessions, args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// memoryTagRepository is a stateful in-sync repository for round-trip checks.
type memoryTagRepository struct {
	tags   []string
	pushed []string
	calls  []string
}

func (r *memoryTagRepository) ListTags(context.Context) ([]string, error) {
	r.calls = append(r.calls, "ListTags")
	return slices.Clone(r.tags), nil
}

func (r *memoryTagRepository) CurrentBranch(context.Context) (string, error) {
	r.calls = append(r.calls, "CurrentBranch")
	return "main", nil
}

func (r *memoryTagRepository) FetchRemote(context.Context) error {
	r.calls = append(r.calls, "FetchRemote")
	return nil
}

func (r *memoryTagRepository) WorkingTreeStatus(context.Context, string) (string, error) {
	r.calls = append(r.calls, "WorkingTreeStatus")
	return "", nil
}

func (r *memoryTagRepository) CreateAnnotatedTag(_ context.Context, name, _ string) error {
	r.calls = append(r.calls, "CreateAnnotatedTag")
	if slices.Contains(r.tags, name) {
		return fmt.Errorf("tag %s already exists", name)
	}
	r.tags = append(r.tags, name)
	return nil
}

func (r *memoryTagRepository) PushTags(context.Context) error {
	r.calls = append(r.calls, "PushTags")
	r.pushed = slices.Clone(r.tags)
	return nil
}

func (r *memoryTagRepository) DeleteTag(_ context.Context, name string) error {
	r.calls = append(r.calls, "DeleteTag")
	r.tags = slices.DeleteFunc(r.tags, func(t string) bool { return t == name })
	return nil
}
