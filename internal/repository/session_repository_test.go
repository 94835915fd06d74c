package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/compozy/semtag/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionRepository(t *testing.T) (SessionRepository, string) {
	dir := filepath.Join(t.TempDir(), "sessions")
	return NewJSONSessionRepository(afero.NewOsFs(), dir), dir
}

func TestJSONSessionRepository(t *testing.T) {
	ctx := context.Background()
	t.Run("Should save and load a session", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		session := domain.NewPublishSession("abc")
		session.Version = "1.3.0"
		session.TagName = "v1.3.0"
		session.AddOperation(domain.OperationTypeCreateTag)
		require.NoError(t, repo.Save(ctx, session))
		loaded, err := repo.Load(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "v1.3.0", loaded.TagName)
		require.Len(t, loaded.Operations, 1)
		assert.Equal(t, domain.OperationTypeCreateTag, loaded.Operations[0].Type)
	})
	t.Run("Should report missing sessions", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		_, err := repo.Load(ctx, "nope")
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
		_, err = repo.LoadLatest(ctx)
		assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	})
	t.Run("Should track the latest saved session", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("first")))
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("second")))
		latest, err := repo.LoadLatest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", latest.SessionID)
	})
	t.Run("Should detect tampered files", func(t *testing.T) {
		repo, dir := newTestSessionRepository(t)
		session := domain.NewPublishSession("abc")
		session.Version = "1.0.0"
		require.NoError(t, repo.Save(ctx, session))
		file := filepath.Join(dir, "session-abc.json")
		data, err := afero.ReadFile(afero.NewOsFs(), file)
		require.NoError(t, err)
		tampered := strings.Replace(string(data), `"version": "1.0.0"`, `"version": "9.9.9"`, 1)
		require.NotEqual(t, string(data), tampered)
		require.NoError(t, afero.WriteFile(afero.NewOsFs(), file, []byte(tampered), 0600))
		_, err = repo.Load(ctx, "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checksum mismatch")
	})
	t.Run("Should list sessions newest first", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		older := domain.NewPublishSession("older")
		older.StartedAt = time.Now().Add(-time.Hour)
		require.NoError(t, repo.Save(ctx, older))
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("newer")))
		sessions, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "newer", sessions[0].SessionID)
		assert.Equal(t, "older", sessions[1].SessionID)
	})
	t.Run("Should list nothing before the first save", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		sessions, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
	t.Run("Should delete a session", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("gone")))
		require.NoError(t, repo.Delete(ctx, "gone"))
		_, err := repo.Load(ctx, "gone")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		_, err = repo.LoadLatest(ctx)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
	t.Run("Should keep the latest pointer when deleting an older session", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("old")))
		require.NoError(t, repo.Save(ctx, domain.NewPublishSession("new")))
		require.NoError(t, repo.Delete(ctx, "old"))
		latest, err := repo.LoadLatest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", latest.SessionID)
	})
	t.Run("Should tolerate deleting an unknown session", func(t *testing.T) {
		repo, _ := newTestSessionRepository(t)
		assert.NoError(t, repo.Delete(ctx, "never"))
	})
}

func TestSessionDir(t *testing.T) {
	t.Run("Should keep the journal inside the git directory", func(t *testing.T) {
		assert.Equal(t, filepath.Join("repo", ".git", "semtag"), SessionDir("repo"))
	})
}
