package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseOptions_Merge(t *testing.T) {
	t.Run("Should let caller values win over defaults", func(t *testing.T) {
		merged := DefaultReleaseOptions().Merge(ReleaseOptions{Base: "0.1.0", Message: "Release %s"})
		assert.Equal(t, "0.1.0", merged.Base)
		assert.Equal(t, "Release %s", merged.Message)
		assert.Equal(t, DefaultRemote, merged.Remote)
		assert.Equal(t, DefaultDir, merged.Dir)
	})
	t.Run("Should make publish imply tag", func(t *testing.T) {
		merged := DefaultReleaseOptions().Merge(ReleaseOptions{Publish: true})
		assert.True(t, merged.Tag)
		assert.True(t, merged.Publish)
	})
}

func TestReleaseOptions_FormatMessage(t *testing.T) {
	t.Run("Should substitute every placeholder", func(t *testing.T) {
		opts := ReleaseOptions{Message: "Release %s (%s)"}
		assert.Equal(t, "Release 1.2.0 (1.2.0)", opts.FormatMessage("1.2.0"))
	})
	t.Run("Should fall back to the bare version", func(t *testing.T) {
		assert.Equal(t, "1.2.0", ReleaseOptions{}.FormatMessage("1.2.0"))
	})
}

func TestSyncError(t *testing.T) {
	t.Run("Should carry branch and unwrap to sentinel", func(t *testing.T) {
		var err error = &SyncError{Branch: "main"}
		assert.True(t, errors.Is(err, ErrNotSynchronized))
		assert.Contains(t, err.Error(), "'main'")
	})
	t.Run("Should keep cause of query errors", func(t *testing.T) {
		cause := errors.New("network down")
		err := QueryError("fetch", cause)
		assert.ErrorIs(t, err, ErrRepositoryQueryFailed)
		assert.ErrorIs(t, err, cause)
	})
}
