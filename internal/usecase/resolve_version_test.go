package usecase

import (
	"testing"

	"github.com/compozy/semtag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, s string) *domain.Version {
	t.Helper()
	v, err := domain.NewVersion(s)
	require.NoError(t, err)
	return v
}

func TestVersionResolver_Resolve(t *testing.T) {
	resolver := VersionResolver{}
	opts := domain.DefaultReleaseOptions()

	t.Run("Should bump minor from the current version", func(t *testing.T) {
		got, err := resolver.Resolve(domain.KeywordRequest(domain.BumpMinor, ""), mustVersion(t, "1.2.0"), opts)
		require.NoError(t, err)
		assert.Equal(t, "1.3.0", got.String())
	})
	t.Run("Should reject explicit version not greater than current", func(t *testing.T) {
		req := domain.ExplicitRequest(mustVersion(t, "1.9.0"))
		_, err := resolver.Resolve(req, mustVersion(t, "2.0.0"), opts)
		assert.ErrorIs(t, err, domain.ErrNotGreaterThanCurrent)
	})
	t.Run("Should reject explicit version equal to current", func(t *testing.T) {
		req := domain.ExplicitRequest(mustVersion(t, "2.0.0"))
		_, err := resolver.Resolve(req, mustVersion(t, "2.0.0"), opts)
		assert.ErrorIs(t, err, domain.ErrNotGreaterThanCurrent)
	})
	t.Run("Should return explicit version unchanged when greater", func(t *testing.T) {
		req := domain.ExplicitRequest(mustVersion(t, "v2.0.0-beta.1"))
		got, err := resolver.Resolve(req, mustVersion(t, "2.0.0-alpha.3"), opts)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0-beta.1", got.String())
	})
	t.Run("Should accept any explicit version without a current one", func(t *testing.T) {
		o := opts
		o.Base = "5.0.0"
		got, err := resolver.Resolve(domain.ExplicitRequest(mustVersion(t, "0.0.1")), nil, o)
		require.NoError(t, err)
		assert.Equal(t, "0.0.1", got.String())
	})
	t.Run("Should bump from base without a current version", func(t *testing.T) {
		o := opts
		o.Base = "0.1.0"
		got, err := resolver.Resolve(domain.KeywordRequest(domain.BumpPatch, ""), nil, o)
		require.NoError(t, err)
		assert.Equal(t, "0.1.1", got.String())
	})
	t.Run("Should fail with no base version when base is invalid", func(t *testing.T) {
		o := opts
		o.Base = "banana"
		_, err := resolver.Resolve(domain.KeywordRequest(domain.BumpPatch, ""), nil, o)
		assert.ErrorIs(t, err, domain.ErrNoBaseVersion)
	})
	t.Run("Should ignore an invalid base when a current version exists", func(t *testing.T) {
		o := opts
		o.Base = "banana"
		got, err := resolver.Resolve(domain.KeywordRequest(domain.BumpMajor, ""), mustVersion(t, "1.4.2"), o)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", got.String())
	})
	t.Run("Should start a prerelease on the next patch", func(t *testing.T) {
		got, err := resolver.Resolve(domain.KeywordRequest(domain.BumpPrerelease, ""), mustVersion(t, "1.0.0"), opts)
		require.NoError(t, err)
		assert.Equal(t, "1.0.1-0", got.String())
	})
	t.Run("Should use the preid for prerelease bumps", func(t *testing.T) {
		got, err := resolver.Resolve(domain.KeywordRequest(domain.BumpPrerelease, "beta"), mustVersion(t, "1.0.0"), opts)
		require.NoError(t, err)
		assert.Equal(t, "1.0.1-beta.0", got.String())
	})
	t.Run("Should refuse a preid that sorts before the current prerelease", func(t *testing.T) {
		_, err := resolver.Resolve(
			domain.KeywordRequest(domain.BumpPrerelease, "a"), mustVersion(t, "1.0.0-alpha.0"), opts,
		)
		assert.ErrorIs(t, err, domain.ErrNotGreaterThanCurrent)
	})
	t.Run("Should reject an unknown keyword", func(t *testing.T) {
		_, err := resolver.Resolve(domain.BumpRequest{Keyword: "giant"}, nil, opts)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestVersionResolver_Properties(t *testing.T) {
	resolver := VersionResolver{}
	opts := domain.DefaultReleaseOptions()
	currents := []string{"0.0.0", "0.1.0", "1.2.3", "1.0.0-0", "1.2.0-beta.3", "2.0.0-rc", "3.4.5+build.7"}

	t.Run("Should always produce a version greater than current for every keyword", func(t *testing.T) {
		for _, c := range currents {
			for _, kw := range domain.BumpKeywords {
				current := mustVersion(t, c)
				got, err := resolver.Resolve(domain.KeywordRequest(kw, ""), current, opts)
				require.NoError(t, err, "%s on %s", kw, c)
				assert.True(t, got.GreaterThan(current), "%s on %s gave %s", kw, c, got)
			}
		}
	})
	t.Run("Should strip prerelease on major minor and patch", func(t *testing.T) {
		for _, c := range currents {
			for _, kw := range []domain.BumpKeyword{domain.BumpMajor, domain.BumpMinor, domain.BumpPatch} {
				got, err := resolver.Resolve(domain.KeywordRequest(kw, ""), mustVersion(t, c), opts)
				require.NoError(t, err)
				assert.Empty(t, got.Prerelease(), "%s on %s", kw, c)
			}
		}
	})
	t.Run("Should accept explicit versions iff greater than current", func(t *testing.T) {
		candidates := []string{"0.0.1", "1.2.3", "1.2.4", "1.3.0-alpha", "2.0.0"}
		for _, c := range currents {
			for _, e := range candidates {
				current, explicit := mustVersion(t, c), mustVersion(t, e)
				got, err := resolver.Resolve(domain.ExplicitRequest(explicit), current, opts)
				if explicit.GreaterThan(current) {
					require.NoError(t, err)
					assert.Equal(t, explicit.String(), got.String())
				} else {
					assert.ErrorIs(t, err, domain.ErrNotGreaterThanCurrent)
				}
			}
		}
	})
}
