package usecase

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/compozy/semtag/internal/domain"
	"github.com/compozy/semtag/internal/repository"
)

// LatestVersionUseCase derives the current version from the repository tags.
type LatestVersionUseCase struct {
	TagRepo repository.TagRepository
}

// Execute returns the highest valid version tag satisfying filter, or nil when
// none qualifies. An empty filter admits every valid version.
func (uc *LatestVersionUseCase) Execute(ctx context.Context, filter string) (*domain.Version, error) {
	var constraint *semver.Constraints
	if filter != "" {
		c, err := semver.NewConstraint(filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
		constraint = c
	}
	tags, err := uc.TagRepo.ListTags(ctx)
	if err != nil {
		return nil, domain.QueryError("list tags", err)
	}
	var latest *domain.Version
	for _, tag := range tags {
		v, err := domain.NewVersion(tag)
		if err != nil {
			continue
		}
		if constraint != nil && !constraint.Check(v.Version) {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
		}
	}
	return latest, nil
}
