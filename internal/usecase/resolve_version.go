package usecase

import (
	"fmt"

	"github.com/compozy/semtag/internal/domain"
)

// VersionResolver computes the version that follows current. It has no side effects.
type VersionResolver struct{}

// Resolve returns the next version for req. current may be nil, in which case
// keyword requests bump from opts.Base and explicit requests are accepted as is.
func (VersionResolver) Resolve(
	req domain.BumpRequest,
	current *domain.Version,
	opts domain.ReleaseOptions,
) (*domain.Version, error) {
	if req.IsExplicit() {
		if current != nil && !req.Explicit.GreaterThan(current) {
			return nil, fmt.Errorf("%w: %s <= %s", domain.ErrNotGreaterThanCurrent, req.Explicit, current)
		}
		return req.Explicit, nil
	}
	if _, ok := domain.ParseBumpKeyword(string(req.Keyword)); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRequest, req.Keyword)
	}
	from := current
	if from == nil {
		base, err := domain.NewVersion(opts.Base)
		if err != nil {
			return nil, fmt.Errorf("%w: base %q: %w", domain.ErrNoBaseVersion, opts.Base, err)
		}
		from = base
	}
	next, err := from.Increment(req.Keyword, req.Preid)
	if err != nil {
		return nil, err
	}
	if !next.GreaterThan(from) {
		return nil, fmt.Errorf("%w: %s on %s gives %s", domain.ErrNotGreaterThanCurrent, req, from, next)
	}
	return next, nil
}
