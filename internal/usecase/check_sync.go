package usecase

import (
	"context"
	"strings"

	"github.com/compozy/semtag/internal/domain"
	"github.com/compozy/semtag/internal/repository"
)

// SyncGuard decides whether the local repository may be tagged.
type SyncGuard struct {
	TagRepo repository.TagRepository
}

// ResolveBranch returns opts.Branch when set, otherwise the checked out branch.
func (g *SyncGuard) ResolveBranch(ctx context.Context, opts domain.ReleaseOptions) (string, error) {
	if opts.Branch != "" {
		return opts.Branch, nil
	}
	branch, err := g.TagRepo.CurrentBranch(ctx)
	if err != nil {
		return "", domain.QueryError("current branch", err)
	}
	return branch, nil
}

// CheckSync fetches the remote and reports whether the working tree is clean
// and contains every commit of the remote branch. Unpushed local commits do
// not affect the verdict.
func (g *SyncGuard) CheckSync(ctx context.Context, opts domain.ReleaseOptions) (domain.SyncVerdict, error) {
	if err := g.TagRepo.FetchRemote(ctx); err != nil {
		return domain.SyncVerdict{}, domain.QueryError("fetch", err)
	}
	branch, err := g.ResolveBranch(ctx, opts)
	if err != nil {
		return domain.SyncVerdict{}, err
	}
	status, err := g.TagRepo.WorkingTreeStatus(ctx, branch)
	if err != nil {
		return domain.SyncVerdict{Branch: branch}, domain.QueryError("status", err)
	}
	details := strings.TrimSpace(status)
	return domain.SyncVerdict{InSync: details == "", Branch: branch, Details: details}, nil
}
