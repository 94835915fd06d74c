package repository

import "context"

// TagRepository defines the repository queries and writes needed to resolve
// and publish version tags.
type TagRepository interface {
	// ListTags returns every tag name, including ones that are not versions.
	ListTags(ctx context.Context) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
	FetchRemote(ctx context.Context) error
	// WorkingTreeStatus returns one line per dirty path and per commit on the
	// remote branch that is missing locally. An empty string means in sync.
	WorkingTreeStatus(ctx context.Context, branch string) (string, error)
	// CreateAnnotatedTag fails when a tag with that name already exists.
	CreateAnnotatedTag(ctx context.Context, name, message string) error
	PushTags(ctx context.Context) error
	DeleteTag(ctx context.Context, name string) error
}
