package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/compozy/semtag/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubTagRegistry is the GitHub implementation of the TagRegistry interface.
type githubTagRegistry struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGithubTagRegistry creates a new TagRegistry with validation.
func NewGithubTagRegistry(token, owner, repo string) (TagRegistry, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return newGithubTagRegistry(github.NewClient(tc), owner, repo), nil
}

func newGithubTagRegistry(client *github.Client, owner, repo string) *githubTagRegistry {
	return &githubTagRegistry{client: client, owner: owner, repo: repo}
}

// RemoteTagExists looks up refs/tags/<tag>.
func (r *githubTagRegistry) RemoteTagExists(ctx context.Context, tag string) (bool, error) {
	_, resp, err := r.client.Git.GetRef(ctx, r.owner, r.repo, "tags/"+tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up tag %s on %s/%s: %w", tag, r.owner, r.repo, err)
	}
	return true, nil
}
