package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v70/github"
)

// CreateRepository creates a repository under the authenticated user.
// Duplicate-name conflicts are returned as-is so the caller's retry policy
// can classify them as fatal.
func (c *RealClient) CreateRepository(ctx context.Context, opts CreateRepositoryOpts) (*Repository, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.Ptr(opts.Name),
		Description: github.Ptr(opts.Description),
		Private:     github.Ptr(opts.Private),
		AutoInit:    github.Ptr(opts.AutoInit),
		HasIssues:   github.Ptr(opts.EnableIssues),
		HasWiki:     github.Ptr(opts.EnableWiki),
		HasProjects: github.Ptr(opts.EnableProjects),
	})
	if err != nil {
		if IsNameConflict(err) {
			return nil, fmt.Errorf("failed to create repository %s: name already exists: %w", opts.Name, err)
		}
		return nil, fmt.Errorf("failed to create repository %s: %s: %w", opts.Name, apiErrorMessage(err), err)
	}

	c.pause()
	return &Repository{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		HTMLURL:       repo.GetHTMLURL(),
		DefaultBranch: repo.GetDefaultBranch(),
	}, nil
}

// GetDefaultBranch fetches the repository's default branch. Used as a
// readiness probe: a NotFound error means the repository (or its initial
// commit) is not visible yet.
func (c *RealClient) GetDefaultBranch(ctx context.Context, repoName string) (string, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, c.login, repoName)
	if err != nil {
		return "", fmt.Errorf("failed to fetch repository %s: %w", repoName, err)
	}
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}
	if _, _, err := c.gh.Repositories.GetBranch(ctx, c.login, repoName, branch, 0); err != nil {
		return "", fmt.Errorf("failed to fetch branch %s of %s: %w", branch, repoName, err)
	}
	return branch, nil
}
