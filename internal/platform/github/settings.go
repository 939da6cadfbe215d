package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v70/github"
)

// SetTopics replaces the repository's topics. A nil or empty list is a
// no-op.
func (c *RealClient) SetTopics(ctx context.Context, repoName string, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	_, _, err := c.gh.Repositories.ReplaceAllTopics(ctx, c.login, repoName, topics)
	if err != nil {
		return fmt.Errorf("failed to set topics on %s: %s: %w", repoName, apiErrorMessage(err), err)
	}
	c.pause()
	return nil
}

// EnablePages enables the static-site feature for the repository. The
// source string follows the configuration format: "main branch /root",
// "main branch /docs", or "gh-pages branch". A conflict response means
// pages are already enabled and is treated as success.
func (c *RealClient) EnablePages(ctx context.Context, repoName, source string) error {
	branch, path := "main", "/"
	switch {
	case strings.Contains(source, "docs"):
		path = "/docs"
	case strings.Contains(source, "gh-pages"):
		branch = "gh-pages"
	}

	_, _, err := c.gh.Repositories.EnablePages(ctx, c.login, repoName, &github.Pages{
		Source: &github.PagesSource{
			Branch: github.Ptr(branch),
			Path:   github.Ptr(path),
		},
	})
	if err != nil {
		if StatusCode(err) == 409 {
			// Already enabled.
			return nil
		}
		return fmt.Errorf("failed to enable pages on %s: %s: %w", repoName, apiErrorMessage(err), err)
	}
	c.pause()
	return nil
}

// ProtectBranch applies branch protection rules to the given branch.
func (c *RealClient) ProtectBranch(ctx context.Context, repoName, branch string, opts BranchProtectionOpts) error {
	req := &github.ProtectionRequest{
		RequiredStatusChecks: &github.RequiredStatusChecks{
			Strict:   opts.RequireStatusChecks,
			Contexts: &[]string{},
		},
	}
	if opts.RequireReviews {
		req.RequiredPullRequestReviews = &github.PullRequestReviewsEnforcementRequest{
			RequiredApprovingReviewCount: 1,
		}
	}
	if opts.RestrictPush {
		req.Restrictions = &github.BranchRestrictionsRequest{
			Users: []string{},
			Teams: []string{},
		}
	}

	_, _, err := c.gh.Repositories.UpdateBranchProtection(ctx, c.login, repoName, branch, req)
	if err != nil {
		return fmt.Errorf("failed to protect branch %s of %s: %s: %w", branch, repoName, apiErrorMessage(err), err)
	}
	c.pause()
	return nil
}
