package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v70/github"
	"golang.org/x/oauth2"
)

// apiRateLimitDelay is the blanket throttle applied after every successful
// mutating call. Shared across all operations; not adaptive.
const apiRateLimitDelay = 500 * time.Millisecond

// Repository is the subset of repository attributes the provisioner needs.
type Repository struct {
	Name          string
	FullName      string
	HTMLURL       string
	DefaultBranch string
}

// CreateRepositoryOpts holds all parameters for creating a repository.
type CreateRepositoryOpts struct {
	Name           string
	Description    string
	Private        bool
	AutoInit       bool
	EnableIssues   bool
	EnableWiki     bool
	EnableProjects bool
}

// BranchProtectionOpts configures ProtectBranch.
type BranchProtectionOpts struct {
	RequireReviews      bool
	RequireStatusChecks bool
	RestrictPush        bool
}

// UploadSummary aggregates per-file results of a folder upload.
type UploadSummary struct {
	Uploaded int
	Failed   int
	Errors   []string
}

// RepositoryManager defines the interface for creating repositories and
// probing their readiness.
type RepositoryManager interface {
	// CreateRepository creates a repository under the authenticated user.
	// Duplicate-name conflicts surface as non-retryable errors.
	CreateRepository(ctx context.Context, opts CreateRepositoryOpts) (*Repository, error)
	// GetDefaultBranch fetches the repository's default branch. A NotFound
	// error means the repository is not yet fully initialized.
	GetDefaultBranch(ctx context.Context, repoName string) (string, error)
}

// FileUploader defines the interface for committing local files into a
// repository, one commit per file.
type FileUploader interface {
	UploadFile(ctx context.Context, repoName, localPath, targetPath, commitMessage string) error
	// UploadFolder uploads every file under localFolder, preserving the
	// relative path beneath targetFolder. Individual file failures are
	// collected in the summary and do not abort siblings.
	UploadFolder(ctx context.Context, repoName, localFolder, targetFolder, commitMessage string) (UploadSummary, error)
}

// SecretManager defines the interface for injecting Actions secrets.
type SecretManager interface {
	AddSecret(ctx context.Context, repoName, secretName, secretValue string) error
}

// WorkflowManager defines the interface for dispatching CI workflows.
type WorkflowManager interface {
	StartWorkflow(ctx context.Context, repoName, workflowFile string) error
}

// SettingsManager defines the interface for best-effort repository settings.
type SettingsManager interface {
	SetTopics(ctx context.Context, repoName string, topics []string) error
	EnablePages(ctx context.Context, repoName, source string) error
	ProtectBranch(ctx context.Context, repoName, branch string, opts BranchProtectionOpts) error
}

// RepoHost combines all hosting-platform interfaces.
type RepoHost interface {
	RepositoryManager
	FileUploader
	SecretManager
	WorkflowManager
	SettingsManager

	// Login returns the authenticated user's login.
	Login() string
	// TestConnection performs a read-only call to validate credentials.
	TestConnection(ctx context.Context) (string, error)
	// RateLimit reports current core rate-limit headroom.
	RateLimit(ctx context.Context) (RateInfo, error)
}

// RateInfo describes the core API rate-limit state.
type RateInfo struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// RealClient implements RepoHost using the GitHub REST API.
type RealClient struct {
	gh       *github.Client
	login    string
	throttle time.Duration
	sleep    func(time.Duration)
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient) error

// WithBaseURL points the client at a different API endpoint (tests,
// GitHub Enterprise).
func WithBaseURL(base string) ClientOption {
	return func(c *RealClient) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		c.gh.BaseURL = u
		c.gh.UploadURL = u
		return nil
	}
}

// WithThrottle overrides the post-mutation throttle delay.
func WithThrottle(d time.Duration) ClientOption {
	return func(c *RealClient) error {
		c.throttle = d
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client. The token is still
// applied via oauth2 unless the provided client already handles auth.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) error {
		c.gh = github.NewClient(hc)
		return nil
	}
}

// NewRealClient creates a RepoHost client and resolves the authenticated
// user's login. Repositories are always addressed under that login, even if
// the configured username differs; the caller is expected to compare and
// warn on mismatch.
func NewRealClient(ctx context.Context, token string, opts ...ClientOption) (*RealClient, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, src)

	c := &RealClient{
		gh:       github.NewClient(httpClient),
		throttle: apiRateLimitDelay,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %s", apiErrorMessage(err))
	}
	c.login = user.GetLogin()
	return c, nil
}

// Login returns the authenticated user's login.
func (c *RealClient) Login() string {
	return c.login
}

// TestConnection validates credentials with a read-only call.
func (c *RealClient) TestConnection(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("connection failed: %s", apiErrorMessage(err))
	}
	return fmt.Sprintf("connected as %s", user.GetLogin()), nil
}

// RateLimit reports the core rate-limit headroom.
func (c *RealClient) RateLimit(ctx context.Context) (RateInfo, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return RateInfo{}, fmt.Errorf("failed to fetch rate limit: %s", apiErrorMessage(err))
	}
	core := limits.GetCore()
	if core == nil {
		return RateInfo{}, fmt.Errorf("rate limit response missing core resource")
	}
	return RateInfo{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

// pause applies the blanket post-mutation throttle.
func (c *RealClient) pause() {
	if c.throttle > 0 {
		c.sleep(c.throttle)
	}
}
