package github

import (
	"context"
	"fmt"
	"time"
)

// MockRepoHost is a function-field mock implementation of RepoHost.
// Unset functions behave as successful no-ops so tests only wire the calls
// they care about.
type MockRepoHost struct {
	LoginValue string

	CreateRepositoryFunc func(ctx context.Context, opts CreateRepositoryOpts) (*Repository, error)
	GetDefaultBranchFunc func(ctx context.Context, repoName string) (string, error)
	UploadFileFunc       func(ctx context.Context, repoName, localPath, targetPath, commitMessage string) error
	UploadFolderFunc     func(ctx context.Context, repoName, localFolder, targetFolder, commitMessage string) (UploadSummary, error)
	AddSecretFunc        func(ctx context.Context, repoName, secretName, secretValue string) error
	StartWorkflowFunc    func(ctx context.Context, repoName, workflowFile string) error
	SetTopicsFunc        func(ctx context.Context, repoName string, topics []string) error
	EnablePagesFunc      func(ctx context.Context, repoName, source string) error
	ProtectBranchFunc    func(ctx context.Context, repoName, branch string, opts BranchProtectionOpts) error
	TestConnectionFunc   func(ctx context.Context) (string, error)
	RateLimitFunc        func(ctx context.Context) (RateInfo, error)
}

var _ RepoHost = (*MockRepoHost)(nil)

func (m *MockRepoHost) Login() string {
	if m.LoginValue == "" {
		return "mock-user"
	}
	return m.LoginValue
}

func (m *MockRepoHost) CreateRepository(ctx context.Context, opts CreateRepositoryOpts) (*Repository, error) {
	if m.CreateRepositoryFunc != nil {
		return m.CreateRepositoryFunc(ctx, opts)
	}
	return &Repository{
		Name:          opts.Name,
		FullName:      fmt.Sprintf("%s/%s", m.Login(), opts.Name),
		DefaultBranch: "main",
	}, nil
}

func (m *MockRepoHost) GetDefaultBranch(ctx context.Context, repoName string) (string, error) {
	if m.GetDefaultBranchFunc != nil {
		return m.GetDefaultBranchFunc(ctx, repoName)
	}
	return "main", nil
}

func (m *MockRepoHost) UploadFile(ctx context.Context, repoName, localPath, targetPath, commitMessage string) error {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, repoName, localPath, targetPath, commitMessage)
	}
	return nil
}

func (m *MockRepoHost) UploadFolder(ctx context.Context, repoName, localFolder, targetFolder, commitMessage string) (UploadSummary, error) {
	if m.UploadFolderFunc != nil {
		return m.UploadFolderFunc(ctx, repoName, localFolder, targetFolder, commitMessage)
	}
	return UploadSummary{}, nil
}

func (m *MockRepoHost) AddSecret(ctx context.Context, repoName, secretName, secretValue string) error {
	if m.AddSecretFunc != nil {
		return m.AddSecretFunc(ctx, repoName, secretName, secretValue)
	}
	return nil
}

func (m *MockRepoHost) StartWorkflow(ctx context.Context, repoName, workflowFile string) error {
	if m.StartWorkflowFunc != nil {
		return m.StartWorkflowFunc(ctx, repoName, workflowFile)
	}
	return nil
}

func (m *MockRepoHost) SetTopics(ctx context.Context, repoName string, topics []string) error {
	if m.SetTopicsFunc != nil {
		return m.SetTopicsFunc(ctx, repoName, topics)
	}
	return nil
}

func (m *MockRepoHost) EnablePages(ctx context.Context, repoName, source string) error {
	if m.EnablePagesFunc != nil {
		return m.EnablePagesFunc(ctx, repoName, source)
	}
	return nil
}

func (m *MockRepoHost) ProtectBranch(ctx context.Context, repoName, branch string, opts BranchProtectionOpts) error {
	if m.ProtectBranchFunc != nil {
		return m.ProtectBranchFunc(ctx, repoName, branch, opts)
	}
	return nil
}

func (m *MockRepoHost) TestConnection(ctx context.Context) (string, error) {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return fmt.Sprintf("connected as %s", m.Login()), nil
}

func (m *MockRepoHost) RateLimit(ctx context.Context) (RateInfo, error) {
	if m.RateLimitFunc != nil {
		return m.RateLimitFunc(ctx)
	}
	return RateInfo{Limit: 5000, Remaining: 5000, Reset: time.Now().Add(time.Hour)}, nil
}
