package github

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v70/github"
)

// maxUploadSize is the per-file limit enforced locally before any network
// call. The platform allows 100 MiB through this API; half of that keeps a
// safety margin.
const maxUploadSize = 50 * 1024 * 1024

// UploadFile commits a single local file into the repository at targetPath.
// Files over the size limit are rejected before any network call.
func (c *RealClient) UploadFile(ctx context.Context, repoName, localPath, targetPath, commitMessage string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("file not found: %s", localPath)
	}
	if info.Size() > maxUploadSize {
		return fmt.Errorf("file too large (%.1f MiB), maximum allowed is 50 MiB: %s",
			float64(info.Size())/1024/1024, localPath)
	}

	content, err := os.ReadFile(localPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	_, _, err = c.gh.Repositories.CreateFile(ctx, c.login, repoName, targetPath, &github.RepositoryContentFileOptions{
		Message: github.Ptr(commitMessage),
		Content: content,
		Branch:  github.Ptr("main"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to %s: %s: %w", targetPath, repoName, apiErrorMessage(err), err)
	}

	c.pause()
	return nil
}

// UploadFolder uploads every regular file under localFolder, preserving the
// relative path beneath targetFolder. Uploads are best effort per item:
// individual failures are recorded in the summary without aborting the rest.
func (c *RealClient) UploadFolder(ctx context.Context, repoName, localFolder, targetFolder, commitMessage string) (UploadSummary, error) {
	var summary UploadSummary

	info, err := os.Stat(localFolder)
	if err != nil || !info.IsDir() {
		return summary, fmt.Errorf("folder not found: %s", localFolder)
	}

	err = filepath.WalkDir(localFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localFolder, path)
		if err != nil {
			return err
		}

		targetPath := filepath.ToSlash(rel)
		if targetFolder != "" {
			targetPath = strings.TrimSuffix(targetFolder, "/") + "/" + targetPath
		}

		if uploadErr := c.UploadFile(ctx, repoName, path, targetPath, fmt.Sprintf("%s - %s", commitMessage, rel)); uploadErr != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, uploadErr.Error())
			return nil
		}
		summary.Uploaded++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("failed to walk folder %s: %w", localFolder, err)
	}
	return summary, nil
}
