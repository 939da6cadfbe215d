package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v70/github"
)

const (
	workflowListAttempts     = 3
	workflowDispatchAttempts = 2
)

// StartWorkflow resolves the workflow's numeric ID by filename and
// dispatches it against the main branch.
//
// Resolution accepts either a bare filename ("main.yml") or the full
// in-repository path (".github/workflows/main.yml"). Listing is retried on
// transient failures; dispatch is retried with a short backoff specifically
// on HTTP 422, which the platform returns while a fresh repository is not
// yet ready to accept dispatches.
func (c *RealClient) StartWorkflow(ctx context.Context, repoName, workflowFile string) error {
	workflowFile = strings.TrimPrefix(workflowFile, ".github/workflows/")

	workflows, err := c.listWorkflows(ctx, repoName)
	if err != nil {
		return err
	}

	var workflowID int64
	var found bool
	available := make([]string, 0, len(workflows))
	for _, wf := range workflows {
		available = append(available, wf.GetPath())
		if strings.HasSuffix(wf.GetPath(), workflowFile) {
			workflowID = wf.GetID()
			found = true
			break
		}
	}

	if !found {
		if len(available) == 0 {
			return fmt.Errorf("no workflows found in repository %s: upload a workflow file to .github/workflows/ first", repoName)
		}
		return fmt.Errorf("workflow file %q not found in repository %s, available workflows: %v",
			workflowFile, repoName, available)
	}

	return c.dispatchWorkflow(ctx, repoName, workflowFile, workflowID)
}

// listWorkflows lists the repository's workflows, retrying up to three
// times on transient failures.
func (c *RealClient) listWorkflows(ctx context.Context, repoName string) ([]*github.Workflow, error) {
	var lastErr error
	for attempt := 0; attempt < workflowListAttempts; attempt++ {
		workflows, _, err := c.gh.Actions.ListWorkflows(ctx, c.login, repoName, &github.ListOptions{PerPage: 100})
		if err == nil {
			return workflows.Workflows, nil
		}
		lastErr = err

		if IsNotFound(err) {
			return nil, fmt.Errorf("repository %s not found or has no workflows", repoName)
		}
		if attempt < workflowListAttempts-1 {
			c.sleep(time.Second)
		}
	}
	return nil, fmt.Errorf("failed to list workflows of %s: %s: %w", repoName, apiErrorMessage(lastErr), lastErr)
}

// dispatchWorkflow triggers the workflow by numeric ID against the main
// branch, retrying once on 422.
func (c *RealClient) dispatchWorkflow(ctx context.Context, repoName, workflowFile string, workflowID int64) error {
	event := github.CreateWorkflowDispatchEventRequest{
		Ref:    "main",
		Inputs: map[string]interface{}{},
	}

	var lastErr error
	for attempt := 0; attempt < workflowDispatchAttempts; attempt++ {
		_, err := c.gh.Actions.CreateWorkflowDispatchEventByID(ctx, c.login, repoName, workflowID, event)
		if err == nil {
			c.pause()
			return nil
		}
		lastErr = err

		if StatusCode(err) == 422 && attempt < workflowDispatchAttempts-1 {
			c.sleep(time.Duration(1<<attempt) * time.Second)
			continue
		}
		break
	}

	switch StatusCode(lastErr) {
	case 404:
		return fmt.Errorf("workflow %q cannot be dispatched: it does not declare a workflow_dispatch trigger in its on: section", workflowFile)
	case 422:
		return fmt.Errorf("workflow %q does not support manual triggering: add workflow_dispatch: to the on: section of the workflow file", workflowFile)
	default:
		return fmt.Errorf("failed to start workflow %q in %s: %s: %w", workflowFile, repoName, apiErrorMessage(lastErr), lastErr)
	}
}
