// Package github provides a wrapper around the GitHub REST API for bulk
// repository provisioning.
//
// The wrapper exposes narrow, per-concern interfaces (repository creation,
// file uploads, Actions secrets, workflow dispatch, repository settings)
// combined into [RepoHost]. Secret values are sealed-box encrypted with the
// repository's public key before leaving the process. Every successful
// mutating call is followed by a fixed throttle delay to stay under the
// platform's abuse-rate thresholds.
package github
