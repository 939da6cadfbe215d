package github

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/google/go-github/v70/github"
)

// StatusCode extracts the HTTP status from a GitHub API error, or 0 for
// transport-level failures.
func StatusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode
	}
	return 0
}

// IsNotFound checks whether the error is an HTTP 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == 404
}

// IsRateLimited checks whether the error indicates primary or secondary
// rate limiting: a typed rate-limit error, or a 403 whose message carries a
// rate-limit indicator.
func IsRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	if StatusCode(err) == 403 && strings.Contains(strings.ToLower(err.Error()), "rate limit") {
		return true
	}
	return false
}

// IsNameConflict checks whether repository creation failed because the name
// already exists. These are fatal; the name will not become available.
func IsNameConflict(err error) bool {
	return StatusCode(err) == 422 && strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// isTransport checks for network-level failures that never reached the API:
// connection refused, timeouts, DNS errors.
func isTransport(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// IsRetryable classifies an error for the retry policy: rate limiting,
// server errors (5xx), and transport failures are retryable; all other API
// errors (4xx, validation) are fatal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsRateLimited(err) {
		return true
	}
	if StatusCode(err) >= 500 {
		return true
	}
	if StatusCode(err) == 0 && isTransport(err) {
		return true
	}
	return false
}

// apiErrorMessage renders a human-readable message for an API error,
// preferring the platform's own message text over the transport detail.
func apiErrorMessage(err error) string {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Message != "" {
		return errResp.Message
	}
	return err.Error()
}
