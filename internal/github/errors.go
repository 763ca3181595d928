// SPDX-License-Identifier: MPL-2.0

package github

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork is matched by every request failure: transport errors,
	// non-success statuses and exhausted rate limits.
	ErrNetwork = errors.New("network error")

	// ErrNoReleases is returned when a repository has no published releases.
	ErrNoReleases = errors.New("no releases found")

	// ErrInvalidRepoRef is returned when a repository reference cannot be parsed.
	ErrInvalidRepoRef = errors.New("invalid repository reference")
)

type (
	// NetworkError describes a failed request. StatusCode is zero when the
	// request never produced a response (DNS, TLS, connection reset, cancellation).
	NetworkError struct {
		Op         string // e.g. "list releases", "download asset"
		URL        string // redacted request URL
		StatusCode int
		Err        error
	}

	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}
)

// Error formats the failure for display.
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed", e.Op, e.URL)
}

// Unwrap exposes both ErrNetwork and the transport error to errors.Is/As.
func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// IsClientError reports whether the server rejected the request with a 4xx status.
func (e *NetworkError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// Is makes a RateLimitError match ErrNetwork.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrNetwork
}
