package model

import (
	"errors"
	"fmt"
	"net/http"
)

// RepositoryAccessError indicates the local version-control repository could not be queried.
type RepositoryAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *RepositoryAccessError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("repository %s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// ErrNoToken indicates no forge token was configured.
var ErrNoToken = errors.New("no GitHub auth token configured; set GITHUB_AUTH_TOKEN or use --token")

// AuthenticationError indicates there is no usable token for forge access.
type AuthenticationError struct {
	Op  string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FetchReason categorizes a failed change request fetch.
type FetchReason string

const (
	FetchNotFound     FetchReason = "not_found"
	FetchUnauthorized FetchReason = "unauthorized"
	FetchRateLimited  FetchReason = "rate_limited"
	FetchHTTPStatus   FetchReason = "http_status"
	FetchTimeout      FetchReason = "timeout"
	FetchMalformed    FetchReason = "malformed"
	FetchTransport    FetchReason = "transport"
	FetchCanceled     FetchReason = "canceled"
)

// ChangeRequestFetchError identifies a change request that could not be resolved.
type ChangeRequestFetchError struct {
	Number int
	Status int // HTTP status, 0 if no response was received
	Reason FetchReason
	Err    error
}

func (e *ChangeRequestFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch change request #%d: %s (HTTP %d %s): %v",
			e.Number, e.Reason, e.Status, http.StatusText(e.Status), e.Err)
	}
	return fmt.Sprintf("failed to fetch change request #%d: %s: %v", e.Number, e.Reason, e.Err)
}

func (e *ChangeRequestFetchError) Unwrap() error { return e.Err }

// NotFound reports whether the change request no longer exists on the forge.
func (e *ChangeRequestFetchError) NotFound() bool {
	return e.Reason == FetchNotFound
}

// Timeout reports whether the fetch timed out and may be retried.
func (e *ChangeRequestFetchError) Timeout() bool {
	return e.Reason == FetchTimeout
}

// IsNotFound reports whether err is a not-found change request fetch error.
func IsNotFound(err error) bool {
	var fetchErr *ChangeRequestFetchError
	return errors.As(err, &fetchErr) && fetchErr.NotFound()
}
