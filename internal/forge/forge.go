// Package forge resolves change requests and labels from the repository's hosting forge.
package forge

import (
	"context"
	"time"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/pkg/model"
)

// DefaultTimeout bounds every single forge request.
const DefaultTimeout = 10 * time.Second

// Forge is the read-only forge surface used to describe merged change requests.
type Forge interface {
	// Repo returns the repository the forge client is scoped to.
	Repo() model.RepoRef

	// GetChangeRequest fetches a single change request by number.
	// Failures are reported as *model.ChangeRequestFetchError.
	GetChangeRequest(ctx context.Context, number int) (model.ChangeRequest, error)

	// ListLabels returns the repository label catalogue.
	ListLabels(ctx context.Context) ([]model.Label, error)
}

// Options configures forge access.
type Options struct {
	// Token is the forge personal access token. Required.
	Token string

	// Timeout bounds each request. Default is DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for rate limited requests.
	// Default is 3.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	// Default is 1 second.
	InitialBackoff time.Duration

	// Cache serves repeated GET requests. Nil disables response caching.
	Cache *cache.Store

	// BaseURL points at a GitHub Enterprise API, e.g. https://github.example.com/api/v3/.
	BaseURL string
}
