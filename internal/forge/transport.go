package forge

import (
	"fmt"
	"net/http"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/mogo/net/http/retryhttp"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/pkg/model"
)

// NewHTTPClient builds the HTTP client used for forge access: a retrying transport
// for rate limits, optionally fronted by the response cache.
func NewHTTPClient(opts Options) *http.Client {
	retryOpts := []retryhttp.Option{}
	if opts.MaxRetries > 0 {
		retryOpts = append(retryOpts, retryhttp.WithMaxRetries(opts.MaxRetries))
	}
	if opts.InitialBackoff > 0 {
		retryOpts = append(retryOpts, retryhttp.WithInitialBackoff(opts.InitialBackoff))
	}

	var rt http.RoundTripper = retryhttp.NewWithOptions(retryOpts...)
	if opts.Cache != nil {
		rt = cache.NewTransport(opts.Cache, rt)
	}

	return &http.Client{Transport: rt}
}

// NewClient creates an authenticated go-github client.
// It returns a *model.AuthenticationError when no token is configured.
func NewClient(opts Options) (*github.Client, error) {
	if opts.Token == "" {
		return nil, &model.AuthenticationError{Op: "forge access", Err: model.ErrNoToken}
	}

	client := github.NewClient(NewHTTPClient(opts)).WithAuthToken(opts.Token)

	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure base URL %q: %w", opts.BaseURL, err)
		}
	}

	return client, nil
}
