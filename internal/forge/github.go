package forge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"

	"github.com/grokify/releaseconductor/pkg/model"
)

const labelsPerPage = 100

// GitHubForge implements Forge for GitHub repositories.
type GitHubForge struct {
	client  *github.Client
	repo    model.RepoRef
	timeout time.Duration
}

var _ Forge = (*GitHubForge)(nil)

// NewGitHubForge creates a GitHub forge client scoped to repo.
func NewGitHubForge(repo model.RepoRef, opts Options) (*GitHubForge, error) {
	client, err := NewClient(opts)
	if err != nil {
		return nil, err
	}
	return NewGitHubForgeWithClient(repo, client, opts.Timeout), nil
}

// NewGitHubForgeWithClient wraps an existing go-github client.
func NewGitHubForgeWithClient(repo model.RepoRef, client *github.Client, timeout time.Duration) *GitHubForge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GitHubForge{client: client, repo: repo, timeout: timeout}
}

// Repo returns the repository the client is scoped to.
func (f *GitHubForge) Repo() model.RepoRef {
	return f.repo
}

// GetChangeRequest fetches GET /repos/{owner}/{repo}/issues/{number}.
func (f *GitHubForge) GetChangeRequest(ctx context.Context, number int) (model.ChangeRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	issue, resp, err := f.client.Issues.Get(ctx, f.repo.Owner, f.repo.Name, number)
	if err != nil {
		return model.ChangeRequest{}, fetchError(number, resp, err)
	}
	if issue == nil || issue.Number == nil {
		return model.ChangeRequest{}, &model.ChangeRequestFetchError{
			Number: number,
			Status: statusCode(resp),
			Reason: model.FetchMalformed,
			Err:    errors.New("response has no issue number"),
		}
	}

	return convertIssue(issue), nil
}

// ListLabels pages through GET /repos/{owner}/{repo}/labels.
func (f *GitHubForge) ListLabels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label

	opts := &github.ListOptions{PerPage: labelsPerPage}
	for {
		page, resp, err := f.listLabelsPage(ctx, opts)
		if err != nil {
			if statusCode(resp) == http.StatusUnauthorized {
				err = &model.AuthenticationError{Op: "list labels", Err: err}
			}
			return nil, fmt.Errorf("failed to list labels for %s: %w", f.repo.FullName(), err)
		}

		for _, l := range page {
			labels = append(labels, model.Label{
				Name:        l.GetName(),
				Color:       l.GetColor(),
				Description: l.GetDescription(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return labels, nil
}

func (f *GitHubForge) listLabelsPage(ctx context.Context, opts *github.ListOptions) ([]*github.Label, *github.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.client.Issues.ListLabels(ctx, f.repo.Owner, f.repo.Name, opts)
}

// convertIssue maps the forge issue shape; label order is preserved.
func convertIssue(issue *github.Issue) model.ChangeRequest {
	cr := model.ChangeRequest{
		Number:      issue.GetNumber(),
		Title:       issue.GetTitle(),
		Description: issue.GetBody(),
		Author:      issue.GetUser().GetLogin(),
	}
	for _, l := range issue.Labels {
		cr.Labels = append(cr.Labels, l.GetName())
	}
	return cr
}

// fetchError classifies a failed change request fetch.
func fetchError(number int, resp *github.Response, err error) error {
	fe := &model.ChangeRequestFetchError{
		Number: number,
		Status: statusCode(resp),
		Err:    err,
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fe.Reason = model.FetchTimeout
	case errors.Is(err, context.Canceled):
		fe.Reason = model.FetchCanceled
	case errors.As(err, &rateErr), errors.As(err, &abuseErr), fe.Status == http.StatusTooManyRequests:
		fe.Reason = model.FetchRateLimited
	case fe.Status == http.StatusNotFound, fe.Status == http.StatusGone:
		fe.Reason = model.FetchNotFound
	case fe.Status == http.StatusUnauthorized:
		fe.Reason = model.FetchUnauthorized
		fe.Err = &model.AuthenticationError{Op: fmt.Sprintf("fetch change request #%d", number), Err: err}
	case fe.Status >= 200 && fe.Status < 300:
		// go-github reports body decoding failures with the original response.
		fe.Reason = model.FetchMalformed
	case fe.Status != 0:
		fe.Reason = model.FetchHTTPStatus
	case errors.As(err, &netErr) && netErr.Timeout():
		fe.Reason = model.FetchTimeout
	default:
		fe.Reason = model.FetchTransport
	}

	return fe
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
