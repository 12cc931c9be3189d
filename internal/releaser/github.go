package releaser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-github/v84/github"
	"github.com/grokify/gogithub/release"
	"github.com/grokify/gogithub/tag"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/pkg/model"
)

// GitHubPublisher implements Publisher for GitHub.
type GitHubPublisher struct {
	client *github.Client
}

var _ Publisher = (*GitHubPublisher)(nil)

// NewGitHubPublisher creates a publisher using an authenticated client.
func NewGitHubPublisher(client *github.Client) *GitHubPublisher {
	return &GitHubPublisher{client: client}
}

// TagExists reports whether the tag is already present on the forge.
// The tag list is always read from the forge, never from the response cache.
func (p *GitHubPublisher) TagExists(ctx context.Context, repo model.RepoRef, tagName string) (bool, error) {
	tagNames, err := tag.GetTagNames(cache.NoCache(ctx), p.client, repo.Owner, repo.Name)
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}

	for _, name := range tagNames {
		if name == tagName {
			return true, nil
		}
	}
	return false, nil
}

// CreateRelease creates a new release for a repository.
func (p *GitHubPublisher) CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error) {
	ghRelease := &github.RepositoryRelease{
		TagName:    github.Ptr(req.TagName),
		Name:       github.Ptr(req.Name),
		Body:       github.Ptr(req.Body),
		Draft:      github.Ptr(req.Draft),
		Prerelease: github.Ptr(req.Prerelease),
	}

	if req.TargetCommitish != "" {
		ghRelease.TargetCommitish = github.Ptr(req.TargetCommitish)
	}

	created, err := release.CreateRelease(ctx, p.client, req.Repo.Owner, req.Repo.Name, ghRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", req.TagName, err)
	}

	return &model.Release{
		ID:          created.GetID(),
		TagName:     created.GetTagName(),
		Name:        created.GetName(),
		Body:        created.GetBody(),
		Draft:       created.GetDraft(),
		Prerelease:  created.GetPrerelease(),
		CreatedAt:   created.GetCreatedAt().Time,
		PublishedAt: created.GetPublishedAt().Time,
		HTMLURL:     created.GetHTMLURL(),
		Repo:        req.Repo,
	}, nil
}

// UploadAsset attaches a local file to an existing release.
func (p *GitHubPublisher) UploadAsset(ctx context.Context, rel *model.Release, path string) (*model.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	uploaded, _, err := p.client.Repositories.UploadReleaseAsset(ctx, rel.Repo.Owner, rel.Repo.Name, rel.ID,
		&github.UploadOptions{Name: name}, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload asset %s: %w", name, err)
	}

	return &model.Asset{
		Name:        uploaded.GetName(),
		Path:        path,
		Size:        int64(uploaded.GetSize()),
		DownloadURL: uploaded.GetBrowserDownloadURL(),
	}, nil
}
