// Package releaser decides release versions and publishes releases to the forge.
package releaser

import (
	"context"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Publisher defines the forge operations needed to publish a release.
type Publisher interface {
	// TagExists reports whether the tag is already present on the forge.
	TagExists(ctx context.Context, repo model.RepoRef, tagName string) (bool, error)

	// CreateRelease creates a new release for a repository.
	CreateRelease(ctx context.Context, req *model.ReleaseRequest) (*model.Release, error)

	// UploadAsset attaches a local file to an existing release.
	UploadAsset(ctx context.Context, release *model.Release, path string) (*model.Asset, error)
}

// Options configures release behavior.
type Options struct {
	Prefix     string // Tag prefix, e.g., "v"
	Draft      bool   // Create as draft
	Prerelease bool   // Mark as prerelease
}

// TagName returns the tag for a version.
func (o Options) TagName(v model.SemanticVersion) string {
	return o.Prefix + v.String()
}

// NewRequest builds the release request for a decision.
// The release is named after its tag and targets the given commit.
func NewRequest(repo model.RepoRef, decision model.ReleaseDecision, target, body string, opts Options) *model.ReleaseRequest {
	tagName := opts.TagName(decision.Next)
	return &model.ReleaseRequest{
		Repo:            repo,
		TagName:         tagName,
		TargetCommitish: target,
		Name:            tagName,
		Body:            body,
		Draft:           opts.Draft,
		Prerelease:      opts.Prerelease,
	}
}
