// Package vcs reads release history from a local git repository using go-git/v5.
// All operations are read-only.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/grokify/releaseconductor/pkg/model"
)

// DefaultRemoteName is the remote used to derive the forge repository identity.
const DefaultRemoteName = "origin"

// Options configures how tags are interpreted.
type Options struct {
	// TagPrefix is stripped from tag names before version parsing, e.g. "v".
	// Tags without the prefix are ignored when it is set.
	TagPrefix string
}

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	path string
	opts Options
}

// Open opens the git repository containing path.
// Returns a *model.RepositoryAccessError if path is not inside a git repository.
func Open(path string, opts Options) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &model.RepositoryAccessError{Op: "open", Path: path, Err: err}
	}
	return New(repo, path, opts), nil
}

// New wraps an already opened go-git repository.
func New(repo *git.Repository, path string, opts Options) *Repository {
	return &Repository{repo: repo, path: path, opts: opts}
}

// Path returns the path the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// ListTags returns all tag names, sorted for a stable result.
func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, r.accessError("list tags", err)
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, r.accessError("list tags", err)
	}

	sort.Strings(tags)
	return tags, nil
}

// ParsedVersions returns the distinct versions among the tags, ascending.
// Tags that are not strict semantic versions are skipped.
func (r *Repository) ParsedVersions(ctx context.Context) ([]model.SemanticVersion, error) {
	tags, err := r.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return ParseVersionTags(tags, r.opts.TagPrefix), nil
}

// LatestVersion returns the highest tagged version, or model.VersionZero if there is none.
func (r *Repository) LatestVersion(ctx context.Context) (model.SemanticVersion, error) {
	versions, err := r.ParsedVersions(ctx)
	if err != nil {
		return model.VersionZero, err
	}
	return model.MaxVersion(versions), nil
}

// ParseVersionTags filters tag names down to the distinct strict semantic versions.
func ParseVersionTags(tags []string, prefix string) []model.SemanticVersion {
	seen := make(map[model.SemanticVersion]bool)
	var versions []model.SemanticVersion

	for _, tag := range tags {
		if prefix != "" {
			if !strings.HasPrefix(tag, prefix) {
				continue
			}
			tag = strings.TrimPrefix(tag, prefix)
		}

		v, err := model.ParseVersion(tag)
		if err != nil || seen[v] {
			continue
		}
		seen[v] = true
		versions = append(versions, v)
	}

	model.SortVersions(versions)
	return versions
}

// TagName returns the tag name used for a version.
func (r *Repository) TagName(v model.SemanticVersion) string {
	return r.opts.TagPrefix + v.String()
}

// HeadSHA returns the commit SHA of HEAD.
func (r *Repository) HeadSHA(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", r.accessError("resolve HEAD", err)
	}
	return head.Hash().String(), nil
}

// RemoteURL returns the first URL configured for the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	if name == "" {
		name = DefaultRemoteName
	}

	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", r.accessError("read remote "+name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", r.accessError("read remote "+name, fmt.Errorf("remote %q has no URLs configured", name))
	}
	return urls[0], nil
}

// FindRootCommit follows first parents from HEAD to a commit without parents.
// Returns an empty string for a repository without commits.
func (r *Repository) FindRootCommit(ctx context.Context) (string, error) {
	commit, err := r.headCommit()
	if err != nil || commit == nil {
		return "", err
	}

	for commit.NumParents() > 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return "", r.accessError("walk parents", err)
		}
	}

	return commit.Hash.String(), nil
}

// headCommit returns the HEAD commit, or nil if the repository has no commits yet.
func (r *Repository) headCommit() (*object.Commit, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.accessError("resolve HEAD", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, r.accessError("read HEAD commit", err)
	}
	return commit, nil
}

// tagCommit resolves a tag name to its commit, peeling annotated tags.
func (r *Repository) tagCommit(name string) (*object.Commit, error) {
	ref, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return nil, r.accessError("resolve tag "+name, err)
	}

	tag, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tag.Commit()
		if err != nil {
			return nil, r.accessError("resolve tag "+name, err)
		}
		return commit, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, r.accessError("resolve tag "+name, err)
		}
		return commit, nil
	default:
		return nil, r.accessError("resolve tag "+name, err)
	}
}

func (r *Repository) accessError(op string, err error) error {
	return &model.RepositoryAccessError{Op: op, Path: r.path, Err: err}
}
