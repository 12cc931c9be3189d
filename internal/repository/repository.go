// Package repository composes local version history and forge metadata into
// the release state of a single repository.
package repository

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/grokify/releaseconductor/internal/forge"
	"github.com/grokify/releaseconductor/internal/progress"
	"github.com/grokify/releaseconductor/pkg/model"
)

// DefaultConcurrency is the number of change requests fetched in parallel.
const DefaultConcurrency = 4

// Local is the version-control query surface.
type Local interface {
	LatestVersion(ctx context.Context) (model.SemanticVersion, error)
	MergesSince(ctx context.Context, version model.SemanticVersion) ([]model.MergeCommit, error)
	RemoteURL(name string) (string, error)
	HeadSHA(ctx context.Context) (string, error)
	FindRootCommit(ctx context.Context) (string, error)
	TagName(v model.SemanticVersion) string
}

// ForgeFactory creates a forge client for the repository identity.
type ForgeFactory func(ref model.RepoRef) (forge.Forge, error)

// Options configures a Repository.
type Options struct {
	// Remote is the git remote the forge identity is read from. Default is "origin".
	Remote string

	// Ref overrides the identity parsed from the remote URL.
	Ref model.RepoRef

	// Concurrency bounds parallel change request fetches. Default is DefaultConcurrency.
	Concurrency int

	// Progress receives resolution events. Default discards them.
	Progress progress.Reporter
}

// Snapshot is the release state of a repository at one point in time.
type Snapshot struct {
	Repo    model.RepoRef
	Latest  model.SemanticVersion
	Base    string // tag of Latest, or the root commit when untagged
	Merges  []model.MergeCommit
	Changes []model.ChangeRequest
}

// Repository is the single entry point for release state queries.
// Results are computed once and reused for the lifetime of the value,
// so every caller within one invocation sees the same snapshot.
type Repository struct {
	local Local
	forge forge.Forge
	ref   model.RepoRef
	opts  Options

	mu       sync.Mutex
	snapshot *Snapshot
}

// New derives the forge identity from the configured remote and creates the forge client.
func New(local Local, newForge ForgeFactory, opts Options) (*Repository, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}

	ref := opts.Ref
	if ref.IsZero() {
		url, err := local.RemoteURL(opts.Remote)
		if err != nil {
			return nil, err
		}
		ref, err = model.ParseRemoteURL(url)
		if err != nil {
			return nil, &model.RepositoryAccessError{Op: "parse remote url", Err: err}
		}
	}

	f, err := newForge(ref)
	if err != nil {
		return nil, err
	}

	return &Repository{local: local, forge: f, ref: ref, opts: opts}, nil
}

// Owner returns the forge repository owner.
func (r *Repository) Owner() string { return r.ref.Owner }

// Name returns the forge repository name.
func (r *Repository) Name() string { return r.ref.Name }

// Ref returns the forge repository identity.
func (r *Repository) Ref() model.RepoRef { return r.ref }

// LatestVersion returns the highest tagged version, or model.VersionZero.
func (r *Repository) LatestVersion(ctx context.Context) (model.SemanticVersion, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return model.VersionZero, err
	}
	return snap.Latest, nil
}

// ChangesSinceLastVersion returns the change requests merged since the latest version,
// in merge history order (newest first). Change requests that no longer exist on the
// forge are dropped; any other fetch failure aborts the whole computation.
func (r *Repository) ChangesSinceLastVersion(ctx context.Context) ([]model.ChangeRequest, error) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Changes, nil
}

// Snapshot computes the release state on first use and returns the cached value afterwards.
// A failed computation is not cached.
func (r *Repository) Snapshot(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil {
		return r.snapshot, nil
	}

	latest, err := r.local.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}

	base, err := r.scanBase(ctx, latest)
	if err != nil {
		return nil, err
	}

	merges, err := r.local.MergesSince(ctx, latest)
	if err != nil {
		return nil, err
	}

	changes, err := r.resolve(ctx, merges)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve changes since %s: %w", latest, err)
	}

	r.snapshot = &Snapshot{
		Repo:    r.ref,
		Latest:  latest,
		Base:    base,
		Merges:  merges,
		Changes: changes,
	}
	return r.snapshot, nil
}

// scanBase names where the merge history scan starts.
func (r *Repository) scanBase(ctx context.Context, latest model.SemanticVersion) (string, error) {
	if !latest.IsZero() {
		return r.local.TagName(latest), nil
	}
	return r.local.FindRootCommit(ctx)
}

// Labels returns the forge label catalogue.
func (r *Repository) Labels(ctx context.Context) ([]model.Label, error) {
	return r.forge.ListLabels(ctx)
}

// resolve fetches the change request of every merge with a bounded worker pool
// and returns them in the order of merges.
func (r *Repository) resolve(ctx context.Context, merges []model.MergeCommit) ([]model.ChangeRequest, error) {
	rep := r.opts.Progress
	rep.Start(len(merges))

	slots := make([]*model.ChangeRequest, len(merges))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, m := range merges {
		g.Go(func() error {
			cr, err := r.forge.GetChangeRequest(gctx, m.ChangeRequestID)
			if err != nil {
				if model.IsNotFound(err) {
					rep.Skipped(m.ChangeRequestID, err)
					return nil
				}
				return err
			}
			slots[i] = &cr
			rep.Resolved(m.ChangeRequestID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.Complete()

	changes := make([]model.ChangeRequest, 0, len(slots))
	for _, cr := range slots {
		if cr != nil {
			changes = append(changes, *cr)
		}
	}
	return changes, nil
}
