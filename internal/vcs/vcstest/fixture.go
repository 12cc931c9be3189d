// Package vcstest builds in-memory git repositories for tests.
package vcstest

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Fixture is an in-memory repository with a deterministic commit clock.
type Fixture struct {
	t     testing.TB
	Repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

// New initializes an empty in-memory repository.
func New(t testing.TB) *Fixture {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree failed: %v", err)
	}

	return &Fixture{
		t:     t,
		Repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Remote adds a remote with a single URL.
func (f *Fixture) Remote(name, url string) *Fixture {
	f.t.Helper()

	_, err := f.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		f.t.Fatalf("create remote failed: %v", err)
	}
	return f
}

// Commit creates an empty commit and moves HEAD to it.
// Without parents the current HEAD is used as the only parent.
func (f *Fixture) Commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()

	f.clock = f.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: f.clock}

	h, err := f.wt.Commit(msg, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
	})
	if err != nil {
		f.t.Fatalf("commit %q failed: %v", msg, err)
	}
	return h
}

// Merge creates a side branch commit on top of HEAD and a two-parent merge commit
// joining it back, returning the merge commit.
func (f *Fixture) Merge(msg string) plumbing.Hash {
	f.t.Helper()

	base := f.Head()
	side := f.Commit("Branch commit", base)
	return f.Commit(msg, base, side)
}

// Head returns the current HEAD commit.
func (f *Fixture) Head() plumbing.Hash {
	f.t.Helper()

	ref, err := f.Repo.Head()
	if err != nil {
		f.t.Fatalf("resolve HEAD failed: %v", err)
	}
	return ref.Hash()
}

// Tag creates a lightweight tag at HEAD.
func (f *Fixture) Tag(name string) *Fixture {
	f.t.Helper()

	if _, err := f.Repo.CreateTag(name, f.Head(), nil); err != nil {
		f.t.Fatalf("create tag %q failed: %v", name, err)
	}
	return f
}

// AnnotatedTag creates an annotated tag at HEAD.
func (f *Fixture) AnnotatedTag(name, message string) *Fixture {
	f.t.Helper()

	opts := &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Test User", Email: "test@example.com", When: f.clock},
		Message: message,
	}
	if _, err := f.Repo.CreateTag(name, f.Head(), opts); err != nil {
		f.t.Fatalf("create tag %q failed: %v", name, err)
	}
	return f
}
