package vcs

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/grokify/releaseconductor/pkg/model"
)

// abbrevLength is the abbreviated SHA length of `git log --oneline`.
const abbrevLength = 7

// MergesSince returns the merge commits that reference a change request, newest first.
//
// For model.VersionZero the range is every commit reachable from HEAD, root included.
// Otherwise the range is (tag, HEAD]: commits reachable from the version tag are excluded.
// Commits with fewer than two parents and merges not created through the forge's merge
// button are skipped.
func (r *Repository) MergesSince(ctx context.Context, version model.SemanticVersion) ([]model.MergeCommit, error) {
	head, err := r.headCommit()
	if err != nil || head == nil {
		return nil, err
	}

	var excluded map[plumbing.Hash]bool
	if !version.IsZero() {
		boundary, err := r.tagCommit(r.TagName(version))
		if err != nil {
			return nil, err
		}
		excluded, err = r.ancestors(ctx, boundary)
		if err != nil {
			return nil, err
		}
	}

	var merges []model.MergeCommit
	iter := object.NewCommitIterCTime(head, excluded, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() < 2 {
			return nil
		}
		if mc, ok := model.ParseMergeCommit(OneLine(c)); ok {
			mc.SHA = c.Hash.String()
			merges = append(merges, mc)
		}
		return nil
	})
	if err != nil {
		return nil, r.accessError("walk history", err)
	}

	return merges, nil
}

// ancestors returns the set of commits reachable from c, c included.
func (r *Repository) ancestors(ctx context.Context, c *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)

	iter := object.NewCommitPreorderIter(c, nil, nil)
	defer iter.Close()

	err := iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, r.accessError("walk history", err)
	}

	return seen, nil
}

// OneLine formats a commit the way `git log --oneline` does: abbreviated SHA and subject.
func OneLine(c *object.Commit) string {
	return c.Hash.String()[:abbrevLength] + " " + Subject(c.Message)
}

// Subject returns the first paragraph of a commit message joined into one line.
// Leading blank lines are skipped.
func Subject(msg string) string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, " ")
}
