package model

import (
	"regexp"
	"strconv"
)

// mergedPullRequestPattern matches the oneline form of a forge merge-button commit.
// Squash and rebase merges never produce a matching two-parent commit.
var mergedPullRequestPattern = regexp.MustCompile(`^([0-9a-f]{5,40}) Merge pull request #([0-9]+)\b`)

// MergeCommit is a merge commit that references an integrated change request.
type MergeCommit struct {
	SHA             string `json:"sha"`
	Line            string `json:"line"`
	ChangeRequestID int    `json:"changeRequestId"`
}

// ParseMergeCommit parses a "<sha> <subject>" line.
// It returns false if the line does not reference a change request.
func ParseMergeCommit(line string) (MergeCommit, bool) {
	m := mergedPullRequestPattern.FindStringSubmatch(line)
	if m == nil {
		return MergeCommit{}, false
	}

	id, err := strconv.Atoi(m[2])
	if err != nil {
		return MergeCommit{}, false
	}

	return MergeCommit{
		SHA:             m[1],
		Line:            line,
		ChangeRequestID: id,
	}, true
}
