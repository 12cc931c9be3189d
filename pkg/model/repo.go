package model

import (
	"fmt"
	"regexp"
	"strings"
)

// RepoRef is a lightweight reference to a forge repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the full repository name in owner/repo format.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the reference is empty.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// ParseRepoRef parses a full name like "owner/repo" into a RepoRef.
func ParseRepoRef(fullName string) RepoRef {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return RepoRef{
				Owner: fullName[:i],
				Name:  fullName[i+1:],
			}
		}
	}
	return RepoRef{Name: fullName}
}

// Regular expressions for parsing git remote URLs.
var (
	// https://github.com/owner/repo.git, ssh://git@github.com:22/owner/repo, git://host/owner/repo
	schemeURLPattern = regexp.MustCompile(`^(?:https?|ssh|git)://[^/]+/([^/]+)/([^/]+?)(?:\.git)?/?$`)

	// git@github.com:owner/repo.git
	scpURLPattern = regexp.MustCompile(`^(?:[^@/]+@)?[^:/]+:([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// ParseRemoteURL extracts the owner and repository name from a git remote URL.
// Both HTTPS and SSH forms are accepted; case is preserved:
//   - https://github.com/owner/repo.git
//   - ssh://git@github.com/owner/repo.git
//   - git@github.com:owner/repo.git
func ParseRemoteURL(url string) (RepoRef, error) {
	url = strings.TrimSpace(url)

	if m := schemeURLPattern.FindStringSubmatch(url); m != nil {
		return RepoRef{Owner: m[1], Name: m[2]}, nil
	}
	if m := scpURLPattern.FindStringSubmatch(url); m != nil {
		return RepoRef{Owner: m[1], Name: m[2]}, nil
	}

	return RepoRef{}, fmt.Errorf("unrecognized remote URL format: %q", url)
}
