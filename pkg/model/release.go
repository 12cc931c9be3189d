package model

import "time"

// ReleaseType classifies the changes since the latest release.
type ReleaseType string

const (
	ReleaseNoChange ReleaseType = "nochanges"
	ReleaseFix      ReleaseType = "fix"
	ReleaseFeature  ReleaseType = "feature"
	ReleaseBreaking ReleaseType = "breaking"
)

// Precedence orders release types: breaking > feature > fix > no change.
func (t ReleaseType) Precedence() int {
	switch t {
	case ReleaseBreaking:
		return 3
	case ReleaseFeature:
		return 2
	case ReleaseFix:
		return 1
	default:
		return 0
	}
}

// Bump returns the version component bumped for this release type.
func (t ReleaseType) Bump() BumpKind {
	switch t {
	case ReleaseBreaking:
		return BumpMajor
	case ReleaseFeature:
		return BumpMinor
	case ReleaseFix:
		return BumpPatch
	default:
		return BumpNone
	}
}

// BumpKind identifies the version component to increment.
type BumpKind string

const (
	BumpNone  BumpKind = ""
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// Apply returns v bumped by the kind. BumpNone returns v unchanged.
func (k BumpKind) Apply(v SemanticVersion) SemanticVersion {
	switch k {
	case BumpMajor:
		return v.NextMajor()
	case BumpMinor:
		return v.NextMinor()
	case BumpPatch:
		return v.NextPatch()
	default:
		return v
	}
}

// String returns the bump kind, or "none".
func (k BumpKind) String() string {
	if k == BumpNone {
		return "none"
	}
	return string(k)
}

// ReleaseDecision is the outcome of classifying a set of changes.
type ReleaseDecision struct {
	Bump    BumpKind        `json:"bump"`
	Type    ReleaseType     `json:"type"`
	Current SemanticVersion `json:"current"`
	Next    SemanticVersion `json:"next"`
}

// HasChanges reports whether the decision calls for a release.
func (d ReleaseDecision) HasChanges() bool {
	return d.Type != ReleaseNoChange
}

// Release represents a forge release.
type Release struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tagName"`
	Name        string    `json:"name"`
	Body        string    `json:"body,omitempty"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	CreatedAt   time.Time `json:"createdAt"`
	PublishedAt time.Time `json:"publishedAt"`
	HTMLURL     string    `json:"htmlUrl"`
	Repo        RepoRef   `json:"repo"`
}

// ReleaseRequest contains the information needed to create a new release.
type ReleaseRequest struct {
	Repo            RepoRef `json:"repo"`
	TagName         string  `json:"tagName"`
	TargetCommitish string  `json:"targetCommitish,omitempty"` // Branch or commit SHA
	Name            string  `json:"name"`
	Body            string  `json:"body"`
	Draft           bool    `json:"draft"`
	Prerelease      bool    `json:"prerelease"`
}

// Asset is a build artifact uploaded to a release.
type Asset struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}
