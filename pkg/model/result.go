package model

import "time"

// StatusResult contains the release state of a repository.
type StatusResult struct {
	Timestamp     time.Time       `json:"timestamp"`
	Repo          RepoRef         `json:"repo"`
	LatestVersion SemanticVersion `json:"latestVersion"`
	Base          string          `json:"base,omitempty"` // tag or root commit the scan started from
	Changes       []ChangeRequest `json:"changes"`
	ChangeCount   int             `json:"changeCount"`
	Decision      ReleaseDecision `json:"decision"`
}

// StageResult contains the results of staging a release.
type StageResult struct {
	Timestamp    time.Time       `json:"timestamp"`
	DryRun       bool            `json:"dryRun"`
	Discarded    bool            `json:"discarded"`
	Repo         RepoRef         `json:"repo"`
	Decision     ReleaseDecision `json:"decision"`
	NotesPath    string          `json:"notesPath,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	VersionFiles []FileChange    `json:"versionFiles,omitempty"`
	Skipped      string          `json:"skipped,omitempty"`
}

// FileChange records a version string rewrite in a file.
type FileChange struct {
	Path         string `json:"path"`
	From         string `json:"from"`
	To           string `json:"to"`
	Replacements int    `json:"replacements"`
}

// PublishResult contains the results of publishing a release.
type PublishResult struct {
	Timestamp time.Time       `json:"timestamp"`
	DryRun    bool            `json:"dryRun"`
	Repo      RepoRef         `json:"repo"`
	Decision  ReleaseDecision `json:"decision"`
	Release   *Release        `json:"release,omitempty"`
	Request   ReleaseRequest  `json:"request"`
	Assets    []Asset         `json:"assets,omitempty"`
	Skipped   string          `json:"skipped,omitempty"`
}

// LabelsResult contains the forge label catalogue of a repository.
type LabelsResult struct {
	Timestamp time.Time         `json:"timestamp"`
	Repo      RepoRef           `json:"repo"`
	Labels    []Label           `json:"labels"`
	Canonical map[string]string `json:"canonical,omitempty"`
}
