package report

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

func statusResult() *model.StatusResult {
	return &model.StatusResult{
		Timestamp:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Repo:          model.RepoRef{Owner: "michaeljoseph", Name: "test_app"},
		LatestVersion: model.NewVersion(0, 0, 1),
		Base:          "0.0.1",
		Changes: []model.ChangeRequest{
			{Number: 11, Title: "Add the feature", Author: "someone", Labels: []string{"enhancement"}},
			{Number: 10, Title: "Fix | the bug", Author: "other", Labels: []string{"bug"}},
		},
		ChangeCount: 2,
		Decision: model.ReleaseDecision{
			Bump:    model.BumpMinor,
			Type:    model.ReleaseFeature,
			Current: model.NewVersion(0, 0, 1),
			Next:    model.NewVersion(0, 1, 0),
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"table", false},
		{"json", false},
		{"markdown", false},
		{"csv", false},
		{"yaml", true},
	}

	for _, tt := range tests {
		f, err := New(tt.format)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q): expected error", tt.format)
			}
			continue
		}
		if err != nil || f == nil {
			t.Errorf("New(%q): unexpected error %v", tt.format, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected short, got %s", got)
	}
	if got := truncate("a much longer title", 10); got != "a much ..." {
		t.Errorf("expected 'a much ...', got %q", got)
	}
}

func TestTableFormatter_FormatStatus(t *testing.T) {
	out, err := NewTableFormatter().FormatStatus(statusResult())
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}

	for _, want := range []string{
		"michaeljoseph/test_app",
		"Scanned from: 0.0.1",
		"2 changes found since 0.0.1",
		"#11",
		"@someone",
		"enhancement",
		"Release type: feature",
		"0.0.1 => 0.1.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "#11") > strings.Index(out, "#10") {
		t.Error("expected changes in merge order")
	}
}

func TestTableFormatter_FormatStatus_NoChanges(t *testing.T) {
	result := &model.StatusResult{
		Repo:          model.RepoRef{Owner: "o", Name: "r"},
		LatestVersion: model.NewVersion(1, 0, 0),
		Decision: model.ReleaseDecision{
			Type:    model.ReleaseNoChange,
			Current: model.NewVersion(1, 0, 0),
			Next:    model.NewVersion(1, 0, 0),
		},
	}

	out, err := NewTableFormatter().FormatStatus(result)
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}
	if !strings.Contains(out, "No changes found since 1.0.0") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTableFormatter_FormatStage(t *testing.T) {
	result := &model.StageResult{
		Repo:      model.RepoRef{Owner: "o", Name: "r"},
		Decision:  statusResult().Decision,
		NotesPath: "docs/releases/0.1.0-2024-01-02.md",
		VersionFiles: []model.FileChange{
			{Path: "version.go", From: "0.0.1", To: "0.1.0", Replacements: 1},
		},
	}

	out, err := NewTableFormatter().FormatStage(result)
	if err != nil {
		t.Fatalf("FormatStage failed: %v", err)
	}
	if !strings.HasPrefix(out, "Staged Release") {
		t.Errorf("unexpected title:\n%s", out)
	}
	if !strings.Contains(out, "version.go: 0.0.1 → 0.1.0 (1)") {
		t.Errorf("expected version file line:\n%s", out)
	}
}

func TestTableFormatter_FormatPublish_DryRun(t *testing.T) {
	result := &model.PublishResult{
		DryRun:   true,
		Repo:     model.RepoRef{Owner: "o", Name: "r"},
		Decision: statusResult().Decision,
		Request:  model.ReleaseRequest{TagName: "0.1.0", TargetCommitish: "abc123"},
	}

	out, err := NewTableFormatter().FormatPublish(result)
	if err != nil {
		t.Fatalf("FormatPublish failed: %v", err)
	}
	if !strings.Contains(out, "Would create release 0.1.0 targeting abc123") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestJSONFormatter_FormatStatus(t *testing.T) {
	out, err := NewJSONFormatter().FormatStatus(statusResult())
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}

	var decoded struct {
		LatestVersion string `json:"latestVersion"`
		ReleaseNeeded bool   `json:"releaseNeeded"`
		NextVersion   string `json:"nextVersion"`
		ChangeCount   int    `json:"changeCount"`
		Decision      struct {
			Type string `json:"type"`
			Next string `json:"next"`
		} `json:"decision"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if decoded.LatestVersion != "0.0.1" || decoded.ChangeCount != 2 {
		t.Errorf("unexpected status: %+v", decoded)
	}
	if decoded.Decision.Type != "feature" || decoded.Decision.Next != "0.1.0" {
		t.Errorf("unexpected decision: %+v", decoded.Decision)
	}
	if !decoded.ReleaseNeeded || decoded.NextVersion != "0.1.0" {
		t.Errorf("unexpected summary: releaseNeeded=%v nextVersion=%s", decoded.ReleaseNeeded, decoded.NextVersion)
	}
}

func TestJSONFormatter_FormatStatus_NoRelease(t *testing.T) {
	result := &model.StatusResult{
		LatestVersion: model.NewVersion(1, 0, 0),
		Decision: model.ReleaseDecision{
			Type:    model.ReleaseNoChange,
			Current: model.NewVersion(1, 0, 0),
			Next:    model.NewVersion(1, 0, 0),
		},
	}

	out, err := NewJSONFormatter().FormatStatus(result)
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}
	if !strings.Contains(out, `"releaseNeeded": false`) || !strings.Contains(out, `"nextVersion": "1.0.0"`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	f := &JSONFormatter{Indent: false}
	out, err := f.FormatLabels(&model.LabelsResult{Labels: []model.Label{{Name: "bug"}}})
	if err != nil {
		t.Fatalf("FormatLabels failed: %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("expected compact output, got %s", out)
	}
}

func TestMarkdownFormatter_FormatStatus(t *testing.T) {
	out, err := NewMarkdownFormatter().FormatStatus(statusResult())
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}

	if !strings.HasPrefix(out, "# Release Status: michaeljoseph/test_app") {
		t.Errorf("unexpected heading:\n%s", out)
	}
	if !strings.Contains(out, `| #10 | Fix \| the bug | @other | bug |`) {
		t.Errorf("expected escaped table row:\n%s", out)
	}
}

func TestMarkdownFormatter_FormatLabels(t *testing.T) {
	result := &model.LabelsResult{
		Repo: model.RepoRef{Owner: "o", Name: "r"},
		Labels: []model.Label{
			{Name: "bug", Description: "Bug fixes", Changelog: true},
			{Name: "fix"},
		},
		Canonical: map[string]string{"fix": "bug"},
	}

	out, err := NewMarkdownFormatter().FormatLabels(result)
	if err != nil {
		t.Fatalf("FormatLabels failed: %v", err)
	}
	if !strings.Contains(out, "| bug | ✅ |  | Bug fixes |") {
		t.Errorf("expected bug row:\n%s", out)
	}
	if !strings.Contains(out, "| fix |  | bug |  |") {
		t.Errorf("expected fix row:\n%s", out)
	}
}

func TestCSVFormatter_FormatStatus(t *testing.T) {
	out, err := NewCSVFormatter().FormatStatus(statusResult())
	if err != nil {
		t.Fatalf("FormatStatus failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1][4] != "11" || records[1][3] != "feature" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][5] != "Fix | the bug" {
		t.Errorf("unexpected title: %q", records[2][5])
	}
}

func TestCSVFormatter_FormatPublish(t *testing.T) {
	result := &model.PublishResult{
		Repo:    model.RepoRef{Owner: "o", Name: "r"},
		Request: model.ReleaseRequest{TagName: "0.1.0"},
		Release: &model.Release{TagName: "0.1.0", Name: "0.1.0", HTMLURL: "https://github.com/o/r/releases/tag/0.1.0"},
		Assets:  []model.Asset{{Name: "dist.tar.gz", DownloadURL: "https://example.com/dist.tar.gz"}},
	}

	out, err := NewCSVFormatter().FormatPublish(result)
	if err != nil {
		t.Fatalf("FormatPublish failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1][2] != "created" || records[2][2] != "asset" {
		t.Errorf("unexpected rows: %v", records)
	}
}
