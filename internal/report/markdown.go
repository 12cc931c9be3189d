package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatStatus formats the release state as Markdown.
func (f *MarkdownFormatter) FormatStatus(result *model.StatusResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Release Status: %s\n\n", result.Repo.FullName()))
	sb.WriteString(fmt.Sprintf("**Checked:** %s\n\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Latest Version:** %s\n\n", result.LatestVersion))
	if result.Base != "" {
		sb.WriteString(fmt.Sprintf("**Scanned From:** `%s`\n\n", result.Base))
	}
	sb.WriteString(fmt.Sprintf("**Changes:** %d\n\n", result.ChangeCount))
	sb.WriteString(fmt.Sprintf("**Release Type:** %s\n\n", result.Decision.Type))
	sb.WriteString(fmt.Sprintf("**Proposed Version:** %s\n\n", bumpSummary(result.Decision)))

	if len(result.Changes) > 0 {
		sb.WriteString("## Changes\n\n")
		sb.WriteString("| PR | Title | Author | Labels |\n")
		sb.WriteString("|----|-------|--------|--------|\n")

		for _, cr := range result.Changes {
			sb.WriteString(fmt.Sprintf("| #%d | %s | @%s | %s |\n",
				cr.Number,
				escapePipes(truncate(cr.Title, 60)),
				cr.Author,
				strings.Join(cr.Labels, ", "),
			))
		}
	}

	return sb.String(), nil
}

// FormatStage formats a stage result as Markdown.
func (f *MarkdownFormatter) FormatStage(result *model.StageResult) (string, error) {
	var sb strings.Builder

	title := "Staged Release"
	switch {
	case result.Discarded:
		title = "Discarded Staged Release"
	case result.DryRun:
		title = "Stage Dry Run"
	}
	sb.WriteString(fmt.Sprintf("# %s: %s\n\n", title, result.Repo.FullName()))
	sb.WriteString(fmt.Sprintf("**Version:** %s\n\n", bumpSummary(result.Decision)))

	if result.Skipped != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", result.Skipped))
		return sb.String(), nil
	}

	if result.NotesPath != "" {
		sb.WriteString(fmt.Sprintf("**Release Notes:** `%s`\n\n", result.NotesPath))
	}

	if len(result.VersionFiles) > 0 {
		sb.WriteString("## Version Files\n\n")
		sb.WriteString("| File | From | To | Replacements |\n")
		sb.WriteString("|------|------|----|--------------|\n")
		for _, fc := range result.VersionFiles {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n", fc.Path, fc.From, fc.To, fc.Replacements))
		}
		sb.WriteString("\n")
	}

	if result.DryRun && result.Notes != "" {
		sb.WriteString("## Release Notes Preview\n\n")
		sb.WriteString(result.Notes)
	}

	return sb.String(), nil
}

// FormatPublish formats a publish result as Markdown.
func (f *MarkdownFormatter) FormatPublish(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	if result.DryRun {
		sb.WriteString("# Publish Dry Run")
	} else {
		sb.WriteString("# Publish Results")
	}
	sb.WriteString(fmt.Sprintf(": %s\n\n", result.Repo.FullName()))
	sb.WriteString(fmt.Sprintf("**Version:** %s\n\n", bumpSummary(result.Decision)))

	if result.Skipped != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", result.Skipped))
		return sb.String(), nil
	}

	if result.Release != nil {
		sb.WriteString(fmt.Sprintf("**Release:** [%s](%s)\n\n", result.Release.TagName, result.Release.HTMLURL))
	} else {
		sb.WriteString(fmt.Sprintf("**Release:** %s (not created)\n\n", result.Request.TagName))
	}

	if len(result.Assets) > 0 {
		sb.WriteString("## Assets\n\n")
		for _, a := range result.Assets {
			if a.DownloadURL != "" {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", a.Name, a.DownloadURL))
			} else {
				sb.WriteString(fmt.Sprintf("- %s\n", a.Name))
			}
		}
	}

	return sb.String(), nil
}

// FormatLabels formats a label catalogue as Markdown.
func (f *MarkdownFormatter) FormatLabels(result *model.LabelsResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Labels: %s\n\n", result.Repo.FullName()))

	if len(result.Labels) == 0 {
		sb.WriteString("No labels found.\n")
		return sb.String(), nil
	}

	sb.WriteString("| Label | Changelog | Canonical | Description |\n")
	sb.WriteString("|-------|-----------|-----------|-------------|\n")
	for _, l := range result.Labels {
		changelog := ""
		if l.Changelog {
			changelog = "✅"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			l.Name, changelog, result.Canonical[l.Name], escapePipes(l.Description)))
	}

	return sb.String(), nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
