package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatStatus formats the release state as a text table.
func (f *TableFormatter) FormatStatus(result *model.StatusResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Release Status (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Repository: %s | Latest Version: %s\n", result.Repo.FullName(), result.LatestVersion))
	if result.Base != "" {
		sb.WriteString(fmt.Sprintf("Scanned from: %s\n", result.Base))
	}
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if len(result.Changes) == 0 {
		sb.WriteString(fmt.Sprintf("No changes found since %s.\n", result.LatestVersion))
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%d changes found since %s\n\n", result.ChangeCount, result.LatestVersion))
	sb.WriteString(fmt.Sprintf("%-7s %-45s %-15s %s\n", "PR", "TITLE", "AUTHOR", "LABELS"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, cr := range result.Changes {
		sb.WriteString(fmt.Sprintf("#%-6d %-45s %-15s %s\n",
			cr.Number,
			truncate(cr.Title, 45),
			truncate("@"+cr.Author, 15),
			cr.LabelList(),
		))
	}

	sb.WriteString(fmt.Sprintf("\nRelease type: %s | Bump: %s | %s\n",
		result.Decision.Type, result.Decision.Bump, bumpSummary(result.Decision)))

	return sb.String(), nil
}

// FormatStage formats a stage result as text.
func (f *TableFormatter) FormatStage(result *model.StageResult) (string, error) {
	var sb strings.Builder

	switch {
	case result.Discarded:
		sb.WriteString("Discarded Staged Release")
	case result.DryRun:
		sb.WriteString("Stage Dry Run Results")
	default:
		sb.WriteString("Staged Release")
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Repository: %s | %s\n", result.Repo.FullName(), bumpSummary(result.Decision)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if result.Skipped != "" {
		sb.WriteString(fmt.Sprintf("  ⏭️  %s\n", result.Skipped))
		return sb.String(), nil
	}

	if result.NotesPath != "" {
		sb.WriteString(fmt.Sprintf("\nRelease notes: %s\n", result.NotesPath))
	}
	if len(result.VersionFiles) > 0 {
		sb.WriteString("\nVersion files:\n")
		for _, fc := range result.VersionFiles {
			sb.WriteString(fmt.Sprintf("  ✅ %s: %s → %s (%d)\n", fc.Path, fc.From, fc.To, fc.Replacements))
		}
	}
	if result.DryRun && result.Notes != "" {
		sb.WriteString("\n" + result.Notes)
	}

	return sb.String(), nil
}

// FormatPublish formats a publish result as text.
func (f *TableFormatter) FormatPublish(result *model.PublishResult) (string, error) {
	var sb strings.Builder

	if result.DryRun {
		sb.WriteString("Publish Dry Run Results")
	} else {
		sb.WriteString("Publish Results")
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Repository: %s | %s\n", result.Repo.FullName(), bumpSummary(result.Decision)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if result.Skipped != "" {
		sb.WriteString(fmt.Sprintf("  ⏭️  %s\n", result.Skipped))
		return sb.String(), nil
	}

	if result.Release != nil {
		sb.WriteString(fmt.Sprintf("  ✅ Release %s: %s\n", result.Release.TagName, result.Release.HTMLURL))
	} else {
		sb.WriteString(fmt.Sprintf("  Would create release %s targeting %s\n",
			result.Request.TagName, result.Request.TargetCommitish))
	}

	for _, a := range result.Assets {
		sb.WriteString(fmt.Sprintf("  📦 %s (%d bytes)\n", a.Name, a.Size))
	}

	return sb.String(), nil
}

// FormatLabels formats a label catalogue as a text table.
func (f *TableFormatter) FormatLabels(result *model.LabelsResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Labels for %s (%s)\n", result.Repo.FullName(), result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if len(result.Labels) == 0 {
		sb.WriteString("No labels found.\n")
		return sb.String(), nil
	}

	sb.WriteString(fmt.Sprintf("%-25s %-10s %-15s %s\n", "NAME", "CHANGELOG", "CANONICAL", "DESCRIPTION"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, l := range result.Labels {
		changelog := ""
		if l.Changelog {
			changelog = "✅"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-10s %-15s %s\n",
			truncate(l.Name, 25), changelog, result.Canonical[l.Name], truncate(l.Description, 40)))
	}

	return sb.String(), nil
}
