// Package report renders command results as table, JSON, Markdown or CSV.
package report

import (
	"fmt"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatStatus formats the release state of a repository.
	FormatStatus(result *model.StatusResult) (string, error)

	// FormatStage formats a stage result.
	FormatStage(result *model.StageResult) (string, error)

	// FormatPublish formats a publish result.
	FormatPublish(result *model.PublishResult) (string, error)

	// FormatLabels formats a label catalogue.
	FormatLabels(result *model.LabelsResult) (string, error)
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown":
		return NewMarkdownFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func bumpSummary(d model.ReleaseDecision) string {
	if !d.HasChanges() {
		return fmt.Sprintf("%s (no release needed)", d.Current)
	}
	return fmt.Sprintf("%s => %s", d.Current, d.Next)
}
