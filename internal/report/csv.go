package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/grokify/releaseconductor/pkg/model"
)

// CSVFormatter formats results as CSV.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// FormatStatus lists the changes since the latest version as CSV.
func (f *CSVFormatter) FormatStatus(result *model.StatusResult) (string, error) {
	header := []string{"Repository", "Latest Version", "Next Version", "Release Type", "PR Number", "Title", "Author", "Labels"}

	var rows [][]string
	for _, cr := range result.Changes {
		rows = append(rows, []string{
			result.Repo.FullName(),
			result.LatestVersion.String(),
			result.Decision.Next.String(),
			string(result.Decision.Type),
			strconv.Itoa(cr.Number),
			cr.Title,
			cr.Author,
			cr.LabelList(),
		})
	}

	return writeCSV(header, rows)
}

// FormatStage lists the staged files as CSV.
func (f *CSVFormatter) FormatStage(result *model.StageResult) (string, error) {
	header := []string{"Repository", "Version", "File", "From", "To", "Replacements", "Status"}

	status := "staged"
	switch {
	case result.Discarded:
		status = "discarded"
	case result.DryRun:
		status = "dry-run"
	}

	var rows [][]string
	if result.Skipped != "" {
		rows = append(rows, []string{result.Repo.FullName(), result.Decision.Next.String(), "", "", "", "", result.Skipped})
	}
	if result.NotesPath != "" {
		rows = append(rows, []string{result.Repo.FullName(), result.Decision.Next.String(), result.NotesPath, "", "", "", status})
	}
	for _, fc := range result.VersionFiles {
		rows = append(rows, []string{
			result.Repo.FullName(),
			result.Decision.Next.String(),
			fc.Path,
			fc.From,
			fc.To,
			strconv.Itoa(fc.Replacements),
			status,
		})
	}

	return writeCSV(header, rows)
}

// FormatPublish formats a publish result as CSV.
func (f *CSVFormatter) FormatPublish(result *model.PublishResult) (string, error) {
	header := []string{"Repository", "Tag", "Status", "Details", "URL"}

	var rows [][]string
	switch {
	case result.Skipped != "":
		rows = append(rows, []string{result.Repo.FullName(), result.Request.TagName, "skipped", result.Skipped, ""})
	case result.Release != nil:
		rows = append(rows, []string{result.Repo.FullName(), result.Release.TagName, "created", result.Release.Name, result.Release.HTMLURL})
	default:
		rows = append(rows, []string{result.Repo.FullName(), result.Request.TagName, "dry-run", result.Request.TargetCommitish, ""})
	}
	for _, a := range result.Assets {
		rows = append(rows, []string{result.Repo.FullName(), result.Request.TagName, "asset", a.Name, a.DownloadURL})
	}

	return writeCSV(header, rows)
}

// FormatLabels formats a label catalogue as CSV.
func (f *CSVFormatter) FormatLabels(result *model.LabelsResult) (string, error) {
	header := []string{"Repository", "Label", "Color", "Changelog", "Canonical", "Description"}

	var rows [][]string
	for _, l := range result.Labels {
		rows = append(rows, []string{
			result.Repo.FullName(),
			l.Name,
			l.Color,
			strconv.FormatBool(l.Changelog),
			result.Canonical[l.Name],
			l.Description,
		})
	}

	return writeCSV(header, rows)
}

func writeCSV(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}
