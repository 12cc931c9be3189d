// Package changelog renders and stages release notes files.
package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/grokify/releaseconductor/pkg/model"
)

// DateLayout is the date format used in release notes titles and file names.
const DateLayout = "2006-01-02"

// OtherHeading collects changes without a changelog label.
const OtherHeading = "Other changes"

// Section groups change requests by label.
type Section struct {
	Label   string
	Heading string
}

// Notes is the content of a release notes file.
type Notes struct {
	Version     model.SemanticVersion
	Date        time.Time
	Name        string
	Description string
	Changes     []model.ChangeRequest
}

// Render formats the notes as markdown. Each change request is listed once, under
// the first section whose label it carries, or under OtherHeading.
func Render(n Notes, sections []Section) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (%s)\n", n.Version, n.Date.Format(DateLayout))
	if n.Name != "" {
		fmt.Fprintf(&sb, "\n**%s**\n", n.Name)
	}
	if n.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", strings.TrimSpace(n.Description))
	}

	grouped := make([][]model.ChangeRequest, len(sections))
	var other []model.ChangeRequest

	for _, cr := range n.Changes {
		placed := false
		for i, s := range sections {
			if cr.HasLabel(s.Label) {
				grouped[i] = append(grouped[i], cr)
				placed = true
				break
			}
		}
		if !placed {
			other = append(other, cr)
		}
	}

	for i, s := range sections {
		writeSection(&sb, s.Heading, grouped[i])
	}
	writeSection(&sb, OtherHeading, other)

	return sb.String()
}

func writeSection(sb *strings.Builder, heading string, changes []model.ChangeRequest) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n\n", heading)
	for _, cr := range changes {
		sb.WriteString(Entry(cr))
		sb.WriteString("\n")
	}
}

// Entry formats a single change request line.
func Entry(cr model.ChangeRequest) string {
	if cr.Author == "" {
		return fmt.Sprintf("* #%d %s", cr.Number, cr.Title)
	}
	return fmt.Sprintf("* #%d %s (@%s)", cr.Number, cr.Title, cr.Author)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and replaces runs of other characters with a dash.
func Slug(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// FileName returns <version>-<date>[-<slug>].md.
func FileName(v model.SemanticVersion, date time.Time, name string) string {
	base := v.String() + "-" + date.Format(DateLayout)
	if slug := Slug(name); slug != "" {
		base += "-" + slug
	}
	return base + ".md"
}

// Write stores the notes in dir, creating it if needed, and returns the file path.
func Write(dir, fileName, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create releases directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306
		return "", fmt.Errorf("failed to write release notes: %w", err)
	}
	return path, nil
}

// Find returns the staged notes files for a version, sorted.
func Find(dir string, v model.SemanticVersion) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), v.String()+"-*.md")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search release notes: %w", err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

// Discard removes the staged notes files for a version and returns them.
func Discard(dir string, v model.SemanticVersion) ([]string, error) {
	paths, err := Find(dir, v)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return paths, nil
}

// Latest returns the contents of the last staged notes file for a version in name order.
// It returns "" if none is staged.
func Latest(dir string, v model.SemanticVersion) (string, error) {
	paths, err := Find(dir, v)
	if err != nil || len(paths) == 0 {
		return "", err
	}

	data, err := os.ReadFile(paths[len(paths)-1])
	if err != nil {
		return "", fmt.Errorf("failed to read release notes: %w", err)
	}
	return string(data), nil
}
