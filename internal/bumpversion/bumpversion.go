// Package bumpversion rewrites version strings in project files.
package bumpversion

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Files resolves version file patterns relative to root.
// Patterns may use ** globs; a pattern that matches nothing is an error.
func Files(root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid version file pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("version file %q not found in %s", pattern, root)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Bump replaces from with to in every version file. Files are only written once
// all of them are known to contain from. With dryRun nothing is written.
func Bump(root string, patterns []string, from, to model.SemanticVersion, dryRun bool) ([]model.FileChange, error) {
	files, err := Files(root, patterns)
	if err != nil {
		return nil, err
	}

	updated := make(map[string][]byte, len(files))
	changes := make([]model.FileChange, 0, len(files))

	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("failed to read version file: %w", err)
		}

		replaced, n := replaceVersion(data, from.String(), to.String())
		if n == 0 {
			return nil, fmt.Errorf("version file %s does not contain version %s", f, from)
		}

		updated[path] = replaced
		changes = append(changes, model.FileChange{
			Path:         f,
			From:         from.String(),
			To:           to.String(),
			Replacements: n,
		})
	}

	if dryRun {
		return changes, nil
	}

	for path, data := range updated {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat version file: %w", err)
		}
		if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("failed to write version file: %w", err)
		}
	}

	return changes, nil
}

// replaceVersion replaces whole occurrences of from with to and returns the count.
// An occurrence that is part of a longer version, like 0.1.0 in 10.1.0 or 0.1.0.2,
// is left alone.
func replaceVersion(data []byte, from, to string) ([]byte, int) {
	var buf bytes.Buffer
	n, last := 0, 0

	for _, loc := range regexp.MustCompile(regexp.QuoteMeta(from)).FindAllIndex(data, -1) {
		if !isBoundary(data, loc[0], loc[1]) {
			continue
		}
		buf.Write(data[last:loc[0]])
		buf.WriteString(to)
		last = loc[1]
		n++
	}
	buf.Write(data[last:])

	return buf.Bytes(), n
}

func isBoundary(data []byte, start, end int) bool {
	if start > 0 && (isDigit(data[start-1]) || data[start-1] == '.') {
		return false
	}
	if end < len(data) {
		next := data[end]
		if isDigit(next) {
			return false
		}
		if next == '.' && end+1 < len(data) && isDigit(data[end+1]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Revert undoes a Bump from from to to.
func Revert(root string, patterns []string, from, to model.SemanticVersion, dryRun bool) ([]model.FileChange, error) {
	return Bump(root, patterns, to, from, dryRun)
}
