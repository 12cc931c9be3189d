package changelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokify/releaseconductor/pkg/model"
)

var releaseDate = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func TestRender(t *testing.T) {
	notes := Notes{
		Version:     model.NewVersion(0, 1, 0),
		Date:        releaseDate,
		Name:        "Spring Cleaning",
		Description: "Tidies up the configuration.\n",
		Changes: []model.ChangeRequest{
			{Number: 12, Title: "Update docs", Author: "writer", Labels: []string{"docs"}},
			{Number: 11, Title: "Add feature", Author: "octocat", Labels: []string{"enhancement", "bug"}},
			{Number: 10, Title: "Fix crash", Author: "dev", Labels: []string{"bug"}},
		},
	}
	sections := []Section{
		{Label: "enhancement", Heading: "Features"},
		{Label: "bug", Heading: "Bug Fixes"},
		{Label: "security", Heading: "Security"},
	}

	want := `# 0.1.0 (2024-03-05)

**Spring Cleaning**

Tidies up the configuration.

## Features

* #11 Add feature (@octocat)

## Bug Fixes

* #10 Fix crash (@dev)

## Other changes

* #12 Update docs (@writer)
`
	assert.Equal(t, want, Render(notes, sections))
}

func TestRender_NoChanges(t *testing.T) {
	got := Render(Notes{Version: model.NewVersion(1, 0, 0), Date: releaseDate}, nil)

	assert.Equal(t, "# 1.0.0 (2024-03-05)\n", got)
}

func TestEntry(t *testing.T) {
	assert.Equal(t, "* #3 Fix (@dev)", Entry(model.ChangeRequest{Number: 3, Title: "Fix", Author: "dev"}))
	assert.Equal(t, "* #3 Fix", Entry(model.ChangeRequest{Number: 3, Title: "Fix"}))
}

func TestFileName(t *testing.T) {
	v := model.NewVersion(0, 2, 1)

	assert.Equal(t, "0.2.1-2024-03-05.md", FileName(v, releaseDate, ""))
	assert.Equal(t, "0.2.1-2024-03-05-spring-cleaning.md", FileName(v, releaseDate, "Spring Cleaning!"))
	assert.Equal(t, "0.2.1-2024-03-05.md", FileName(v, releaseDate, "!!!"))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Spring Cleaning":      "spring-cleaning",
		"  v2: The Return  ":   "v2-the-return",
		"already-slugged":      "already-slugged",
		"Ünïcode & symbols %$": "n-code-symbols",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestWriteFindDiscard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "releases")
	v := model.NewVersion(0, 1, 0)

	found, err := Find(dir, v)
	require.NoError(t, err)
	assert.Empty(t, found)

	first, err := Write(dir, FileName(v, releaseDate, ""), "first")
	require.NoError(t, err)
	second, err := Write(dir, FileName(v, releaseDate, "named"), "second")
	require.NoError(t, err)
	other, err := Write(dir, FileName(model.NewVersion(0, 0, 1), releaseDate, ""), "older")
	require.NoError(t, err)

	// "-" sorts before ".", so the named file comes first.
	found, err = Find(dir, v)
	require.NoError(t, err)
	assert.Equal(t, []string{second, first}, found)

	latest, err := Latest(dir, v)
	require.NoError(t, err)
	assert.Equal(t, "first", latest)

	removed, err := Discard(dir, v)
	require.NoError(t, err)
	assert.Equal(t, []string{second, first}, removed)

	_, err = os.Stat(first)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(other)
	assert.NoError(t, err)

	latest, err = Latest(dir, v)
	require.NoError(t, err)
	assert.Empty(t, latest)
}
