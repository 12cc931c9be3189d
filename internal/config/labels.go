package config

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

// LabelMapper translates project label names into the classifier vocabulary
// and describes them for release notes.
type LabelMapper struct {
	labels map[string]LabelConfig
	title  cases.Caser
}

// NewLabelMapper creates a mapper for the project's labels.
func NewLabelMapper(project *Project) *LabelMapper {
	return &LabelMapper{
		labels: project.Labels,
		title:  cases.Title(language.English),
	}
}

// Canonical returns the classifier label for name, or name itself.
func (m *LabelMapper) Canonical(name string) string {
	if lc, ok := m.labels[name]; ok && lc.Canonical != "" {
		return lc.Canonical
	}
	return name
}

// Canonicalize returns copies of changes with labels mapped to the classifier vocabulary.
// Label order is kept and duplicates produced by the mapping are removed.
func (m *LabelMapper) Canonicalize(changes []model.ChangeRequest) []model.ChangeRequest {
	out := make([]model.ChangeRequest, len(changes))
	for i, cr := range changes {
		out[i] = cr
		if len(cr.Labels) == 0 {
			continue
		}
		seen := make(map[string]bool, len(cr.Labels))
		out[i].Labels = make([]string, 0, len(cr.Labels))
		for _, l := range cr.Labels {
			c := m.Canonical(l)
			if seen[c] {
				continue
			}
			seen[c] = true
			out[i].Labels = append(out[i].Labels, c)
		}
	}
	return out
}

// Mapping returns the configured labels that map onto a different canonical name.
func (m *LabelMapper) Mapping() map[string]string {
	mapping := make(map[string]string)
	for name, lc := range m.labels {
		if lc.Canonical != "" && lc.Canonical != name {
			mapping[name] = lc.Canonical
		}
	}
	return mapping
}

// IsChangelog reports whether the label gets its own release notes section.
func (m *LabelMapper) IsChangelog(name string) bool {
	_, ok := m.labels[name]
	return ok
}

// Heading returns the release notes heading for a label.
func (m *LabelMapper) Heading(name string) string {
	if lc, ok := m.labels[name]; ok && lc.Description != "" {
		return lc.Description
	}
	return m.title.String(name)
}

// Decorate flags changelog-relevant labels in a forge catalogue.
// Configured descriptions replace the forge description.
func (m *LabelMapper) Decorate(labels []model.Label) []model.Label {
	out := make([]model.Label, len(labels))
	for i, l := range labels {
		out[i] = l
		out[i].Changelog = m.IsChangelog(l.Name)
		if lc := m.labels[l.Name]; lc.Description != "" {
			out[i].Description = lc.Description
		}
	}
	return out
}

// Validate checks that canonical names belong to the classifier vocabulary.
func (m *LabelMapper) Validate() error {
	for name, lc := range m.labels {
		switch lc.Canonical {
		case "", releaser.LabelEnhancement, releaser.LabelBug:
		default:
			return &InvalidLabelError{Label: name, Canonical: lc.Canonical}
		}
	}
	return nil
}

// InvalidLabelError reports a label mapped outside the classifier vocabulary.
type InvalidLabelError struct {
	Label     string
	Canonical string
}

func (e *InvalidLabelError) Error() string {
	return "label " + e.Label + " maps to unknown canonical label " + e.Canonical +
		": use " + releaser.LabelEnhancement + " or " + releaser.LabelBug
}
