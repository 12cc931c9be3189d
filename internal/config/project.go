package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the per-repository settings file.
const ProjectFileName = ".changes.yaml"

// DefaultReleasesDirectory is where staged release notes are written.
const DefaultReleasesDirectory = "docs/releases"

// Project holds per-repository release settings.
type Project struct {
	ReleasesDirectory string                 `yaml:"releases_directory"`
	TagPrefix         string                 `yaml:"tag_prefix,omitempty"`
	VersionFiles      []string               `yaml:"version_files,omitempty"`
	Labels            map[string]LabelConfig `yaml:"labels,omitempty"`
}

// LabelConfig describes a changelog-relevant forge label.
type LabelConfig struct {
	// Description is the release notes heading. Defaults to the title-cased label name.
	Description string `yaml:"description,omitempty"`

	// Canonical maps the label onto the classifier vocabulary: "enhancement" or "bug".
	Canonical string `yaml:"canonical,omitempty"`
}

// DefaultProject returns the settings used when no project file exists.
func DefaultProject() *Project {
	return &Project{
		ReleasesDirectory: DefaultReleasesDirectory,
		Labels: map[string]LabelConfig{
			"bug":         {},
			"enhancement": {},
		},
	}
}

// LabelNames returns the configured label names, sorted.
func (p *Project) LabelNames() []string {
	names := make([]string, 0, len(p.Labels))
	for name := range p.Labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReleasesPath returns the releases directory below the repository root.
func (p *Project) ReleasesPath(root string) string {
	if filepath.IsAbs(p.ReleasesDirectory) {
		return p.ReleasesDirectory
	}
	return filepath.Join(root, p.ReleasesDirectory)
}

// LoadProject reads the project file in root, falling back to DefaultProject.
func LoadProject(root string) (*Project, error) {
	path := filepath.Join(root, ProjectFileName)

	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultProject(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	return LoadProjectFromBytes(data)
}

// LoadProjectFromBytes parses project settings from YAML.
// Missing fields keep their defaults.
func LoadProjectFromBytes(data []byte) (*Project, error) {
	project := &Project{ReleasesDirectory: DefaultReleasesDirectory}
	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}

	if project.ReleasesDirectory == "" {
		project.ReleasesDirectory = DefaultReleasesDirectory
	}
	if len(project.Labels) == 0 {
		project.Labels = DefaultProject().Labels
	}
	return project, nil
}

// SaveProject writes the project file to root.
func SaveProject(project *Project, root string) error {
	data, err := yaml.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.WriteFile(filepath.Join(root, ProjectFileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}
