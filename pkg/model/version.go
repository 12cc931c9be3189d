package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// SemanticVersion is a MAJOR.MINOR.PATCH version triple.
// Values are immutable; the Next* methods return new versions.
// It encodes to JSON and YAML as the "MAJOR.MINOR.PATCH" string.
type SemanticVersion struct {
	Major int
	Minor int
	Patch int
}

// VersionZero is the sentinel returned for repositories without version tags.
var VersionZero = SemanticVersion{}

// strictVersionPattern accepts only a bare numeral triple without leading zeros.
var strictVersionPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)$`)

// NewVersion creates a version from its components.
func NewVersion(major, minor, patch int) SemanticVersion {
	return SemanticVersion{Major: major, Minor: minor, Patch: patch}
}

// ParseVersion parses a strict MAJOR.MINOR.PATCH token.
// Prefixes such as "v", prerelease and build suffixes are rejected.
func ParseVersion(s string) (SemanticVersion, error) {
	m := strictVersionPattern.FindStringSubmatch(s)
	if m == nil {
		return SemanticVersion{}, fmt.Errorf("invalid semantic version: %q", s)
	}

	parts := make([]int, 3)
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return SemanticVersion{}, fmt.Errorf("invalid semantic version: %q: %w", s, err)
		}
		parts[i] = n
	}

	return NewVersion(parts[0], parts[1], parts[2]), nil
}

// IsVersion reports whether s is a strict semantic version token.
func IsVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// String returns the version as MAJOR.MINOR.PATCH.
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is the 0.0.0 sentinel.
func (v SemanticVersion) IsZero() bool {
	return v == VersionZero
}

// NextMajor increments the major version and resets minor and patch.
func (v SemanticVersion) NextMajor() SemanticVersion {
	return SemanticVersion{Major: v.Major + 1}
}

// NextMinor increments the minor version and resets patch.
func (v SemanticVersion) NextMinor() SemanticVersion {
	return SemanticVersion{Major: v.Major, Minor: v.Minor + 1}
}

// NextPatch increments the patch version.
func (v SemanticVersion) NextPatch() SemanticVersion {
	return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// Compare compares two versions numerically, component by component.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	switch {
	case v.Major != other.Major:
		return compareInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return compareInt(v.Minor, other.Minor)
	default:
		return compareInt(v.Patch, other.Patch)
	}
}

// Less reports whether v sorts before other.
func (v SemanticVersion) Less(other SemanticVersion) bool {
	return v.Compare(other) < 0
}

// MarshalText encodes the version as MAJOR.MINOR.PATCH.
func (v SemanticVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a strict MAJOR.MINOR.PATCH token.
func (v *SemanticVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortVersions sorts versions ascending in place.
func SortVersions(versions []SemanticVersion) {
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Less(versions[j])
	})
}

// MaxVersion returns the highest version, or VersionZero for an empty list.
func MaxVersion(versions []SemanticVersion) SemanticVersion {
	latest := VersionZero
	for i, v := range versions {
		if i == 0 || latest.Less(v) {
			latest = v
		}
	}
	return latest
}
