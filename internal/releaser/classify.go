package releaser

import (
	"strings"

	"github.com/grokify/releaseconductor/pkg/model"
)

// BreakingChangeMarker in a change request title or description forces a major release.
const BreakingChangeMarker = "BREAKING CHANGE"

// Canonical label names recognized by Classify.
const (
	LabelEnhancement = "enhancement"
	LabelBug         = "bug"
)

// Classify decides the release type and next version for the changes since latest.
//
// The first matching rule wins:
//  1. any change request mentions BreakingChangeMarker: breaking, major bump
//  2. any change request is labeled enhancement: feature, minor bump
//  3. any change request is labeled bug: fix, patch bump
//  4. otherwise: no change, the version stays at latest
//
// Labels must already be mapped to the canonical vocabulary.
// The result does not depend on the order of changes.
func Classify(latest model.SemanticVersion, changes []model.ChangeRequest) model.ReleaseDecision {
	typ := ClassifyChanges(changes)
	bump := typ.Bump()
	return model.ReleaseDecision{
		Bump:    bump,
		Type:    typ,
		Current: latest,
		Next:    bump.Apply(latest),
	}
}

// ClassifyChanges returns the release type of a set of changes: the type of the
// highest precedence change.
func ClassifyChanges(changes []model.ChangeRequest) model.ReleaseType {
	typ := model.ReleaseNoChange
	for _, cr := range changes {
		if t := ClassifyChange(cr); t.Precedence() > typ.Precedence() {
			typ = t
		}
	}
	return typ
}

// ClassifyChange returns the release type a single change request calls for.
func ClassifyChange(cr model.ChangeRequest) model.ReleaseType {
	switch {
	case IsBreaking(cr):
		return model.ReleaseBreaking
	case cr.HasLabel(LabelEnhancement):
		return model.ReleaseFeature
	case cr.HasLabel(LabelBug):
		return model.ReleaseFix
	default:
		return model.ReleaseNoChange
	}
}

// IsBreaking reports whether the change request's title or description carries the marker.
func IsBreaking(cr model.ChangeRequest) bool {
	return strings.Contains(cr.Text(), BreakingChangeMarker)
}
