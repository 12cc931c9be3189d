package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grokify/releaseconductor/pkg/model"
)

func testMapper() *LabelMapper {
	return NewLabelMapper(&Project{Labels: map[string]LabelConfig{
		"feature":     {Description: "New Features", Canonical: "enhancement"},
		"enhancement": {},
		"bug":         {Description: "Bug Fixes"},
		"regression":  {Canonical: "bug"},
	}})
}

func TestLabelMapper_Canonicalize(t *testing.T) {
	changes := []model.ChangeRequest{
		{Number: 1, Labels: []string{"feature", "docs", "enhancement"}},
		{Number: 2, Labels: []string{"regression"}},
		{Number: 3},
	}

	got := testMapper().Canonicalize(changes)

	assert.Equal(t, []string{"enhancement", "docs"}, got[0].Labels)
	assert.Equal(t, []string{"bug"}, got[1].Labels)
	assert.Empty(t, got[2].Labels)
	assert.Equal(t, []string{"feature", "docs", "enhancement"}, changes[0].Labels, "input must not be modified")
}

func TestLabelMapper_Heading(t *testing.T) {
	m := testMapper()

	assert.Equal(t, "New Features", m.Heading("feature"))
	assert.Equal(t, "Enhancement", m.Heading("enhancement"))
	assert.Equal(t, "Regression", m.Heading("regression"))
	assert.Equal(t, "Good First Issue", m.Heading("good first issue"))
}

func TestLabelMapper_Decorate(t *testing.T) {
	labels := []model.Label{
		{Name: "bug", Description: "Something isn't working"},
		{Name: "question", Description: "Further information is requested"},
		{Name: "enhancement", Description: "New feature or request"},
	}

	got := testMapper().Decorate(labels)

	assert.Equal(t, []model.Label{
		{Name: "bug", Description: "Bug Fixes", Changelog: true},
		{Name: "question", Description: "Further information is requested"},
		{Name: "enhancement", Description: "New feature or request", Changelog: true},
	}, got)
}

func TestLabelMapper_Mapping(t *testing.T) {
	assert.Equal(t, map[string]string{
		"feature":    "enhancement",
		"regression": "bug",
	}, testMapper().Mapping())
}

func TestLabelMapper_Validate(t *testing.T) {
	assert.NoError(t, testMapper().Validate())

	m := NewLabelMapper(&Project{Labels: map[string]LabelConfig{"breaking": {Canonical: "major"}}})
	var invalid *InvalidLabelError
	assert.ErrorAs(t, m.Validate(), &invalid)
}
