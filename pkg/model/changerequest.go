package model

import "strings"

// ChangeRequest is a snapshot of a forge pull request or issue.
type ChangeRequest struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author"`
	Labels      []string `json:"labels,omitempty"`
}

// HasLabel reports whether the change request carries the named label.
func (cr ChangeRequest) HasLabel(name string) bool {
	for _, l := range cr.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// Text returns the title and description joined by a newline.
func (cr ChangeRequest) Text() string {
	return cr.Title + "\n" + cr.Description
}

// LabelList returns the labels as a comma separated list.
func (cr ChangeRequest) LabelList() string {
	return strings.Join(cr.Labels, ",")
}

// Label is a forge repository label.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`

	// Changelog marks labels whose change requests get their own release notes section.
	Changelog bool `json:"changelog"`
}
