package report

import (
	"encoding/json"

	"github.com/grokify/releaseconductor/pkg/model"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: true}
}

// statusJSON adds the release summary fields scripts usually branch on.
type statusJSON struct {
	*model.StatusResult
	ReleaseNeeded bool   `json:"releaseNeeded"`
	NextVersion   string `json:"nextVersion"`
}

// FormatStatus formats the release state as JSON, with top level
// releaseNeeded and nextVersion fields.
func (f *JSONFormatter) FormatStatus(result *model.StatusResult) (string, error) {
	return f.marshal(statusJSON{
		StatusResult:  result,
		ReleaseNeeded: result.Decision.HasChanges(),
		NextVersion:   result.Decision.Next.String(),
	})
}

// FormatStage formats a stage result as JSON.
func (f *JSONFormatter) FormatStage(result *model.StageResult) (string, error) {
	return f.marshal(result)
}

// FormatPublish formats a publish result as JSON.
func (f *JSONFormatter) FormatPublish(result *model.PublishResult) (string, error) {
	return f.marshal(result)
}

// FormatLabels formats a label catalogue as JSON.
func (f *JSONFormatter) FormatLabels(result *model.LabelsResult) (string, error) {
	return f.marshal(result)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
