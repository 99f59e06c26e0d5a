package render

import (
	"encoding/json"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/report"
)

// JSON renders any chart or ranking value as indented JSON. The geometry
// structs carry their own JSON tags, so the output mirrors what the
// interactive chart consumes.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "encoding JSON output")
	}
	return append(data, '\n'), nil
}

// DocumentJSON validates a report document and renders it as indented JSON.
func DocumentJSON(doc *report.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return JSON(doc)
}
