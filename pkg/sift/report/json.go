package report

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter formats documents as indented JSON.
// Non-ASCII characters and HTML-sensitive characters are written as-is.
type JSONFormatter struct{}

// Format writes the formatted document to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, doc any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
