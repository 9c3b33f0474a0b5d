package report

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats documents as YAML.
// It produces the same structure and keys as JSONFormatter.
type YAMLFormatter struct{}

// Format writes the formatted document to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, doc any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	}, "yml")
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
