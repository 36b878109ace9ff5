package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as YAML. Struct fields are named by their yaml tag.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
