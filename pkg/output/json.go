package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONTo writes any data structure as indented JSON to w.
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	// symbols like < > & must stay readable
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// YAMLTo writes any data structure as YAML to w.
func YAMLTo(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
