package main

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func encodeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

func encodeJSONLine(w io.Writer, value any) error {
	return json.NewEncoder(w).Encode(value)
}
