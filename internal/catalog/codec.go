package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a catalog document. Documents carry either a list of models
// or a single model object; both decode to a slice.
func Decode(data []byte) ([]Model, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '[' {
		var models []Model
		if err := json.Unmarshal(trimmed, &models); err != nil {
			return nil, fmt.Errorf("decode model list: %w", err)
		}
		return models, nil
	}

	var m Model
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return []Model{m}, nil
}

// Encode renders models as an indented JSON array, the format the rest of
// the pipeline and downstream importers consume.
func Encode(models []Model) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(models); err != nil {
		return nil, fmt.Errorf("encode models: %w", err)
	}
	return buf.Bytes(), nil
}
