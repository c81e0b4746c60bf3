package validate

import (
	"bytes"
	"encoding/json"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// pruneRaw removes null values, empty strings and empty arrays from a raw
// JSON value, recursively. Returns nil when the value prunes away entirely.
// Empty objects are kept; they carry shape, not absence.
func pruneRaw(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		if bytes.Equal(trimmed, []byte(`""`)) {
			return nil
		}
		return trimmed
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return trimmed
		}
		kept := make([]json.RawMessage, 0, len(items))
		for _, it := range items {
			if p := pruneRaw(it); p != nil {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		out, err := json.Marshal(kept)
		if err != nil {
			return trimmed
		}
		return out
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return trimmed
		}
		kept := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			if p := pruneRaw(v); p != nil {
				kept[k] = p
			}
		}
		out, err := json.Marshal(kept)
		if err != nil {
			return trimmed
		}
		return out
	default:
		return trimmed
	}
}

// pruneExtra prunes every value in an Extra bag in place, dropping keys that
// prune away entirely.
func pruneExtra(extra map[string]json.RawMessage) {
	for k, v := range extra {
		if p := pruneRaw(v); p == nil {
			delete(extra, k)
		} else {
			extra[k] = p
		}
	}
}

// pruneModel prunes every Extra bag a record carries: the top level, the
// general section, media and attachment entries, and labeled spec entries.
// The typed desc, longDesc and attachmentName fields are untouched; empty
// strings there are deliberate.
func pruneModel(m *catalog.Model) {
	pruneExtra(m.Extra)
	pruneExtra(m.General.Extra)
	for i := range m.Images {
		pruneExtra(m.Images[i].Extra)
	}
	for i := range m.Videos {
		pruneExtra(m.Videos[i].Extra)
	}
	for i := range m.Attachments {
		pruneExtra(m.Attachments[i].Extra)
	}
	for _, sec := range m.Sections {
		for _, entry := range sec {
			pruneExtra(entry.Extra)
		}
	}
}
