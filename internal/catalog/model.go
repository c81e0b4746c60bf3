// Package catalog defines the typed representation of product-catalog
// records. Records arrive as loosely structured JSON; every type here keeps
// an Extra bag of unrecognized fields so a load/save round-trip loses no data.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SectionNames lists the specification sections a model may carry, in
// canonical output order.
var SectionNames = []string{
	"engine", "operational", "measurements", "hydraulics",
	"weights", "dimensions", "electrical", "drivetrain",
	"body", "other",
}

// Model is one catalog record: a single product/model entry.
type Model struct {
	General     General
	Images      []Media
	Videos      []Media
	Attachments []Attachment
	Features    []json.RawMessage
	Options     []json.RawMessage
	ProductURI  string

	// Sections holds the spec sections present on this model, keyed by
	// section name (see SectionNames).
	Sections map[string]Section

	// Extra holds fields this package does not model.
	Extra map[string]json.RawMessage
}

// Section is one specification section: spec entries keyed by attribute name.
type Section map[string]SpecEntry

// General is the general section of a model. Text fields are pointers so a
// missing field is distinguishable from an empty one; year, msrp and
// countries stay raw because source files carry them as numbers, strings or
// garbage, and the validator owns their coercion.
type General struct {
	Manufacturer *string
	Model        *string
	Year         json.RawMessage
	MSRP         json.RawMessage
	Category     *string
	Subcategory  *string
	Description  *string
	Countries    json.RawMessage

	Extra map[string]json.RawMessage
}

// Media is an image or video entry. Source files sometimes carry a bare URL
// string instead of an object; UnmarshalJSON accepts both.
type Media struct {
	Src      string
	Desc     string
	LongDesc string

	Extra map[string]json.RawMessage
}

// Attachment is a document (usually PDF) linked from a model.
type Attachment struct {
	Location    string
	Description string
	Name        string

	Extra map[string]json.RawMessage
}

// SpecEntry is one attribute inside a spec section. Entries that are not
// {label, desc} objects are preserved verbatim in raw.
type SpecEntry struct {
	Label string
	Desc  string

	Extra map[string]json.RawMessage
	raw   json.RawMessage
}

// IsLabeled reports whether the entry was a {label, desc} object.
func (e SpecEntry) IsLabeled() bool { return e.raw == nil }

// RawSpecEntry wraps a verbatim value for entries that do not follow the
// {label, desc} shape.
func RawSpecEntry(raw json.RawMessage) SpecEntry { return SpecEntry{raw: raw} }

// Name returns the model name from the general section, or "Unknown Model"
// when absent.
func (m *Model) Name() string {
	if m.General.Model != nil && *m.General.Model != "" {
		return *m.General.Model
	}
	return "Unknown Model"
}

func decodeString(raw json.RawMessage) (*string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UnmarshalJSON decodes a model, routing unknown keys into Extra.
func (m *Model) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for key, raw := range fields {
		var err error
		switch key {
		case "general":
			err = json.Unmarshal(raw, &m.General)
		case "images":
			err = json.Unmarshal(raw, &m.Images)
		case "videos":
			err = json.Unmarshal(raw, &m.Videos)
		case "attachments":
			err = json.Unmarshal(raw, &m.Attachments)
		case "features":
			err = json.Unmarshal(raw, &m.Features)
		case "options":
			err = json.Unmarshal(raw, &m.Options)
		case "productUri":
			err = json.Unmarshal(raw, &m.ProductURI)
		default:
			if isSectionName(key) {
				var sec Section
				if err = json.Unmarshal(raw, &sec); err == nil {
					if m.Sections == nil {
						m.Sections = make(map[string]Section)
					}
					m.Sections[key] = sec
					continue
				}
				// Not an object: keep it verbatim.
				err = nil
			}
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[key] = raw
			continue
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON encodes a model with a stable field order: general, media,
// lists, sections, then Extra keys sorted.
func (m Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := newObjectWriter(&buf)

	if err := w.field("general", m.General); err != nil {
		return nil, err
	}
	if len(m.Images) > 0 {
		if err := w.field("images", m.Images); err != nil {
			return nil, err
		}
	}
	if len(m.Videos) > 0 {
		if err := w.field("videos", m.Videos); err != nil {
			return nil, err
		}
	}
	if len(m.Attachments) > 0 {
		if err := w.field("attachments", m.Attachments); err != nil {
			return nil, err
		}
	}
	if len(m.Features) > 0 {
		if err := w.field("features", m.Features); err != nil {
			return nil, err
		}
	}
	if len(m.Options) > 0 {
		if err := w.field("options", m.Options); err != nil {
			return nil, err
		}
	}
	if m.ProductURI != "" {
		if err := w.field("productUri", m.ProductURI); err != nil {
			return nil, err
		}
	}
	for _, name := range SectionNames {
		sec, ok := m.Sections[name]
		if !ok || len(sec) == 0 {
			continue
		}
		if err := w.field(name, sec); err != nil {
			return nil, err
		}
	}
	if err := w.extra(m.Extra); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

// UnmarshalJSON decodes the general section, routing unknown keys into Extra.
func (g *General) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for key, raw := range fields {
		var err error
		switch key {
		case "manufacturer":
			g.Manufacturer, err = decodeString(raw)
		case "model":
			g.Model, err = decodeString(raw)
		case "category":
			g.Category, err = decodeString(raw)
		case "subcategory":
			g.Subcategory, err = decodeString(raw)
		case "description":
			g.Description, err = decodeString(raw)
		case "year":
			g.Year = raw
		case "msrp":
			g.MSRP = raw
		case "countries":
			g.Countries = raw
		default:
			if g.Extra == nil {
				g.Extra = make(map[string]json.RawMessage)
			}
			g.Extra[key] = raw
			continue
		}
		if err != nil {
			return fmt.Errorf("general.%s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON encodes the general section in canonical field order, omitting
// absent and null fields.
func (g General) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := newObjectWriter(&buf)

	strField := func(name string, v *string) error {
		if v == nil || *v == "" {
			return nil
		}
		return w.field(name, *v)
	}

	if err := strField("manufacturer", g.Manufacturer); err != nil {
		return nil, err
	}
	if err := strField("model", g.Model); err != nil {
		return nil, err
	}
	if err := w.rawField("year", g.Year); err != nil {
		return nil, err
	}
	if err := w.rawField("msrp", g.MSRP); err != nil {
		return nil, err
	}
	if err := strField("category", g.Category); err != nil {
		return nil, err
	}
	if err := strField("subcategory", g.Subcategory); err != nil {
		return nil, err
	}
	if err := strField("description", g.Description); err != nil {
		return nil, err
	}
	if err := w.rawField("countries", g.Countries); err != nil {
		return nil, err
	}
	if err := w.extra(g.Extra); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

// UnmarshalJSON accepts either a bare URL string or an object.
func (m *Media) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &m.Src)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, raw := range fields {
		var err error
		switch key {
		case "src":
			err = json.Unmarshal(raw, &m.Src)
		case "desc":
			err = json.Unmarshal(raw, &m.Desc)
		case "longDesc":
			err = json.Unmarshal(raw, &m.LongDesc)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]json.RawMessage)
			}
			m.Extra[key] = raw
			continue
		}
		if err != nil {
			return fmt.Errorf("media.%s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON keeps desc and longDesc even when empty; downstream consumers
// expect the keys to exist.
func (m Media) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := newObjectWriter(&buf)
	if err := w.field("src", m.Src); err != nil {
		return nil, err
	}
	if err := w.field("desc", m.Desc); err != nil {
		return nil, err
	}
	if err := w.field("longDesc", m.LongDesc); err != nil {
		return nil, err
	}
	if err := w.extra(m.Extra); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

// UnmarshalJSON accepts either a bare URL string or an object.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &a.Location)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for key, raw := range fields {
		var err error
		switch key {
		case "attachmentLocation":
			err = json.Unmarshal(raw, &a.Location)
		case "attachmentDescription":
			err = json.Unmarshal(raw, &a.Description)
		case "attachmentName":
			err = json.Unmarshal(raw, &a.Name)
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[key] = raw
			continue
		}
		if err != nil {
			return fmt.Errorf("attachment.%s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON keeps attachmentName even when empty.
func (a Attachment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	w := newObjectWriter(&buf)
	if err := w.field("attachmentLocation", a.Location); err != nil {
		return nil, err
	}
	if err := w.field("attachmentDescription", a.Description); err != nil {
		return nil, err
	}
	if err := w.field("attachmentName", a.Name); err != nil {
		return nil, err
	}
	if err := w.extra(a.Extra); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

// UnmarshalJSON decodes a {label, desc} object, or preserves the raw value
// when the entry has some other shape.
func (e *SpecEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		e.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	if _, ok := fields["label"]; !ok {
		e.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	if _, ok := fields["desc"]; !ok {
		e.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	for key, raw := range fields {
		var err error
		switch key {
		case "label":
			err = json.Unmarshal(raw, &e.Label)
		case "desc":
			err = json.Unmarshal(raw, &e.Desc)
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]json.RawMessage)
			}
			e.Extra[key] = raw
			continue
		}
		if err != nil {
			return fmt.Errorf("spec entry %s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON writes the {label, desc} form, or the preserved raw value.
func (e SpecEntry) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	var buf bytes.Buffer
	w := newObjectWriter(&buf)
	if err := w.field("label", e.Label); err != nil {
		return nil, err
	}
	if err := w.field("desc", e.Desc); err != nil {
		return nil, err
	}
	if err := w.extra(e.Extra); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

func isSectionName(name string) bool {
	for _, s := range SectionNames {
		if s == name {
			return true
		}
	}
	return false
}

// objectWriter builds a JSON object with an explicit field order, which
// encoding/json maps cannot give us.
type objectWriter struct {
	buf   *bytes.Buffer
	first bool
}

func newObjectWriter(buf *bytes.Buffer) *objectWriter {
	buf.WriteByte('{')
	return &objectWriter{buf: buf, first: true}
}

func (w *objectWriter) key(name string) error {
	if !w.first {
		w.buf.WriteByte(',')
	}
	w.first = false
	k, err := json.Marshal(name)
	if err != nil {
		return err
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	return nil
}

func (w *objectWriter) field(name string, v interface{}) error {
	if err := w.key(name); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// rawField writes a raw value, skipping absent and null ones.
func (w *objectWriter) rawField(name string, raw json.RawMessage) error {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := w.key(name); err != nil {
		return err
	}
	w.buf.Write(raw)
	return nil
}

func (w *objectWriter) extra(extra map[string]json.RawMessage) error {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.rawField(k, extra[k]); err != nil {
			return err
		}
	}
	return nil
}

func (w *objectWriter) finish() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
