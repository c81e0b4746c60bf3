package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// Validator applies the full rule set to catalog models. The deterministic
// rules are total functions; the only non-deterministic input is the Names
// cache, filled by the AI cleaner before validation starts.
type Validator struct {
	// Countries lists the accepted country codes.
	Countries []string

	// Names maps original model names to their corrected spelling.
	Names map[string]string
}

// New returns a Validator with the given accepted countries and an empty
// name cache.
func New(countries []string) *Validator {
	return &Validator{Countries: countries, Names: map[string]string{}}
}

// Validate runs every rule against the model in place and returns the
// per-record result. Rule failures never stop the pass; a panic-worthy
// record is reported as failed instead of aborting the batch.
func (v *Validator) Validate(m *catalog.Model) (res Result) {
	res.Model = m.Name()
	defer func() {
		if r := recover(); r != nil {
			res.Failed = true
			res.Err = fmt.Errorf("record %q: %v", res.Model, r)
		}
	}()

	v.validateGeneral(&m.General, &res)
	res.Model = m.Name() // name may have been corrected

	v.validateImages(m, &res)
	v.validateVideos(m, &res)
	v.validateAttachments(m, &res)

	v.cleanList(&m.Features, "features", &res)
	v.cleanList(&m.Options, "options", &res)

	v.formatSections(m, &res)

	pruneModel(m)
	return res
}

// cleanList removes null, empty and whitespace-only entries.
func (v *Validator) cleanList(list *[]json.RawMessage, field string, res *Result) {
	if len(*list) == 0 {
		return
	}

	kept := (*list)[:0]
	for _, item := range *list {
		if emptyListItem(item) {
			continue
		}
		kept = append(kept, item)
	}
	if removed := len(*list) - len(kept); removed > 0 {
		res.addDetail(field, RuleListCleanup,
			fmt.Sprintf("Removed %d empty %s entr(ies)", removed, field))
	}
	*list = kept
}

func emptyListItem(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return len(bytes.TrimSpace([]byte(s))) == 0
		}
	}
	return false
}

// formatSections normalizes units in labeled entries and camelCases the
// attribute keys of every spec section.
func (v *Validator) formatSections(m *catalog.Model, res *Result) {
	for _, name := range catalog.SectionNames {
		sec, ok := m.Sections[name]
		if !ok || len(sec) == 0 {
			continue
		}

		formatted := make(catalog.Section, len(sec))
		for key, entry := range sec {
			if !entry.IsLabeled() {
				formatted[key] = entry
				continue
			}

			if entry.Desc != "" {
				fixed := NormalizeUnits(entry.Desc)
				if fixed != entry.Desc {
					res.addDetail(name+"."+key, RuleUnits,
						fmt.Sprintf("Normalized units in %s.%s", name, key))
					entry.Desc = fixed
				}
			}

			properKey := CamelCaseKey(key)
			if properKey == "" {
				properKey = key
			}
			if properKey != key {
				res.addDetail(name+"."+key, RuleSpecKey,
					fmt.Sprintf("Renamed spec key %s.%s -> %s.%s", name, key, name, properKey))
			}
			formatted[properKey] = entry
		}
		m.Sections[name] = formatted
	}
}
