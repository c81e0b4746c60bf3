package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/catalog-tools/catqa/internal/catalog"
)

// requiredGeneralFields are checked for presence in order.
var requiredGeneralFields = []string{
	"manufacturer", "model", "year", "msrp",
	"category", "subcategory", "description", "countries",
}

var jsonNull = json.RawMessage("null")

func isNullRaw(raw json.RawMessage) bool {
	return raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// validateGeneral applies the general-section rules in place: required
// fields, text capitalization, the AI model-name fix, year, msrp and
// countries coercion.
func (v *Validator) validateGeneral(g *catalog.General, res *Result) {
	v.checkRequired(g, res)

	capitalize := func(field string, p *string) {
		if p == nil || *p == "" {
			return
		}
		fixed := CapitalizeWords(*p)
		if fixed != *p {
			res.add(Issue{Field: field, Rule: RuleCapitalization, Original: *p, Fixed: fixed})
			*p = fixed
		}
	}
	capitalize("manufacturer", g.Manufacturer)
	capitalize("category", g.Category)
	capitalize("subcategory", g.Subcategory)

	// Model name comes from the AI name cache built before the run.
	if g.Model != nil && *g.Model != "" {
		if fixed, ok := v.Names[*g.Model]; ok && fixed != *g.Model {
			res.add(Issue{Field: "model", Rule: RuleModelName, Original: *g.Model, Fixed: fixed, AIUsed: true})
			*g.Model = fixed
		}
	}

	v.validateYear(g, res)
	v.validateMSRP(g, res)
	v.validateCountries(g, res)
}

func (v *Validator) checkRequired(g *catalog.General, res *Result) {
	present := map[string]bool{
		"manufacturer": g.Manufacturer != nil,
		"model":        g.Model != nil,
		"year":         g.Year != nil,
		"msrp":         g.MSRP != nil,
		"category":     g.Category != nil,
		"subcategory":  g.Subcategory != nil,
		"description":  g.Description != nil,
		"countries":    g.Countries != nil,
	}
	for _, field := range requiredGeneralFields {
		if present[field] {
			continue
		}
		res.addDetail(field, RuleRequiredField,
			fmt.Sprintf("Missing required field '%s' in general section", field))
		switch field {
		case "msrp":
			g.MSRP = json.RawMessage("0")
		case "year":
			g.Year = jsonNull
		case "countries":
			// Defaulted below by validateCountries.
		}
	}
}

func (v *Validator) validateYear(g *catalog.General, res *Result) {
	if isNullRaw(g.Year) {
		return
	}

	var n float64
	if err := json.Unmarshal(g.Year, &n); err == nil {
		raw := string(bytes.TrimSpace(g.Year))
		if strings.ContainsAny(raw, ".eE") {
			// Non-integer number: truncate, like the rest of the pipeline
			// expects of a model year.
			y := int(math.Trunc(n))
			g.Year = json.RawMessage(strconv.Itoa(y))
			res.addDetail("year", RuleYear,
				fmt.Sprintf("Converted year to integer: %s -> %d", raw, y))
		}
		return
	}

	var s string
	if err := json.Unmarshal(g.Year, &s); err == nil {
		if y, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			res.addDetail("year", RuleYear,
				fmt.Sprintf("Converted year to integer: %q -> %d", s, y))
			g.Year = json.RawMessage(strconv.Itoa(y))
			return
		}
	}

	res.addDetail("year", RuleYear,
		fmt.Sprintf("Invalid year value '%s', setting to null", string(g.Year)))
	g.Year = jsonNull
}

func (v *Validator) validateMSRP(g *catalog.General, res *Result) {
	if g.MSRP == nil {
		return
	}
	if isNullRaw(g.MSRP) {
		g.MSRP = json.RawMessage("0")
		return
	}

	var n float64
	if err := json.Unmarshal(g.MSRP, &n); err == nil {
		return // already a number
	}

	var s string
	if err := json.Unmarshal(g.MSRP, &s); err != nil {
		res.addDetail("msrp", RuleMSRP,
			fmt.Sprintf("Invalid MSRP value '%s', setting to 0", string(g.MSRP)))
		g.MSRP = json.RawMessage("0")
		return
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		g.MSRP = json.RawMessage("0")
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		res.addDetail("msrp", RuleMSRP,
			fmt.Sprintf("Invalid MSRP value '%s', setting to 0", s))
		g.MSRP = json.RawMessage("0")
		return
	}

	if f == math.Trunc(f) {
		g.MSRP = json.RawMessage(strconv.FormatInt(int64(f), 10))
	} else {
		g.MSRP = json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))
	}
	res.addDetail("msrp", RuleMSRP, fmt.Sprintf("Formatted MSRP: %s", string(g.MSRP)))
}

func (v *Validator) validateCountries(g *catalog.General, res *Result) {
	setDefault := func(reason string) {
		b, _ := json.Marshal(v.Countries)
		g.Countries = b
		res.addDetail("countries", RuleCountries,
			fmt.Sprintf("%s, set to default %v", reason, v.Countries))
	}

	if isNullRaw(g.Countries) {
		setDefault("Missing countries field")
		return
	}

	var list []string
	if err := json.Unmarshal(g.Countries, &list); err != nil || len(list) == 0 {
		setDefault("Empty or invalid countries")
		return
	}

	valid := make(map[string]bool, len(v.Countries))
	for _, c := range v.Countries {
		valid[c] = true
	}

	var kept, removed []string
	for _, c := range list {
		if valid[c] {
			kept = append(kept, c)
		} else {
			removed = append(removed, c)
		}
	}

	switch {
	case len(kept) == 0:
		setDefault("No valid countries found")
	case len(removed) > 0:
		b, _ := json.Marshal(kept)
		g.Countries = b
		res.addDetail("countries", RuleCountries,
			fmt.Sprintf("Removed invalid countries %v", removed))
	}
}
