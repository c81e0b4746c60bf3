package validate

import "fmt"

// Rule identifiers recorded on issues so reports can group fixes by cause.
const (
	RuleRequiredField  = "required-field"
	RuleCapitalization = "capitalization"
	RuleModelName      = "model-name"
	RuleYear           = "year"
	RuleMSRP           = "msrp"
	RuleCountries      = "countries"
	RuleMediaURL       = "media-url"
	RuleListCleanup    = "list-cleanup"
	RuleUnits          = "unit-normalization"
	RuleSpecKey        = "spec-key"
)

// Issue is one fix or finding on a single record field.
type Issue struct {
	Field    string
	Rule     string
	Original string
	Fixed    string
	Detail   string
	AIUsed   bool
}

// String renders the issue as a single report line.
func (i Issue) String() string {
	switch {
	case i.Detail != "":
		return i.Detail
	case i.Original != "" || i.Fixed != "":
		return fmt.Sprintf("Formatted %s: '%s' -> '%s'", i.Field, i.Original, i.Fixed)
	default:
		return fmt.Sprintf("Fixed %s (%s)", i.Field, i.Rule)
	}
}

// Result is the validation outcome for one record.
type Result struct {
	Model  string
	Issues []Issue
	Failed bool
	Err    error
}

func (r *Result) add(i Issue) { r.Issues = append(r.Issues, i) }

func (r *Result) addDetail(field, rule, detail string) {
	r.add(Issue{Field: field, Rule: rule, Detail: detail})
}
