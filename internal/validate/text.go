// Package validate applies the catalog QA rules to models: deterministic
// text and field fixes first, with model-name case correction delegated to
// the AI cleaner via a pre-computed name cache.
package validate

import (
	"regexp"
	"strings"
	"unicode"
)

// unitReplacements normalizes dotted unit abbreviations. Applied in order;
// longer forms first where one is a prefix of another.
var unitReplacements = []struct{ old, new string }{
	{"in.", "in"}, {"ft.", "ft"}, {"FT.", "FT"}, {"Ft.", "Ft"}, {"yd.", "yd"},
	{"mi.", "mi"}, {"cm.", "cm"}, {"mm.", "mm"}, {"m.", "m"},
	{"max.", "max"}, {"Max.", "Max"}, {"min.", "min"}, {"Min.", "Min"},
	{"avg.", "avg"}, {"Avg.", "Avg"}, {"nom.", "nom"}, {"Nom.", "Nom"},
	{"lbs.", "lbs"}, {"lb.", "lb"}, {"oz.", "oz"},
	{"cu.", "cu"}, {"gal.", "gal"}, {"qt.", "qt"}, {"pt.", "pt"},
	{"sec.", "sec"}, {"Sec.", "Sec"}, {"hr.", "hr"}, {"hrs.", "hr"},
	{"°F.", "°F"}, {"°C.", "°C"},
}

var (
	specialChars = regexp.MustCompile("[-()\"#/@;:<>{}`+=~|.!?,]")
	nonAlnum     = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// CapitalizeWords uppercases the first letter of each space-separated word
// that starts lowercase, leaving the rest of the word untouched.
func CapitalizeWords(text string) string {
	if text == "" {
		return text
	}

	words := strings.Split(strings.TrimSpace(text), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		r := []rune(word)
		if unicode.IsLower(r[0]) {
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}

// NormalizeUnits rewrites dotted unit abbreviations ("12 in." -> "12 in").
func NormalizeUnits(text string) string {
	for _, r := range unitReplacements {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}

// CamelCaseKey converts a spec attribute name to camelCase and strips
// special characters ("Oil Capacity" -> "oilCapacity").
func CamelCaseKey(text string) string {
	if text == "" {
		return text
	}

	// Already-clean keys pass through unchanged so a second validation pass
	// is a no-op ("oilCapacity" stays "oilCapacity").
	if isCamelCase(text) {
		return text
	}

	parts := strings.Split(text, " ")
	for i, part := range parts {
		parts[i] = titleWord(part)
	}
	if len(parts) > 0 {
		parts[0] = strings.ToLower(parts[0])
	}
	result := strings.Join(parts, "")

	result = specialChars.ReplaceAllString(result, "")
	return nonAlnum.ReplaceAllString(result, "")
}

func isCamelCase(text string) bool {
	r := []rune(text)
	if !unicode.IsLower(r[0]) && !unicode.IsDigit(r[0]) {
		return false
	}
	for _, c := range r {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// titleWord uppercases the first letter and lowercases the remainder.
func titleWord(word string) string {
	if word == "" {
		return word
	}
	r := []rune(word)
	out := make([]rune, len(r))
	out[0] = unicode.ToUpper(r[0])
	for i := 1; i < len(r); i++ {
		out[i] = unicode.ToLower(r[i])
	}
	return string(out)
}
