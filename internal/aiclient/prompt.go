package aiclient

import (
	"fmt"
	"strings"
)

// promptTemplate instructs the model to title-case plain English words in
// product model names while leaving codes, acronyms and series identifiers
// untouched. The %s placeholder receives the numbered name list.
const promptTemplate = `# Product Model Name Case Corrector

## System Role
You are a specialist in industrial product data normalization.
Your job is to convert ONLY general English words into Title Case, while keeping ALL product codes, series names, and technical identifiers COMPLETELY UNCHANGED.

## Core Rules

CRITICAL: When in doubt, DO NOT change the capitalization. Only modify obvious general English words.

For every model name:

1. LEAVE THESE COMPLETELY UNTOUCHED (no changes at all):
   - ANY token containing numbers (BG-40, MTT40-6060, DS72, EPJ-60R)
   - ANY token that is entirely uppercase (BG, EPS, DS, ASM, BGS)
   - ANY token with hyphens followed by numbers (BGN-40, EPS-30)
   - Product/series codes (any combination of letters + numbers)
   - Brand names and acronyms
   - Tokens with special symbols
   - ANY technical or specialized term

2. ONLY convert these into Title Case:
   - Simple, common English words (like: hydraulic, powered, barrier, dock, zero, series)
   - Words that are clearly descriptive adjectives or nouns
   - Apply Title Case: first letter uppercase + remaining letters lowercase

3. Handling connected words:
   - For hyphenated words (e.g., "AIR-POWERED"), check EACH part separately.
   - If both parts are general English words, convert both: "Air-Powered".
   - If any part is a code/number, leave the ENTIRE token unchanged.

4. Strict preservation:
   - Do NOT add, remove, or reorder any characters.
   - Maintain all punctuation, parentheses, quotes, hyphens, symbols exactly as given.
   - Preserve spacing exactly as in the original.

## Examples

| Input                    | Output                   |
|--------------------------|--------------------------|
| Hydraulic Dock Leveler   | Hydraulic Dock Leveler   |
| MTT40-6060               | MTT40-6060               |
| AIR-POWERED DOCK LEVELER | Air-Powered Dock Leveler |
| DOCK-LIP BARRIER - DLB   | Dock-Lip Barrier - DLB   |
| DS4-72(DS72 SERIES )     | DS4-72(DS72 Series )     |
| BG ZERO                  | BG Zero                  |
| ASM SERIES               | ASM Series               |
| BG 40                    | BG 40                    |

## Output Format
Return ONLY a JSON object with a "names" array containing the corrected model names in the same order as received.

## Model Names to Correct
%s
`

// buildPrompt numbers the names and fills the template.
func buildPrompt(names []string) string {
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%d. %s", i+1, name)
	}
	return fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))
}
