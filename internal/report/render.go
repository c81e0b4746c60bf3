package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Render produces the markdown document for a finalized report.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("# JSON Formatting & Validation Report\n\n")
	fmt.Fprintf(&b, "**Run ID:** %s\n", r.RunID)
	fmt.Fprintf(&b, "**Generated on:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Models Processed:** %d\n", r.TotalModels)
	fmt.Fprintf(&b, "- **Successfully Formatted:** %d\n", r.ProcessedModels)
	fmt.Fprintf(&b, "- **Failed Models:** %d\n", r.FailedModels)
	fmt.Fprintf(&b, "- **Total Issues Fixed:** %d\n", r.TotalIssues())
	fmt.Fprintf(&b, "- **AI-Assisted Fixes:** %d\n", r.AIUsedCount())
	b.WriteString("\n---\n\n## Issues Fixed by Model\n")

	if len(r.order) == 0 {
		b.WriteString("\nNo issues found - all models are already properly formatted.\n")
	}
	for _, model := range r.order {
		issues := r.issues[model]
		fmt.Fprintf(&b, "\n### %s\n", model)
		fmt.Fprintf(&b, "**Total Issues:** %d\n\n", len(issues))
		for i, issue := range issues {
			fmt.Fprintf(&b, "%d. %s\n", i+1, issue.String())
		}
	}

	b.WriteString("\n---\n\n## Errors\n\n")
	if len(r.Errors) == 0 {
		b.WriteString("No errors encountered.\n")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "- %s\n", e)
	}

	return b.String()
}

// WriteFile renders the report and writes it atomically (temp file plus
// rename) so a crashed run never leaves a truncated report behind.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(r.Render()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return os.Rename(tmp, path)
}
