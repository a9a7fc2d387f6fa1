package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// RenderValidationReport formats a compatibility run for the terminal.
func RenderValidationReport(report *domain.ValidationReport) string {
	var b strings.Builder

	title := headerStyle.Render("dronedoctor")
	subtitle := dimStyle.Render("Compatibility Check")
	name := titleStyle.Render(report.BuildName)

	verdict := passStyle.Bold(true).Render("COMPATIBLE")
	if !report.Passed() {
		verdict = failStyle.Bold(true).Render("INCOMPATIBLE")
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + name + "\n" + verdict))
	b.WriteString("\n\n")

	renderResultGroup(&b, "Critical failures", report.CriticalFailures())
	renderResultGroup(&b, "Warnings", report.Warnings())
	renderResultGroup(&b, "Notes", report.Info())

	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(report.Summary()))
	if n := report.SkippedCount(); n > 0 {
		fmt.Fprintf(&b, "  %s\n", skipStyle.Render(fmt.Sprintf(
			"%d check(s) skipped for missing data — not confirmed compatible", n)))
	}

	b.WriteString("\n  " + separatorLine + "\n")
	return b.String()
}

func renderResultGroup(b *strings.Builder, title string, results []domain.ValidationResult) {
	if len(results) == 0 {
		return
	}

	b.WriteString("  " + sectionStyle.Render(title) +
		dimStyle.Render(fmt.Sprintf(" (%d)", len(results))) + "\n\n")
	for _, r := range results {
		fmt.Fprintf(b, "    %s %s\n", severityTag(r.Severity), dimStyle.Render(r.ConstraintID))
		fmt.Fprintf(b, "         %s\n", r.Message)
		if len(r.Details) > 0 {
			fmt.Fprintf(b, "         %s\n", faintStyle.Render(formatDetails(r.Details)))
		}
	}
	b.WriteString("\n")
}

func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, "  ")
}

// RenderPairResults formats a two-component check.
func RenderPairResults(typeA, typeB string, results []domain.ValidationResult) string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Pair Check") +
		dimStyle.Render(fmt.Sprintf("  %s ↔ %s", typeA, typeB)) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	if len(results) == 0 {
		b.WriteString("  " + dimStyle.Render("No rules apply to this pair.") + "\n")
		return b.String()
	}

	for _, r := range results {
		var mark string
		switch r.Outcome {
		case domain.OutcomePassed:
			mark = passStyle.Render("✓")
		case domain.OutcomeFailed:
			mark = failStyle.Render("✗")
		default:
			mark = skipStyle.Render("·")
		}
		fmt.Fprintf(&b, "  %s %s  %s\n", mark, dimStyle.Render(r.ConstraintID), r.Message)
	}
	return b.String()
}
