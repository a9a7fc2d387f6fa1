package domain

import (
	"fmt"
	"strings"
)

// ValidationReport aggregates the results of running a rule set or the
// firmware check battery against one build.
type ValidationReport struct {
	BuildName string             `json:"build_name"`
	Results   []ValidationResult `json:"results"`
}

// Passed reports whether the build has zero non-skipped critical failures.
func (r *ValidationReport) Passed() bool {
	return len(r.CriticalFailures()) == 0
}

// CriticalFailures returns the failed critical results.
func (r *ValidationReport) CriticalFailures() []ValidationResult {
	return r.failedWithSeverity(SeverityCritical)
}

// Warnings returns the failed warning results.
func (r *ValidationReport) Warnings() []ValidationResult {
	return r.failedWithSeverity(SeverityWarning)
}

// Info returns the failed info results.
func (r *ValidationReport) Info() []ValidationResult {
	return r.failedWithSeverity(SeverityInfo)
}

func (r *ValidationReport) failedWithSeverity(sev Severity) []ValidationResult {
	var out []ValidationResult
	for _, res := range r.Results {
		if res.Severity == sev && res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// SkippedCount returns how many results could not be evaluated.
func (r *ValidationReport) SkippedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped() {
			n++
		}
	}
	return n
}

// PassedCount returns how many results did not fail, skipped included.
func (r *ValidationReport) PassedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed() {
			n++
		}
	}
	return n
}

// Summary renders a plain-text report suitable for logs and tests.
// The CLI uses the styled renderer instead.
func (r *ValidationReport) Summary() string {
	var b strings.Builder

	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "Compatibility Report: %s  [%s]\n", r.BuildName, status)
	b.WriteString(strings.Repeat("=", 60) + "\n")

	crit := r.CriticalFailures()
	warns := r.Warnings()
	infos := r.Info()

	fmt.Fprintf(&b, "  Total checks: %d  |  Passed: %d  |  Skipped: %d\n",
		len(r.Results), r.PassedCount(), r.SkippedCount())
	fmt.Fprintf(&b, "  Critical: %d  |  Warnings: %d  |  Info: %d\n\n",
		len(crit), len(warns), len(infos))

	writeGroup := func(title, tag string, results []ValidationResult) {
		if len(results) == 0 {
			return
		}
		b.WriteString(title + "\n")
		for _, res := range results {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", tag, res.ConstraintID, res.ConstraintName)
			fmt.Fprintf(&b, "         %s\n", res.Message)
		}
		b.WriteString("\n")
	}

	writeGroup("CRITICAL FAILURES:", "FAIL", crit)
	writeGroup("WARNINGS:", "WARN", warns)
	writeGroup("INFO:", "INFO", infos)

	b.WriteString(strings.Repeat("=", 60) + "\n")
	if r.Passed() {
		b.WriteString("Build is compatible. No critical issues found.")
	} else {
		fmt.Fprintf(&b, "Build has %d critical issue(s). Resolve before building.", len(crit))
	}

	return b.String()
}
