package diagnose

import (
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// ComputeConfidence maps a finding to a triage certainty in [0, 1]. It
// never affects pass/fail. Direct config-vs-fleet comparisons score
// highest; inferred compatibility rules score lower; findings built on
// estimated or missing spec data drop to 0.50, skipped checks to 0.
func ComputeConfidence(f domain.Finding) float64 {
	if r, ok := f.(domain.ValidationResult); ok {
		if r.Skipped() {
			return 0.0
		}
		if detailFlag(r.Details, "estimated") || detailFlag(r.Details, "missing_spec") {
			return 0.50
		}
	}

	severity := f.CheckSeverity()

	if _, ok := f.(domain.Discrepancy); ok {
		switch severity {
		case domain.SeverityCritical:
			return 0.95
		case domain.SeverityWarning:
			return 0.85
		}
		return 0.70
	}

	id := f.CheckID()
	if strings.HasPrefix(id, "fw_") || strings.HasPrefix(id, "elec_") {
		switch severity {
		case domain.SeverityCritical:
			return 0.90
		case domain.SeverityWarning:
			return 0.80
		}
		return 0.70
	}

	switch severity {
	case domain.SeverityCritical:
		return 0.85
	case domain.SeverityWarning:
		return 0.80
	}
	return 0.70
}

func detailFlag(details map[string]any, key string) bool {
	b, _ := details[key].(bool)
	return b
}

// confidenceScores scores every discrepancy and every failed result in
// the report, keyed by check id.
func confidenceScores(r *Report) map[string]float64 {
	scores := make(map[string]float64)
	for _, d := range r.Discrepancies {
		scores[d.ID] = ComputeConfidence(d)
	}
	if r.CompatibilityReport != nil {
		for _, res := range r.CompatibilityReport.Results {
			if res.Failed() {
				scores[res.ConstraintID] = ComputeConfidence(res)
			}
		}
	}
	if r.FirmwareReport != nil {
		for _, res := range r.FirmwareReport.Results {
			if res.Failed() {
				scores[res.ConstraintID] = ComputeConfidence(res)
			}
		}
	}
	return scores
}
