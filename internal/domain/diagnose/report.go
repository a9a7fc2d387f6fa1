// Package diagnose orchestrates discrepancy detection, compatibility
// validation and firmware cross-checks into one diagnostic report. The
// pipeline is pure: the same config, build and symptoms always produce
// the same report.
package diagnose

import (
	"fmt"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

// Report is the complete diagnostic picture for one build.
//
// ConfigChanges is nil when no previous snapshot was supplied and empty
// when one was and nothing changed.
type Report struct {
	BuildName           string                   `json:"build_name"`
	FCInfo              string                   `json:"fc_info"`
	Discrepancies       []domain.Discrepancy     `json:"discrepancies"`
	CompatibilityReport *domain.ValidationReport `json:"compatibility_report,omitempty"`
	FirmwareReport      *domain.ValidationReport `json:"firmware_report,omitempty"`
	Symptoms            []string                 `json:"symptoms,omitempty"`
	ConfigChanges       []string                 `json:"config_changes,omitempty"`
	ConfidenceScores    map[string]float64       `json:"confidence_scores"`
	IsQuickCheck        bool                     `json:"is_quick_check"`
}

// HasCriticalIssues reports whether any critical discrepancy or failed
// critical validation result exists.
func (r *Report) HasCriticalIssues() bool {
	for _, d := range r.Discrepancies {
		if d.Severity == domain.SeverityCritical {
			return true
		}
	}
	if r.CompatibilityReport != nil && len(r.CompatibilityReport.CriticalFailures()) > 0 {
		return true
	}
	if r.FirmwareReport != nil && len(r.FirmwareReport.CriticalFailures()) > 0 {
		return true
	}
	return false
}

// SafeToFly is the quick verdict: no critical findings anywhere.
func (r *Report) SafeToFly() bool { return !r.HasCriticalIssues() }

// AllFindingsPrioritized returns every non-passing finding, the
// symptom-relevant ones first, each group sorted by severity then id.
func (r *Report) AllFindingsPrioritized() []domain.Finding {
	relevant, other := symptoms.PrioritizeResults(r.allResults(), r.Discrepancies, r.Symptoms)
	return append(relevant, other...)
}

// SymptomRelevant returns the findings tied to the reported symptoms.
func (r *Report) SymptomRelevant() []domain.Finding {
	relevant, _ := symptoms.PrioritizeResults(r.allResults(), r.Discrepancies, r.Symptoms)
	return relevant
}

// OtherFindings returns the findings not tied to any reported symptom.
func (r *Report) OtherFindings() []domain.Finding {
	_, other := symptoms.PrioritizeResults(r.allResults(), r.Discrepancies, r.Symptoms)
	return other
}

// GetConfidence returns the confidence score for a check id, when one
// was computed. Only non-passing findings carry scores.
func (r *Report) GetConfidence(checkID string) (float64, bool) {
	score, ok := r.ConfidenceScores[checkID]
	return score, ok
}

func (r *Report) allResults() []domain.ValidationResult {
	var results []domain.ValidationResult
	if r.CompatibilityReport != nil {
		results = append(results, r.CompatibilityReport.Results...)
	}
	if r.FirmwareReport != nil {
		results = append(results, r.FirmwareReport.Results...)
	}
	return results
}

func fcInfo(cfg *domain.FCConfig) string {
	info := fmt.Sprintf("%s %s", cfg.Firmware, cfg.FirmwareVersion)
	if cfg.BoardName != "" {
		info += " on " + cfg.BoardName
	}
	return info
}
