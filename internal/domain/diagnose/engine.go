package diagnose

import (
	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/discrepancy"
	"github.com/dronedoctor/dronedoctor/internal/domain/firmware"
	"github.com/dronedoctor/dronedoctor/internal/domain/rules"
)

// Allow-lists for the quick health check.
var (
	quickDiscIDs = map[string]bool{
		"disc_001": true, "disc_002": true, "disc_003": true, "disc_004": true,
	}
	quickFirmwareIDs = map[string]bool{
		"fw_001": true, "fw_004": true, "fw_005": true, "fw_010": true, "fw_011": true,
	}
	quickElectricalIDs = map[string]bool{
		"elec_001": true, "elec_002": true, "elec_003": true,
	}
)

// Engine runs the diagnostic pipeline. The constraint validator is
// injected so rule tables are loaded once at startup instead of being
// read from globals inside the checks.
type Engine struct {
	validator *rules.Validator
}

// NewEngine builds an engine around a loaded constraint validator.
func NewEngine(validator *rules.Validator) *Engine {
	return &Engine{validator: validator}
}

// RunDiagnostics runs the full pipeline:
//
//  1. detect hardware discrepancies (FC config vs fleet record)
//  2. run component compatibility validation
//  3. run firmware cross-validation
//  4. optionally diff against a previous snapshot
//  5. compute confidence scores for every finding
//
// Symptom keys steer prioritization only; they never change what runs.
func (e *Engine) RunDiagnostics(cfg *domain.FCConfig, b *domain.Build, symptomKeys []string, previous *domain.FCConfig) *Report {
	report := &Report{
		BuildName:           b.Name,
		FCInfo:              fcInfo(cfg),
		Discrepancies:       discrepancy.Detect(cfg, b),
		CompatibilityReport: e.validator.ValidateBuild(b),
		FirmwareReport:      firmware.Validate(cfg, b),
		Symptoms:            symptomKeys,
	}
	if previous != nil {
		report.ConfigChanges = DiffConfigs(previous, cfg)
	}
	report.ConfidenceScores = confidenceScores(report)
	return report
}

// RunQuickHealthCheck runs only the checks that decide whether a drone
// is safe to plug in and fly: the identity discrepancies, the motor/RX/
// battery firmware checks, and the electrical compatibility rules. With
// no config only the compatibility subset runs.
func (e *Engine) RunQuickHealthCheck(b *domain.Build, cfg *domain.FCConfig) *Report {
	report := &Report{
		BuildName:    b.Name,
		IsQuickCheck: true,
	}

	if cfg != nil {
		report.FCInfo = fcInfo(cfg)
		for _, d := range discrepancy.Detect(cfg, b) {
			if quickDiscIDs[d.ID] {
				report.Discrepancies = append(report.Discrepancies, d)
			}
		}
		report.FirmwareReport = filterReport(firmware.Validate(cfg, b), quickFirmwareIDs)
	}

	report.CompatibilityReport = filterReport(e.validator.ValidateBuild(b), quickElectricalIDs)
	report.ConfidenceScores = confidenceScores(report)
	return report
}

func filterReport(full *domain.ValidationReport, keep map[string]bool) *domain.ValidationReport {
	filtered := &domain.ValidationReport{BuildName: full.BuildName}
	for _, r := range full.Results {
		if keep[r.ConstraintID] {
			filtered.Results = append(filtered.Results, r)
		}
	}
	return filtered
}
