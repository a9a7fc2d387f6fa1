package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
	"github.com/dronedoctor/dronedoctor/internal/domain/perf"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

func sampleReport() *diagnose.Report {
	return &diagnose.Report{
		BuildName: "Shredder",
		FCInfo:    "BTFL 4.5.1 on STM32F405",
		Discrepancies: []domain.Discrepancy{
			{
				ID:            "disc_002",
				ComponentType: "receiver",
				Category:      "protocol",
				Severity:      domain.SeverityCritical,
				FleetValue:    "CRSF",
				DetectedValue: "SBUS",
				Message:       "Receiver protocol mismatch",
				FixSuggestion: "set serialrx_provider = CRSF",
			},
		},
		CompatibilityReport: &domain.ValidationReport{
			BuildName: "Shredder",
			Results: []domain.ValidationResult{
				{ConstraintID: "elec_001", Severity: domain.SeverityCritical, Outcome: domain.OutcomePassed, Message: "voltage within range"},
				{ConstraintID: "elec_002", Severity: domain.SeverityWarning, Outcome: domain.OutcomeSkipped, Message: "missing current rating"},
			},
		},
		ConfidenceScores: map[string]float64{"disc_002": 0.9},
	}
}

func TestRenderDiagnosticReport(t *testing.T) {
	out := tui.RenderDiagnosticReport(sampleReport())

	assert.Contains(t, out, "dronedoctor")
	assert.Contains(t, out, "Diagnostic Report")
	assert.Contains(t, out, "Shredder")
	assert.Contains(t, out, "CRITICAL ISSUES FOUND")
	assert.Contains(t, out, "disc_002")
	assert.Contains(t, out, "Receiver protocol mismatch")
	assert.Contains(t, out, "fleet: CRSF")
	assert.Contains(t, out, "detected: SBUS")
	assert.Contains(t, out, "set serialrx_provider = CRSF")
	assert.Contains(t, out, "skipped for missing data")
}

func TestRenderDiagnosticReport_QuickCheckClean(t *testing.T) {
	report := &diagnose.Report{
		BuildName:    "Bando Basher",
		IsQuickCheck: true,
	}
	out := tui.RenderDiagnosticReport(report)

	assert.Contains(t, out, "Quick Health Check")
	assert.Contains(t, out, "NO CRITICAL ISSUES")
	assert.Contains(t, out, "No issues found.")
}

func TestRenderDiagnosticReport_SymptomPartition(t *testing.T) {
	report := sampleReport()
	report.Symptoms = []string{"no_receiver"}
	out := tui.RenderDiagnosticReport(report)

	assert.Contains(t, out, "Reported symptoms")
	assert.Contains(t, out, "No receiver signal")
	assert.Contains(t, out, "Likely causes")
}

func TestRenderValidationReport(t *testing.T) {
	report := &domain.ValidationReport{
		BuildName: "Shredder",
		Results: []domain.ValidationResult{
			{ConstraintID: "elec_001", Severity: domain.SeverityCritical, Outcome: domain.OutcomeFailed,
				Message: "Battery voltage exceeds ESC rating",
				Details: map[string]any{"battery_s": 6, "esc_max_s": 4}},
			{ConstraintID: "elec_002", Severity: domain.SeverityWarning, Outcome: domain.OutcomePassed, Message: "current headroom ok"},
		},
	}
	out := tui.RenderValidationReport(report)

	assert.Contains(t, out, "INCOMPATIBLE")
	assert.Contains(t, out, "Critical failures")
	assert.Contains(t, out, "elec_001")
	assert.Contains(t, out, "Battery voltage exceeds ESC rating")
	assert.Contains(t, out, "battery_s=6")
	assert.NotContains(t, out, "elec_002")
}

func TestRenderValidationReport_AllPassed(t *testing.T) {
	report := &domain.ValidationReport{
		BuildName: "Shredder",
		Results: []domain.ValidationResult{
			{ConstraintID: "elec_001", Severity: domain.SeverityCritical, Outcome: domain.OutcomePassed, Message: "ok"},
		},
	}
	out := tui.RenderValidationReport(report)
	assert.Contains(t, out, "COMPATIBLE")
}

func TestRenderPairResults(t *testing.T) {
	results := []domain.ValidationResult{
		{ConstraintID: "elec_001", Outcome: domain.OutcomeFailed, Message: "voltage mismatch"},
		{ConstraintID: "elec_002", Outcome: domain.OutcomePassed, Message: "current ok"},
	}
	out := tui.RenderPairResults("battery", "esc", results)

	assert.Contains(t, out, "battery")
	assert.Contains(t, out, "esc")
	assert.Contains(t, out, "voltage mismatch")
	assert.Contains(t, out, "current ok")

	empty := tui.RenderPairResults("motor", "propeller", nil)
	assert.Contains(t, empty, "No rules apply")
}

func TestRenderHistory(t *testing.T) {
	entries := []domain.HistoryEntry{
		{Timestamp: "2026-08-20T10:00:00Z", CommitHash: "abc1234def", SafeToFly: true, WarningCount: 2},
		{Timestamp: "2026-08-19T10:00:00Z", SafeToFly: false, CriticalCount: 1},
	}
	out := tui.RenderHistory(entries)

	assert.Contains(t, out, "2026-08-20")
	assert.Contains(t, out, "abc1234")
	assert.NotContains(t, out, "abc1234def")
	assert.Contains(t, out, "safe")
	assert.Contains(t, out, "unsafe")

	assert.Contains(t, tui.RenderHistory(nil), "No diagnostic history")
}

func TestRenderSymptomList(t *testing.T) {
	out := tui.RenderSymptomList()
	for _, s := range symptoms.Catalog {
		assert.Contains(t, out, s.Key)
		assert.Contains(t, out, s.Label)
	}
}

func TestRenderSymptomMatches(t *testing.T) {
	matches := symptoms.MatchSymptom("motors won't spin")
	out := tui.RenderSymptomMatches("motors won't spin", matches)
	assert.Contains(t, out, "motors_wont_spin")

	assert.Contains(t, tui.RenderSymptomMatches("xyzzy", nil), "No symptom matches")
}

func TestRenderFleetAndDetail(t *testing.T) {
	drone := &domain.Build{
		Name:       "Shredder",
		Nickname:   "The Shredder",
		DroneClass: "5inch",
		Status:     "active",
		Tags:       []string{"freestyle"},
		Components: map[string][]*domain.Component{
			"motor": {
				{Type: "motor", Manufacturer: "T-Motor", Model: "F60 Pro V"},
				{Type: "motor", Manufacturer: "T-Motor", Model: "F60 Pro V"},
			},
			"fc": {
				{Type: "fc", Manufacturer: "SpeedyBee", Model: "F405 V4"},
			},
		},
	}

	list := tui.RenderFleetList([]*domain.Build{drone})
	assert.Contains(t, list, "Shredder")
	assert.Contains(t, list, "5inch")
	assert.Contains(t, list, "SpeedyBee")

	detail := tui.RenderDroneDetail(drone)
	assert.Contains(t, detail, "The Shredder")
	assert.Contains(t, detail, "motor 1")
	assert.Contains(t, detail, "motor 2")
	assert.Contains(t, detail, "F405 V4")
	assert.Contains(t, detail, "freestyle")

	assert.Contains(t, tui.RenderFleetList(nil), "Fleet is empty")
}

func TestRenderConfigList(t *testing.T) {
	configs := []domain.StoredConfig{
		{Timestamp: "20260820T100000", Firmware: "BTFL", FirmwareVersion: "4.5.1", BoardName: "SPEEDYBEEF405"},
	}
	out := tui.RenderConfigList("shredder", configs)
	assert.Contains(t, out, "20260820T100000")
	assert.Contains(t, out, "BTFL 4.5.1")

	assert.Contains(t, tui.RenderConfigList("shredder", nil), "No stored configs")
}

func TestRenderPerformance(t *testing.T) {
	report := &perf.Report{
		ThrustToWeightRatio:    5.2,
		TotalThrustG:           3400,
		HoverThrottlePct:       19,
		EstimatedFlightTimeMin: 4.8,
		MaxSpeedEstimateKmh:    140,
	}
	out := tui.RenderPerformance("Shredder", report)

	assert.Contains(t, out, "Performance Estimate")
	assert.Contains(t, out, "5.2:1")
	assert.Contains(t, out, "4.8 min")
	assert.Contains(t, out, "140 km/h")
}
