package domain_test

import (
	"testing"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/stretchr/testify/assert"
)

func motor() *domain.Component {
	return &domain.Component{
		ID: "motor_test_2306", Type: "motor", WeightG: 32.5, PriceUSD: 22.99,
		Specs: map[string]any{"kv": 1950.0, "stator_size": "2306"},
	}
}

func testBuild() *domain.Build {
	m := motor()
	return &domain.Build{
		Name:       "Test Quad",
		DroneClass: "5inch_freestyle",
		Components: map[string][]*domain.Component{
			"motor":   {m, m, m, m},
			"battery": {{ID: "batt_test", Type: "battery", WeightG: 210, PriceUSD: 35}},
			"fc":      {{ID: "fc_test", Type: "fc", WeightG: 9.1, PriceUSD: 49.99}},
		},
	}
}

func TestComponentGet_DeclaredBeforeSpecs(t *testing.T) {
	c := motor()
	c.Specs["weight_g"] = 999.0 // shadowed by the declared attribute

	v, ok := c.Get("weight_g")
	assert.True(t, ok)
	assert.Equal(t, 32.5, v)

	v, ok = c.Get("kv")
	assert.True(t, ok)
	assert.Equal(t, 1950.0, v)

	_, ok = c.Get("no_such_field")
	assert.False(t, ok)
}

func TestBuildAggregates(t *testing.T) {
	b := testBuild()
	assert.Equal(t, 4, b.MotorCount())
	assert.InDelta(t, 4*32.5+210+9.1, b.AllUpWeightG(), 0.001)
	assert.InDelta(t, 4*32.5+9.1, b.DryWeightG(), 0.001)
	assert.InDelta(t, 4*22.99+35+49.99, b.TotalPriceUSD(), 0.001)
}

func TestBuildGetComponent_EmptySlot(t *testing.T) {
	b := testBuild()
	assert.Nil(t, b.GetComponent("vtx"))
	assert.NotNil(t, b.GetComponent("battery"))
}

func TestParseOperator(t *testing.T) {
	assert.Equal(t, domain.OpLTE, domain.ParseOperator("lte"))
	assert.Equal(t, domain.OpExpression, domain.ParseOperator("expression"))
	assert.Equal(t, domain.OpExpression, domain.ParseOperator(""))
	assert.Equal(t, domain.OpUnsupported, domain.ParseOperator("bitwise_xor"))
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, domain.SeverityCritical.Rank(), domain.SeverityWarning.Rank())
	assert.Less(t, domain.SeverityWarning.Rank(), domain.SeverityInfo.Rank())
}

func TestValidationReport_PassedIgnoresSkipped(t *testing.T) {
	r := &domain.ValidationReport{
		BuildName: "Test Quad",
		Results: []domain.ValidationResult{
			{ConstraintID: "elec_001", Severity: domain.SeverityCritical, Outcome: domain.OutcomeSkipped},
			{ConstraintID: "elec_002", Severity: domain.SeverityWarning, Outcome: domain.OutcomeFailed},
		},
	}
	assert.True(t, r.Passed(), "skipped criticals must not fail the build")
	assert.Len(t, r.Warnings(), 1)
	assert.Equal(t, 1, r.SkippedCount())
}

func TestValidationReport_CriticalFailure(t *testing.T) {
	r := &domain.ValidationReport{
		Results: []domain.ValidationResult{
			{ConstraintID: "elec_001", Severity: domain.SeverityCritical, Outcome: domain.OutcomeFailed},
		},
	}
	assert.False(t, r.Passed())
	assert.Len(t, r.CriticalFailures(), 1)
}

func TestFCConfig_HasFeature_CaseInsensitive(t *testing.T) {
	cfg := &domain.FCConfig{Features: map[string]bool{"GPS": true, "TELEMETRY": false}}
	assert.True(t, cfg.HasFeature("gps"))
	assert.False(t, cfg.HasFeature("telemetry"))
	assert.False(t, cfg.HasFeature("OSD"))
}

func TestFCConfig_SerialPortWithFunction(t *testing.T) {
	cfg := &domain.FCConfig{SerialPorts: []domain.SerialPortConfig{
		{PortID: 0, Functions: []string{"MSP"}},
		{PortID: 1, Functions: []string{"SERIAL_RX"}},
		{PortID: 2, Functions: []string{"GPS", "TELEMETRY_SMARTPORT"}},
	}}

	p := cfg.SerialPortWithFunction("SERIAL_RX")
	assert.NotNil(t, p)
	assert.Equal(t, 1, p.PortID)

	assert.Nil(t, cfg.SerialPortWithFunction("VTX_TRAMP"))
	assert.Len(t, cfg.SerialPortsWithFunction("GPS"), 1)
}
