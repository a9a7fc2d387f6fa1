package resolve_test

import (
	"testing"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuild() *domain.Build {
	motor := &domain.Component{
		ID: "motor_test_2306", Type: "motor", Manufacturer: "T-Motor", Model: "Velox 2306",
		WeightG: 32.5, PriceUSD: 22.9,
		Specs: map[string]any{"kv": 1950.0, "max_current_a": 38.2, "stator_diameter_mm": 23.0},
	}
	battery := &domain.Component{
		ID: "battery_test_6s", Type: "battery", Manufacturer: "CNHL", Model: "Black 1300",
		WeightG: 198.0, PriceUSD: 32.0,
		Specs: map[string]any{"cell_count": 6.0, "capacity_mah": 1300.0, "chemistry": "LiPo"},
	}
	esc := &domain.Component{
		ID: "esc_test_45a", Type: "esc", Manufacturer: "SpeedyBee", Model: "BLS 45A",
		WeightG: 12.1, PriceUSD: 28.0,
		Specs: map[string]any{"max_current_a": 45.0, "voltage_max_s": 6.0, "protocol": "DShot600"},
	}
	return &domain.Build{
		Name:       "Resolver Test Quad",
		DroneClass: "5inch_freestyle",
		Components: map[string][]*domain.Component{
			"motor":   {motor, motor, motor, motor},
			"battery": {battery},
			"esc":     {esc},
		},
	}
}

func TestResolveField_Literals(t *testing.T) {
	b := testBuild()

	v, ok := resolve.ResolveField(b, "250")
	require.True(t, ok)
	assert.Equal(t, 250, v)

	v, ok = resolve.ResolveField(b, "2.5")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = resolve.ResolveField(b, "-12")
	require.True(t, ok)
	assert.Equal(t, -12, v)

	v, ok = resolve.ResolveField(b, "true")
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = resolve.ResolveField(b, "false")
	require.True(t, ok)
	assert.Equal(t, false, v)
}

func TestResolveField_ComponentPaths(t *testing.T) {
	b := testBuild()

	v, ok := resolve.ResolveField(b, "motor.kv")
	require.True(t, ok)
	assert.Equal(t, 1950.0, v)

	v, ok = resolve.ResolveField(b, "battery.cell_count")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)

	v, ok = resolve.ResolveField(b, "esc.protocol")
	require.True(t, ok)
	assert.Equal(t, "DShot600", v)

	v, ok = resolve.ResolveField(b, "motor.manufacturer")
	require.True(t, ok)
	assert.Equal(t, "T-Motor", v)
}

func TestResolveField_BuildAggregates(t *testing.T) {
	b := testBuild()

	v, ok := resolve.ResolveField(b, "build.motor_count")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	v, ok = resolve.ResolveField(b, "build.all_up_weight_g")
	require.True(t, ok)
	assert.InDelta(t, 4*32.5+198.0+12.1, v.(float64), 0.001)

	v, ok = resolve.ResolveField(b, "build.dry_weight_g")
	require.True(t, ok)
	assert.InDelta(t, 4*32.5+12.1, v.(float64), 0.001)

	v, ok = resolve.ResolveField(b, "build.total_price_usd")
	require.True(t, ok)
	assert.InDelta(t, 4*22.9+32.0+28.0, v.(float64), 0.001)
}

func TestResolveField_Unresolvable(t *testing.T) {
	b := testBuild()

	_, ok := resolve.ResolveField(b, "vtx.power_mw")
	assert.False(t, ok, "missing component")

	_, ok = resolve.ResolveField(b, "motor.no_such_field")
	assert.False(t, ok, "undeclared field")

	_, ok = resolve.ResolveField(b, "build.no_such_aggregate")
	assert.False(t, ok)

	_, ok = resolve.ResolveField(b, "bareword")
	assert.False(t, ok)

	_, ok = resolve.ResolveField(b, "")
	assert.False(t, ok)
}

func TestEvalExpression_Arithmetic(t *testing.T) {
	b := testBuild()

	v, ok := resolve.EvalExpression(b, "motor.max_current_a * 4")
	require.True(t, ok)
	assert.InDelta(t, 152.8, v.(float64), 0.001)

	v, ok = resolve.EvalExpression(b, "(battery.cell_count + 2) * 10")
	require.True(t, ok)
	assert.InDelta(t, 80.0, v.(float64), 0.001)

	v, ok = resolve.EvalExpression(b, "esc.max_current_a - motor.max_current_a")
	require.True(t, ok)
	assert.InDelta(t, 6.8, v.(float64), 0.001)
}

func TestEvalExpression_Comparisons(t *testing.T) {
	b := testBuild()

	v, ok := resolve.EvalExpression(b, "motor.max_current_a * 4 <= esc.max_current_a * 4")
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = resolve.EvalExpression(b, "battery.cell_count > esc.voltage_max_s")
	require.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = resolve.EvalExpression(b, "battery.cell_count == 6")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestEvalExpression_Boolean(t *testing.T) {
	b := testBuild()

	v, ok := resolve.EvalExpression(b, "battery.cell_count >= 4 and battery.cell_count <= 6")
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = resolve.EvalExpression(b, "battery.cell_count > 6 or motor.kv > 1000")
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = resolve.EvalExpression(b, "not (battery.cell_count == 6)")
	require.True(t, ok)
	assert.Equal(t, false, v)

	v, ok = resolve.EvalExpression(b, "battery.cell_count >= 4 && esc.voltage_max_s >= 6")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestEvalExpression_UnresolvableToken(t *testing.T) {
	b := testBuild()

	_, ok := resolve.EvalExpression(b, "motor.kv * vtx.power_mw")
	assert.False(t, ok, "one unresolvable token makes the whole expression unresolvable")

	_, ok = resolve.EvalExpression(b, "nonexistent.field > 5")
	assert.False(t, ok)
}

func TestEvalExpression_Unsafe(t *testing.T) {
	b := testBuild()

	_, ok := resolve.EvalExpression(b, "motor.kv; drop")
	assert.False(t, ok)

	_, ok = resolve.EvalExpression(b, "__import__")
	assert.False(t, ok, "bare names do not resolve")

	_, ok = resolve.EvalExpression(b, "motor.kv[0]")
	assert.False(t, ok, "no indexing syntax")

	_, ok = resolve.EvalExpression(b, "")
	assert.False(t, ok)
}

func TestEvalExpression_DivisionByZero(t *testing.T) {
	b := testBuild()

	_, ok := resolve.EvalExpression(b, "motor.kv / 0")
	assert.False(t, ok)
}

func TestEvalExpression_ShortCircuit(t *testing.T) {
	b := testBuild()

	// The right side divides by zero but is never reached.
	v, ok := resolve.EvalExpression(b, "false and motor.kv / 0 > 1")
	require.True(t, ok)
	assert.Equal(t, false, domain.AsBool(v))
}

func TestCompare_MixedTypes(t *testing.T) {
	eq, ok := resolve.Compare("==", "DShot600", "DShot600")
	require.True(t, ok)
	assert.Equal(t, true, eq)

	eq, ok = resolve.Compare("==", 4, 4.0)
	require.True(t, ok)
	assert.Equal(t, true, eq)

	eq, ok = resolve.Compare("==", "four", 4)
	require.True(t, ok)
	assert.Equal(t, false, eq, "incomparable types are unequal, not an error")

	_, ok = resolve.Compare("<", "four", 4)
	assert.False(t, ok, "ordering incomparable types is unresolvable")
}

func TestEqual(t *testing.T) {
	assert.True(t, resolve.Equal(2, 2.0))
	assert.True(t, resolve.Equal("SBUS", "SBUS"))
	assert.False(t, resolve.Equal("SBUS", 2))
	assert.True(t, resolve.Equal(true, true))
	assert.False(t, resolve.Equal(true, false))
}
