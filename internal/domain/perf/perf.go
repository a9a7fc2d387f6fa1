// Package perf estimates flight performance for a build from its
// component specs: thrust, thrust-to-weight, currents, power, flight
// time and speed. Every figure is an estimate; the point is comparing
// builds, not predicting a stopwatch.
package perf

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Report holds all computed performance metrics for one build.
type Report struct {
	ThrustToWeightRatio    float64 `json:"thrust_to_weight_ratio"`
	TotalThrustG           float64 `json:"total_thrust_g"`
	HoverThrottlePct       float64 `json:"hover_throttle_pct"`
	MaxCurrentDrawA        float64 `json:"max_current_draw_a"`
	HoverCurrentA          float64 `json:"hover_current_a"`
	HoverPowerW            float64 `json:"hover_power_w"`
	MaxPowerW              float64 `json:"max_power_w"`
	EstimatedFlightTimeMin float64 `json:"estimated_flight_time_min"`
	EstimatedCruiseTimeMin float64 `json:"estimated_cruise_time_min"`
	BatteryEnergyWh        float64 `json:"battery_energy_wh"`
	MaxSpeedEstimateKmh    float64 `json:"max_speed_estimate_kmh"`
	PropTipSpeedMs         float64 `json:"prop_tip_speed_ms"`
	EfficiencyGramsPerWatt float64 `json:"efficiency_grams_per_watt"`
}

// Summary renders a human-readable multi-line report.
func (r *Report) Summary() string {
	lines := []string{
		"=== Performance Report ===",
		"",
		fmt.Sprintf("  Thrust-to-weight ratio : %.2f : 1", r.ThrustToWeightRatio),
		fmt.Sprintf("  Total thrust (4 motors): %.0f g", r.TotalThrustG),
		fmt.Sprintf("  Hover throttle         : %.1f %%", r.HoverThrottlePct),
		"",
		fmt.Sprintf("  Max current draw       : %.1f A", r.MaxCurrentDrawA),
		fmt.Sprintf("  Hover current          : %.1f A", r.HoverCurrentA),
		fmt.Sprintf("  Max power              : %.0f W", r.MaxPowerW),
		fmt.Sprintf("  Hover power            : %.1f W", r.HoverPowerW),
		"",
		fmt.Sprintf("  Battery energy         : %.2f Wh", r.BatteryEnergyWh),
		fmt.Sprintf("  Flight time (hover)    : %.1f min", r.EstimatedFlightTimeMin),
		fmt.Sprintf("  Cruise time (~60%% thr) : %.1f min", r.EstimatedCruiseTimeMin),
		"",
		fmt.Sprintf("  Max speed estimate     : %.0f km/h", r.MaxSpeedEstimateKmh),
		fmt.Sprintf("  Prop tip speed         : %.0f m/s", r.PropTipSpeedMs),
		fmt.Sprintf("  Efficiency at hover    : %.2f g/W", r.EfficiencyGramsPerWatt),
		"",
		"===========================",
	}
	return strings.Join(lines, "\n")
}

// Calculate computes performance metrics for a build. A motor and a
// battery are required; a propeller sharpens the thrust and speed
// estimates but is optional.
func Calculate(b *domain.Build) (*Report, error) {
	motor := b.GetComponent("motor")
	battery := b.GetComponent("battery")
	propeller := b.GetComponent("propeller")

	if motor == nil {
		return nil, errors.New("build is missing a motor component")
	}
	if battery == nil {
		return nil, errors.New("build is missing a battery component")
	}

	motorCount := b.MotorCount()

	kv := specFloat(motor, "kv", 0)
	maxCurrentPerMotor := specFloat(motor, "max_current_a", 0)

	capacityMah := specFloat(battery, "capacity_mah", 0)
	cells := specFloat(battery, "cell_count", 0)
	voltageNominal := specFloat(battery, "voltage_nominal_v", cells*3.7)

	diameterInches := 5.0
	pitchInches := 4.0
	if propeller != nil {
		diameterInches = specFloat(propeller, "diameter_inches", 5.0)
		pitchInches = specFloat(propeller, "pitch_inches", 4.0)
	}

	totalThrust := estimateMaxThrustG(motor, propeller) * float64(motorCount)

	auw := b.AllUpWeightG()
	if auw <= 0 {
		auw = 1.0
	}
	twr := totalThrust / auw

	// Thrust scales roughly with throttle squared, so hover sits at
	// sqrt(1/TWR) of full stick.
	hoverThrottle := 1.0
	if twr > 0 {
		hoverThrottle = math.Sqrt(1.0 / twr)
	}

	maxCurrentDraw := maxCurrentPerMotor * float64(motorCount)
	hoverCurrent := maxCurrentDraw * hoverThrottle * hoverThrottle
	hoverPower := hoverCurrent * voltageNominal
	maxPower := maxCurrentDraw * voltageNominal

	batteryEnergyWh := capacityMah * voltageNominal / 1000.0

	flightTimeMin := 0.0
	if hoverPower > 0 {
		flightTimeMin = batteryEnergyWh / hoverPower * 60.0
	}
	// Cruise at ~60% throttle is less efficient, drag grows with speed.
	cruiseTimeMin := flightTimeMin * 0.7

	maxRPM := kv * cells * 4.2
	propDiameterM := diameterInches * 0.0254
	tipSpeed := maxRPM * propDiameterM * math.Pi / 60.0

	// Pitch speed derated by ~50% for real-world losses.
	pitchM := pitchInches * 0.0254
	maxSpeedKmh := pitchM * maxRPM * 60.0 / 1000.0 * 0.5

	efficiency := 0.0
	if hoverPower > 0 {
		efficiency = auw / hoverPower
	}

	return &Report{
		ThrustToWeightRatio:    twr,
		TotalThrustG:           totalThrust,
		HoverThrottlePct:       hoverThrottle * 100.0,
		MaxCurrentDrawA:        maxCurrentDraw,
		HoverCurrentA:          hoverCurrent,
		HoverPowerW:            hoverPower,
		MaxPowerW:              maxPower,
		EstimatedFlightTimeMin: flightTimeMin,
		EstimatedCruiseTimeMin: cruiseTimeMin,
		BatteryEnergyWh:        batteryEnergyWh,
		MaxSpeedEstimateKmh:    maxSpeedKmh,
		PropTipSpeedMs:         tipSpeed,
		EfficiencyGramsPerWatt: efficiency,
	}, nil
}

// estimateMaxThrustG estimates max thrust per motor. A declared
// max_thrust_g wins; otherwise estimate from max power and a prop-size
// g/W figure at full throttle (a 2306 on a 5" triblade runs ~1.6 g/W).
func estimateMaxThrustG(motor, propeller *domain.Component) float64 {
	if v, ok := motor.GetFloat("max_thrust_g"); ok {
		return v
	}

	maxPowerW := specFloat(motor, "max_power_w", 0)
	if maxPowerW <= 0 {
		// Last resort: max current at a voltage guessed from the kv class.
		maxCurrent := specFloat(motor, "max_current_a", 0)
		kv := specFloat(motor, "kv", 0)
		switch {
		case kv > 5000:
			maxPowerW = maxCurrent * 4.2 // 1S micro
		case kv > 2500:
			maxPowerW = maxCurrent * 14.8 // 4S
		default:
			maxPowerW = maxCurrent * 22.2 // 6S
		}
	}

	gPerW := 1.5
	if propeller != nil && len(propeller.Specs) > 0 {
		diameter := specFloat(propeller, "diameter_inches", 5.0)
		blades := specFloat(propeller, "blades", 3)
		gPerW = 1.1 + 0.07*diameter + 0.05*blades
	}
	return maxPowerW * gPerW
}

func specFloat(c *domain.Component, key string, fallback float64) float64 {
	if v, ok := c.GetFloat(key); ok {
		return v
	}
	return fallback
}
