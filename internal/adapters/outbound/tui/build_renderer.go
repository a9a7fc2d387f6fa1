package tui

import (
	"fmt"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/optimize"
	"github.com/dronedoctor/dronedoctor/internal/domain/perf"
)

// RenderDroneDetail formats one fleet drone with its full component list.
func RenderDroneDetail(d *domain.Build) string {
	var b strings.Builder

	name := titleStyle.Render(d.Name)
	if d.Nickname != "" {
		name += dimStyle.Render(" “" + d.Nickname + "”")
	}
	b.WriteString("\n  " + name + "  " + dimStyle.Render(d.DroneClass))
	if d.Status != "" {
		b.WriteString("  " + faintStyle.Render("["+d.Status+"]"))
	}
	b.WriteString("\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, slot := range sortedSlots(d) {
		comps := d.Components[slot]
		for i, c := range comps {
			label := slot
			if len(comps) > 1 {
				label = fmt.Sprintf("%s %d", slot, i+1)
			}
			status := ""
			if s, ok := d.ComponentStatus[slot]; ok && s != "" {
				status = "  " + faintStyle.Render("("+s+")")
			}
			fmt.Fprintf(&b, "  %-14s %s %s%s\n",
				dimStyle.Render(label), titleStyle.Render(c.Manufacturer), c.Model, status)
		}
	}

	fmt.Fprintf(&b, "\n  %s\n", dimStyle.Render(fmt.Sprintf(
		"AUW %.0fg  ·  dry %.0fg  ·  $%.0f",
		d.AllUpWeightG(), d.DryWeightG(), d.TotalPriceUSD())))

	if len(d.Tags) > 0 {
		fmt.Fprintf(&b, "  %s\n", faintStyle.Render("tags: "+strings.Join(d.Tags, ", ")))
	}
	if d.Notes != "" {
		fmt.Fprintf(&b, "  %s\n", hintStyle.Render(d.Notes))
	}
	return b.String()
}

// RenderPerformance formats the performance envelope estimate.
func RenderPerformance(buildName string, report *perf.Report) string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Performance Estimate") +
		dimStyle.Render("  "+buildName) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	twr := passStyle
	switch {
	case report.ThrustToWeightRatio < 2:
		twr = failStyle
	case report.ThrustToWeightRatio < 4:
		twr = warnStyle
	}

	rows := []struct {
		label string
		value string
	}{
		{"Thrust-to-weight", twr.Render(fmt.Sprintf("%.1f:1", report.ThrustToWeightRatio))},
		{"Total thrust", fmt.Sprintf("%.0f g", report.TotalThrustG)},
		{"Hover throttle", fmt.Sprintf("%.0f%%", report.HoverThrottlePct)},
		{"Hover current", fmt.Sprintf("%.1f A", report.HoverCurrentA)},
		{"Max current", fmt.Sprintf("%.1f A", report.MaxCurrentDrawA)},
		{"Hover power", fmt.Sprintf("%.0f W", report.HoverPowerW)},
		{"Battery energy", fmt.Sprintf("%.1f Wh", report.BatteryEnergyWh)},
		{"Flight time (hover)", fmt.Sprintf("%.1f min", report.EstimatedFlightTimeMin)},
		{"Flight time (cruise)", fmt.Sprintf("%.1f min", report.EstimatedCruiseTimeMin)},
		{"Max speed", fmt.Sprintf("~%.0f km/h", report.MaxSpeedEstimateKmh)},
		{"Prop tip speed", fmt.Sprintf("%.0f m/s", report.PropTipSpeedMs)},
		{"Efficiency", fmt.Sprintf("%.1f g/W", report.EfficiencyGramsPerWatt)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-22s %s\n", dimStyle.Render(row.label), row.value)
	}
	return b.String()
}

// RenderSuggestions formats optimizer output, best build first.
func RenderSuggestions(suggestions []optimize.Suggestion) string {
	if len(suggestions) == 0 {
		return "  " + dimStyle.Render("No build fits the given budget and class.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Suggested Builds") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n")

	for i, s := range suggestions {
		fmt.Fprintf(&b, "\n  %s %s  %s\n",
			sectionStyle.Render(fmt.Sprintf("#%d", i+1)),
			titleStyle.Render(fmt.Sprintf("score %.0f", s.Score)),
			dimStyle.Render(fmt.Sprintf("$%.0f", s.TotalCostUSD)),
		)
		fmt.Fprintf(&b, "     %s\n", confidenceBar(s.Score/100, 24))

		for _, slot := range sortedSlots(s.Build) {
			if c := s.Build.GetComponent(slot); c != nil {
				fmt.Fprintf(&b, "     %-12s %s %s\n",
					dimStyle.Render(slot), c.Manufacturer, c.Model)
			}
		}
	}
	return b.String()
}
