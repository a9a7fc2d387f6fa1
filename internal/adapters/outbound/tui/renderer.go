// Package tui renders diagnostic output with lipgloss styling. All
// user-facing terminal text flows through here; the domain packages
// only build plain data.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/diagnose"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

// ── Claude-inspired warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	critTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderDiagnosticReport formats the full diagnosis for the terminal.
func RenderDiagnosticReport(report *diagnose.Report) string {
	var b strings.Builder

	title := headerStyle.Render("dronedoctor")
	mode := "Diagnostic Report"
	if report.IsQuickCheck {
		mode = "Quick Health Check"
	}
	subtitle := dimStyle.Render(mode)

	name := titleStyle.Render(report.BuildName)
	if report.FCInfo != "" {
		name += "  " + dimStyle.Render(report.FCInfo)
	}

	verdict := passStyle.Bold(true).Render("NO CRITICAL ISSUES")
	if report.HasCriticalIssues() {
		verdict = failStyle.Bold(true).Render("CRITICAL ISSUES FOUND")
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + name + "\n" + verdict))
	b.WriteString("\n\n")

	relevant := report.SymptomRelevant()
	other := report.OtherFindings()

	if len(report.Symptoms) > 0 {
		b.WriteString("  " + sectionStyle.Render("Reported symptoms") + "\n")
		for _, key := range report.Symptoms {
			label := key
			if s, ok := symptoms.Lookup(key); ok {
				label = s.Label
			}
			b.WriteString("    " + dimStyle.Render("• "+label) + "\n")
		}
		b.WriteString("\n")

		renderFindingSection(&b, report, "Likely causes", relevant)
		renderFindingSection(&b, report, "Other findings", other)
	} else {
		renderFindingSection(&b, report, "Findings", other)
	}

	if len(relevant)+len(other) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}

	if n := skippedCount(report); n > 0 {
		b.WriteString("\n  " + skipStyle.Render(fmt.Sprintf(
			"%d check(s) skipped for missing data — not confirmed safe", n)) + "\n")
	}

	if len(report.ConfigChanges) > 0 {
		b.WriteString("\n  " + sectionStyle.Render("Changes since previous snapshot") +
			dimStyle.Render(fmt.Sprintf(" (%d)", len(report.ConfigChanges))) + "\n")
		for _, change := range report.ConfigChanges {
			b.WriteString("    " + dimStyle.Render(change) + "\n")
		}
	}

	b.WriteString("\n  " + separatorLine + "\n")
	return b.String()
}

func renderFindingSection(b *strings.Builder, report *diagnose.Report, title string, findings []domain.Finding) {
	if len(findings) == 0 {
		return
	}

	b.WriteString("  " + sectionStyle.Render(title) +
		dimStyle.Render(fmt.Sprintf(" (%d)", len(findings))) + "\n\n")

	for _, f := range findings {
		tag := severityTag(f.CheckSeverity())
		conf := ""
		if score, ok := report.GetConfidence(f.CheckID()); ok {
			conf = faintStyle.Render(fmt.Sprintf("  confidence %.0f%%", score*100))
		}
		fmt.Fprintf(b, "    %s %s%s\n", tag, dimStyle.Render(f.CheckID()), conf)
		fmt.Fprintf(b, "         %s\n", f.Text())

		if d, ok := f.(domain.Discrepancy); ok {
			if d.FleetValue != "" || d.DetectedValue != "" {
				fmt.Fprintf(b, "         %s\n", faintStyle.Render(fmt.Sprintf(
					"fleet: %s  detected: %s", d.FleetValue, d.DetectedValue)))
			}
			if d.FixSuggestion != "" {
				fmt.Fprintf(b, "         %s\n", hintStyle.Render(d.FixSuggestion))
			}
		} else if fix := symptoms.FixSuggestion(f.CheckID()); fix != "" {
			fmt.Fprintf(b, "         %s\n", hintStyle.Render(fix))
		}
	}
	b.WriteString("\n")
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return critTagStyle.Render("crit ")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func skippedCount(report *diagnose.Report) int {
	n := 0
	if report.CompatibilityReport != nil {
		n += report.CompatibilityReport.SkippedCount()
	}
	if report.FirmwareReport != nil {
		n += report.FirmwareReport.SkippedCount()
	}
	return n
}

// RenderHistory formats past diagnose runs, newest first.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No diagnostic history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Diagnostic History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		verdict := passStyle.Render("safe")
		if !e.SafeToFly {
			verdict = failStyle.Render("unsafe")
		}

		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(day),
			faintStyle.Render(hash),
			verdict,
			dimStyle.Render(fmt.Sprintf("crit %d  warn %d  info %d",
				e.CriticalCount, e.WarningCount, e.InfoCount)),
		)
	}
	return b.String()
}

// RenderSymptomList shows the controlled symptom vocabulary.
func RenderSymptomList() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Known Symptoms") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, s := range symptoms.Catalog {
		fmt.Fprintf(&b, "  %s\n", titleStyle.Render(s.Key))
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(s.Label))
	}
	return b.String()
}

// RenderSymptomMatches shows ranked matches for a free-text complaint.
func RenderSymptomMatches(text string, matches []symptoms.Match) string {
	if len(matches) == 0 {
		return "  " + dimStyle.Render(fmt.Sprintf("No symptom matches %q.", text)) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Symptom matches") +
		dimStyle.Render(fmt.Sprintf(" for %q", text)) + "\n\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "  %s %s %s\n",
			confidenceBar(m.Confidence, 16),
			titleStyle.Render(m.Key),
			dimStyle.Render(fmt.Sprintf("%.2f", m.Confidence)),
		)
	}
	return b.String()
}

func confidenceBar(score float64, width int) string {
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", width-filled))
}

// RenderConfigList shows stored snapshots for one drone, newest first.
func RenderConfigList(slug string, configs []domain.StoredConfig) string {
	if len(configs) == 0 {
		return "  " + dimStyle.Render(fmt.Sprintf("No stored configs for %q.", slug)) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Stored Configs") +
		dimStyle.Render(" for "+slug) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, c := range configs {
		fw := strings.TrimSpace(c.Firmware + " " + c.FirmwareVersion)
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			titleStyle.Render(c.Timestamp),
			dimStyle.Render(fw),
			faintStyle.Render(c.BoardName),
		)
	}
	return b.String()
}

// RenderFleetList shows each fleet drone with its key components.
func RenderFleetList(drones []*domain.Build) string {
	if len(drones) == 0 {
		return "  " + dimStyle.Render("Fleet is empty.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Fleet") +
		dimStyle.Render(fmt.Sprintf(" (%d)", len(drones))) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, d := range drones {
		name := titleStyle.Render(d.Name)
		if d.Nickname != "" {
			name += dimStyle.Render(" “" + d.Nickname + "”")
		}
		fmt.Fprintf(&b, "  %s  %s\n", name, dimStyle.Render(d.DroneClass))

		var parts []string
		for _, slot := range sortedSlots(d) {
			if c := d.GetComponent(slot); c != nil {
				parts = append(parts, fmt.Sprintf("%s: %s %s", slot, c.Manufacturer, c.Model))
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, "    %s\n", faintStyle.Render(strings.Join(parts, "  ·  ")))
		}
	}
	return b.String()
}

func sortedSlots(d *domain.Build) []string {
	slots := make([]string, 0, len(d.Components))
	for slot := range d.Components {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
