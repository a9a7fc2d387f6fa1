package symptoms_test

import (
	"regexp"
	"testing"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIntegrity(t *testing.T) {
	keys := map[string]bool{}
	for _, s := range symptoms.Catalog {
		keys[s.Key] = true
		assert.NotEmpty(t, s.Label, "label for %q", s.Key)
		assert.Greater(t, len(s.Description), 20, "description for %q", s.Key)
	}

	checkID := regexp.MustCompile(`^(disc|fw|elec)_\d{3}$`)
	for key, checks := range symptoms.SymptomChecks {
		assert.True(t, keys[key], "check mapping for unknown symptom %q", key)
		assert.NotEmpty(t, checks, "empty check list for %q", key)
		seen := map[string]bool{}
		for _, id := range checks {
			assert.Regexp(t, checkID, id, "check id in %q", key)
			assert.False(t, seen[id], "duplicate check id %s in %q", id, key)
			seen[id] = true
		}
	}
	for key := range keys {
		assert.Contains(t, symptoms.SymptomChecks, key, "no checks mapped for %q", key)
	}
}

func TestLookup(t *testing.T) {
	s, ok := symptoms.Lookup("cant_arm")
	require.True(t, ok)
	assert.Equal(t, "Will not arm", s.Label)

	_, ok = symptoms.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestFixSuggestions(t *testing.T) {
	for _, id := range []string{
		"fw_001", "fw_002", "fw_003", "fw_004", "fw_005", "fw_006", "fw_007",
		"fw_008", "fw_009", "fw_010", "fw_011", "fw_012", "fw_013", "fw_014",
		"fw_015", "fw_016", "fw_017", "fw_018", "fw_019", "fw_020",
	} {
		assert.NotEmpty(t, symptoms.FixSuggestion(id), "missing suggestion for %s", id)
	}
	assert.Empty(t, symptoms.FixSuggestion("nonexistent"))
}

func TestMatchSymptom(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact keyword", "motor", "motors_wont_spin"},
		{"arm related", "drone wont arm", "cant_arm"},
		{"gps text", "gps has no satellites", "gps_not_working"},
		{"failsafe text", "failsafe keeps triggering", "failsafe_issues"},
		{"vibration text", "lots of jello in my video and shaking", "bad_vibrations"},
		{"flight time text", "battery drains too fast short flight time", "short_flight_time"},
	}
	for _, tt := range tests {
		matches := symptoms.MatchSymptom(tt.text)
		found := false
		for _, m := range matches {
			if m.Key == tt.want {
				found = true
			}
		}
		assert.True(t, found, "%s: expected %q among matches %v", tt.name, tt.want, matches)
	}
}

func TestMatchSymptom_MultiWordPhraseRanksFirst(t *testing.T) {
	matches := symptoms.MatchSymptom("no video feed in goggles")
	require.NotEmpty(t, matches)
	assert.Equal(t, "no_video", matches[0].Key)
}

func TestMatchSymptom_EmptyInput(t *testing.T) {
	assert.Empty(t, symptoms.MatchSymptom(""))
	assert.Empty(t, symptoms.MatchSymptom("   "))
}

func TestMatchSymptom_NoMatch(t *testing.T) {
	assert.Empty(t, symptoms.MatchSymptom("weather forecast tomorrow"))
}

func TestMatchSymptom_ScoresNormalizedAndSorted(t *testing.T) {
	matches := symptoms.MatchSymptom("motor not spinning vibration jello")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Greater(t, m.Confidence, 0.2, "score for %q below threshold", m.Key)
		assert.LessOrEqual(t, m.Confidence, 1.0, "score for %q above 1", m.Key)
	}
	for i := 0; i+1 < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Confidence, matches[i+1].Confidence,
			"matches not sorted at %d", i)
	}
}

func TestMatchSymptom_CaseInsensitive(t *testing.T) {
	lower := symptoms.MatchSymptom("no video")
	upper := symptoms.MatchSymptom("NO VIDEO")
	assert.Equal(t, lower, upper)
}

func TestPrioritizeResults(t *testing.T) {
	mkResult := func(id string, sev domain.Severity, outcome domain.Outcome) domain.ValidationResult {
		return domain.ValidationResult{
			ConstraintID:   id,
			ConstraintName: "Check " + id,
			Severity:       sev,
			Outcome:        outcome,
			Message:        "test message for " + id,
		}
	}
	mkDisc := func(id string, sev domain.Severity) domain.Discrepancy {
		return domain.Discrepancy{
			ID: id, ComponentType: "test", Category: "test", Severity: sev,
			FleetValue: "fleet", DetectedValue: "detected", Message: "test " + id,
		}
	}
	ids := func(items []domain.Finding) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.CheckID())
		}
		return out
	}

	t.Run("splits by symptom", func(t *testing.T) {
		results := []domain.ValidationResult{
			mkResult("fw_001", domain.SeverityCritical, domain.OutcomeFailed),
			mkResult("fw_004", domain.SeverityCritical, domain.OutcomeFailed),
			mkResult("fw_012", domain.SeverityWarning, domain.OutcomeFailed),
		}
		discs := []domain.Discrepancy{mkDisc("disc_004", domain.SeverityWarning)}

		relevant, other := symptoms.PrioritizeResults(results, discs, []string{"motors_wont_spin"})
		assert.ElementsMatch(t, []string{"fw_001", "disc_004"}, ids(relevant))
		assert.ElementsMatch(t, []string{"fw_004", "fw_012"}, ids(other))
	})

	t.Run("no symptoms puts everything in other", func(t *testing.T) {
		results := []domain.ValidationResult{mkResult("fw_001", domain.SeverityCritical, domain.OutcomeFailed)}
		discs := []domain.Discrepancy{mkDisc("disc_002", domain.SeverityCritical)}

		relevant, other := symptoms.PrioritizeResults(results, discs, nil)
		assert.Empty(t, relevant)
		assert.Len(t, other, 2)
	})

	t.Run("passed and skipped results excluded", func(t *testing.T) {
		results := []domain.ValidationResult{
			mkResult("fw_001", domain.SeverityCritical, domain.OutcomePassed),
			mkResult("elec_001", domain.SeverityCritical, domain.OutcomeSkipped),
			mkResult("fw_002", domain.SeverityCritical, domain.OutcomeFailed),
		}

		relevant, other := symptoms.PrioritizeResults(results, nil, []string{"motors_wont_spin"})
		all := append(ids(relevant), ids(other)...)
		assert.Equal(t, []string{"fw_002"}, all)
	})

	t.Run("sorted by severity then id", func(t *testing.T) {
		results := []domain.ValidationResult{
			mkResult("fw_014", domain.SeverityInfo, domain.OutcomeFailed),
			mkResult("fw_012", domain.SeverityWarning, domain.OutcomeFailed),
			mkResult("fw_013", domain.SeverityInfo, domain.OutcomeFailed),
		}

		relevant, other := symptoms.PrioritizeResults(results, nil, []string{"bad_vibrations"})
		assert.Empty(t, other)
		assert.Equal(t, []string{"fw_012", "fw_013", "fw_014"}, ids(relevant))
	})

	t.Run("multiple symptoms union their checks", func(t *testing.T) {
		results := []domain.ValidationResult{
			mkResult("fw_001", domain.SeverityCritical, domain.OutcomeFailed),
			mkResult("fw_007", domain.SeverityWarning, domain.OutcomeFailed),
			mkResult("fw_012", domain.SeverityWarning, domain.OutcomeFailed),
		}

		relevant, _ := symptoms.PrioritizeResults(results, nil, []string{"motors_wont_spin", "no_video"})
		assert.ElementsMatch(t, []string{"fw_001", "fw_007"}, ids(relevant))
	})
}

func TestResolutionGuides(t *testing.T) {
	required := []string{
		"disc_002", "disc_003", "disc_004",
		"fw_001", "fw_004", "fw_005", "fw_006", "fw_007", "fw_008",
		"fw_010", "fw_011",
		"elec_001", "elec_002", "elec_003",
	}
	for _, id := range required {
		g, ok := symptoms.GuideFor(id)
		require.True(t, ok, "missing guide for %s", id)
		assert.Greater(t, len(g.Summary), 10, "summary for %s", id)
		assert.GreaterOrEqual(t, len(g.Steps), 2, "steps for %s", id)
		for i, step := range g.Steps {
			assert.Greater(t, len(step), 10, "guide %s step %d", id, i)
		}
		assert.NotEmpty(t, g.SeverityNote, "severity note for %s", id)
	}

	_, ok := symptoms.GuideFor("nonexistent_check")
	assert.False(t, ok)
}
