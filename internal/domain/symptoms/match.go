package symptoms

import (
	"math"
	"sort"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// Match is one symptom candidate for a piece of free text, with a
// confidence in [0, 1].
type Match struct {
	Key        string  `json:"key"`
	Confidence float64 `json:"confidence"`
}

// MatchSymptom matches free-text user input against the keyword index
// and returns ranked candidates, best first. Only matches with
// confidence above 0.2 are kept.
//
// Each keyword hit contributes 1.0 plus 0.5 per extra word in the
// phrase, the total is normalized by the size of the keyword list, then
// scaled so a single hit lands around 0.25 and three or more approach 1.
func MatchSymptom(userText string) []Match {
	text := strings.ToLower(strings.TrimSpace(userText))
	if text == "" {
		return nil
	}

	var matches []Match
	for key, keywords := range symptomKeywords {
		var weightedHits float64
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				words := len(strings.Fields(keyword))
				weightedHits += 1.0 + float64(words-1)*0.5
			}
		}
		if weightedHits == 0 {
			continue
		}

		raw := math.Min(1.0, weightedHits/float64(len(keywords)))
		confidence := math.Min(1.0, raw*3.5)
		if confidence > 0.2 {
			matches = append(matches, Match{Key: key, Confidence: math.Round(confidence*100) / 100})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Key < matches[j].Key
	})
	return matches
}

// PrioritizeResults splits findings into those relevant to the reported
// symptoms and everything else. The pool is every failed validation
// result plus every discrepancy; both partitions come back sorted by
// severity, then check id.
func PrioritizeResults(results []domain.ValidationResult, discrepancies []domain.Discrepancy, symptomKeys []string) (relevant, other []domain.Finding) {
	relevantIDs := make(map[string]bool)
	for _, key := range symptomKeys {
		for _, id := range SymptomChecks[key] {
			relevantIDs[id] = true
		}
	}

	pool := make([]domain.Finding, 0, len(results)+len(discrepancies))
	for _, r := range results {
		if r.Failed() {
			pool = append(pool, r)
		}
	}
	for _, d := range discrepancies {
		pool = append(pool, d)
	}

	for _, item := range pool {
		if relevantIDs[item.CheckID()] {
			relevant = append(relevant, item)
		} else {
			other = append(other, item)
		}
	}
	sortFindings(relevant)
	sortFindings(other)
	return relevant, other
}

func sortFindings(items []domain.Finding) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].CheckSeverity().Rank(), items[j].CheckSeverity().Rank()
		if ri != rj {
			return ri < rj
		}
		return items[i].CheckID() < items[j].CheckID()
	})
}
