// Package optimize generates cost-optimized build suggestions. Candidate
// builds are assembled from a component pool, scored against user priority
// weights, validated against the compatibility rules and returned best
// first.
package optimize

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/rules"
)

// Request holds the parameters that drive the suggester.
type Request struct {
	DroneClass string             `json:"drone_class"` // "5inch", "3inch" or "whoop"
	BudgetUSD  float64            `json:"budget_usd"`
	Priorities map[string]float64 `json:"priorities,omitempty"`
}

// Suggestion is a single scored build. Score runs 0-100, higher is better.
type Suggestion struct {
	Build          *domain.Build      `json:"build"`
	TotalCostUSD   float64            `json:"total_cost_usd"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
}

// DefaultPriorities weighs the four scoring dimensions evenly.
func DefaultPriorities() map[string]float64 {
	return map[string]float64{
		"performance": 0.25,
		"weight":      0.25,
		"price":       0.25,
		"durability":  0.25,
	}
}

// Slots every suggestion must fill, in assembly order.
var requiredSlots = []string{"motor", "esc", "fc", "frame", "propeller", "battery", "vtx", "receiver"}

// VTX form factors usable per drone class. Receivers work everywhere.
var vtxCategories = map[string][]string{
	"5inch": {"digital_hd", "analog"},
	"3inch": {"digital_hd", "digital_hd_micro", "analog", "analog_micro"},
	"whoop": {"digital_hd_micro", "analog_micro"},
}

var rxCategories = map[string]bool{
	"elrs": true, "crossfire": true, "frsky": true, "ghost": true,
}

// Rough midrange all-up weight per class, the anchor for weight scoring.
var classReferenceWeightG = map[string]float64{
	"5inch": 680.0,
	"3inch": 250.0,
	"whoop": 35.0,
}

// Weight-limit rules only bind classes meant to stay under 250g; a 5-inch
// build must not be rejected for being a 5-inch build.
var (
	sub250ConstraintIDs = map[string]bool{"wt_001": true, "wt_002": true}
	sub250Classes       = map[string]bool{"whoop": true}
)

const (
	motorCount = 4

	// Candidate generation and ranking caps.
	maxCandidates     = 600
	preConstraintTopN = 30
	resultTopN        = 5
)

// Suggester generates scored build suggestions from a component pool.
type Suggester struct {
	components map[string][]*domain.Component
	validator  *rules.Validator
}

// NewSuggester wraps a loaded component pool and the rule set used to
// reject incompatible suggestions.
func NewSuggester(components map[string][]*domain.Component, validator *rules.Validator) *Suggester {
	return &Suggester{components: components, validator: validator}
}

// Suggest returns up to five builds for the request, best first.
//
// Candidates come from the class-filtered pool: exhaustive enumeration for
// small pools, a greedy cheapest build plus random sampling for large ones.
// Anything over budget is dropped, the rest are scored against the priority
// weights, and the top slice is checked against the rules. Builds with a
// critical constraint failure never make the cut.
func (s *Suggester) Suggest(req Request) []Suggestion {
	pool := filterByCategory(s.components, req.DroneClass)
	candidates := s.generateCandidates(pool, req.DroneClass, req.BudgetUSD)
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]Suggestion, 0, len(candidates))
	for _, cand := range candidates {
		composite, breakdown := scoreBuild(cand.build, cand.cost, req)
		scored = append(scored, Suggestion{
			Build:          cand.build,
			TotalCostUSD:   cand.cost,
			Score:          composite,
			ScoreBreakdown: breakdown,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	// Constraint evaluation is the expensive step; only the best candidates get it.
	top := scored
	if len(top) > preConstraintTopN {
		top = top[:preConstraintTopN]
	}

	picked := make([]Suggestion, 0, resultTopN)
	for _, sug := range top {
		if s.hasCriticalFailure(sug.Build) {
			continue
		}
		picked = append(picked, sug)
		if len(picked) == resultTopN {
			break
		}
	}
	return picked
}

// Best returns the single highest-scored suggestion for a class and budget
// using the default priority weights. ok is false when nothing fits.
func (s *Suggester) Best(droneClass string, budgetUSD float64) (Suggestion, bool) {
	results := s.Suggest(Request{DroneClass: droneClass, BudgetUSD: budgetUSD})
	if len(results) == 0 {
		return Suggestion{}, false
	}
	return results[0], true
}

func (s *Suggester) hasCriticalFailure(b *domain.Build) bool {
	for _, c := range s.validator.Constraints() {
		if sub250ConstraintIDs[c.ID] && !sub250Classes[b.DroneClass] {
			continue
		}
		r := rules.Evaluate(c, b)
		if r.Failed() && r.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}

// filterByCategory keeps only the components usable for a drone class:
// VTXs by the per-class form factor list, receivers by protocol family,
// everything else by exact category match.
func filterByCategory(components map[string][]*domain.Component, droneClass string) map[string][]*domain.Component {
	vtxCats := map[string]bool{}
	for _, cat := range vtxCategories[droneClass] {
		vtxCats[cat] = true
	}

	filtered := map[string][]*domain.Component{}
	for compType, list := range components {
		var matching []*domain.Component
		for _, c := range list {
			switch compType {
			case "vtx":
				if vtxCats[c.Category] {
					matching = append(matching, c)
				}
			case "receiver":
				if rxCategories[c.Category] {
					matching = append(matching, c)
				}
			default:
				if c.Category == droneClass {
					matching = append(matching, c)
				}
			}
		}
		if len(matching) > 0 {
			filtered[compType] = matching
		}
	}
	return filtered
}

type candidate struct {
	build *domain.Build
	cost  float64
}

func (s *Suggester) generateCandidates(pool map[string][]*domain.Component, droneClass string, budget float64) []candidate {
	lists := make([][]*domain.Component, len(requiredSlots))
	for i, slot := range requiredSlots {
		if len(pool[slot]) == 0 {
			return nil
		}
		lists[i] = pool[slot]
	}

	productSize := 1
	for _, lst := range lists {
		productSize *= len(lst)
		if productSize > maxCandidates*10 {
			break
		}
	}

	var candidates []candidate
	idx := 0

	if productSize <= maxCandidates {
		// Small pools get walked exhaustively, odometer-style.
		indices := make([]int, len(lists))
		for {
			combo := make([]*domain.Component, len(lists))
			for i, j := range indices {
				combo[i] = lists[i][j]
			}
			if cost := comboCost(combo); cost <= budget {
				idx++
				candidates = append(candidates, candidate{assemble(combo, droneClass, idx), cost})
			}
			if !advance(indices, lists) {
				break
			}
		}
		return candidates
	}

	// Greedy seed: the cheapest part in every slot.
	cheapest := make([]*domain.Component, len(lists))
	for i, lst := range lists {
		cheapest[i] = lst[0]
		for _, c := range lst[1:] {
			if c.PriceUSD < cheapest[i].PriceUSD {
				cheapest[i] = c
			}
		}
	}
	seen := map[string]bool{}
	if cost := comboCost(cheapest); cost <= budget {
		idx++
		seen[comboKey(cheapest)] = true
		candidates = append(candidates, candidate{assemble(cheapest, droneClass, idx), cost})
	}

	// Fill the rest by random sampling, deduplicated on component ids.
	combo := make([]*domain.Component, len(lists))
	for attempts := 0; len(candidates) < maxCandidates && attempts < maxCandidates*5; attempts++ {
		for i, lst := range lists {
			combo[i] = lst[rand.Intn(len(lst))]
		}
		key := comboKey(combo)
		if seen[key] {
			continue
		}
		seen[key] = true
		cost := comboCost(combo)
		if cost > budget {
			continue
		}
		idx++
		candidates = append(candidates, candidate{assemble(combo, droneClass, idx), cost})
	}
	return candidates
}

func advance(indices []int, lists [][]*domain.Component) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(lists[i]) {
			return true
		}
		indices[i] = 0
	}
	return false
}

// comboCost prices a full build: four motors, props as one set, everything
// else a single unit.
func comboCost(combo []*domain.Component) float64 {
	cost := 0.0
	for i, c := range combo {
		if requiredSlots[i] == "motor" {
			cost += c.PriceUSD * motorCount
		} else {
			cost += c.PriceUSD
		}
	}
	return cost
}

func comboKey(combo []*domain.Component) string {
	ids := make([]string, len(combo))
	for i, c := range combo {
		ids[i] = c.ID
	}
	return strings.Join(ids, "-")
}

func assemble(combo []*domain.Component, droneClass string, idx int) *domain.Build {
	components := make(map[string][]*domain.Component, len(requiredSlots))
	for i, c := range combo {
		slot := requiredSlots[i]
		if slot == "motor" {
			components[slot] = []*domain.Component{c, c, c, c}
		} else {
			components[slot] = []*domain.Component{c}
		}
	}
	return &domain.Build{
		Name:       fmt.Sprintf("Optimized %s #%d", droneClass, idx),
		DroneClass: droneClass,
		Components: components,
	}
}

func scoreBuild(b *domain.Build, totalCost float64, req Request) (float64, map[string]float64) {
	breakdown := map[string]float64{
		"performance": performanceScore(b),
		"weight":      weightScore(b, req.DroneClass),
		"price":       priceScore(totalCost, req.BudgetUSD),
		"durability":  durabilityScore(b),
	}

	weights := req.Priorities
	if len(weights) == 0 {
		weights = DefaultPriorities()
	}
	totalW := 0.0
	for _, w := range weights {
		totalW += w
	}
	if totalW == 0 {
		totalW = 1.0
	}

	composite := 0.0
	for key, value := range breakdown {
		composite += value * (weights[key] / totalW)
	}
	return clamp(composite, 0, 100), breakdown
}

// performanceScore approximates thrust-to-weight: higher KV, more motor
// power and a hotter prop class raise it. For a 5-inch quad the raw proxy
// lands around 5000-20000, so /200 maps it onto 0-100.
func performanceScore(b *domain.Build) float64 {
	motor := b.Motor()
	if motor == nil {
		return 0.0
	}
	kv := specFloat(motor, "kv", 0)
	maxPowerW := specFloat(motor, "max_power_w", 0)

	thrustVal := 4.0
	if prop := b.GetComponent("propeller"); prop != nil {
		thrustVal = thrustClassValue(prop.GetString("thrust_class"))
	}

	auw := b.AllUpWeightG()
	if auw <= 0 {
		auw = 1.0
	}
	proxy := kv * maxPowerW * thrustVal / auw
	return clamp(proxy/200.0, 0, 100)
}

// weightScore rewards builds lighter than the class reference: half the
// reference weight scores 100, the reference itself 50, 1.5x scores 0.
func weightScore(b *domain.Build, droneClass string) float64 {
	reference, ok := classReferenceWeightG[droneClass]
	if !ok {
		reference = 500.0
	}
	auw := b.AllUpWeightG()
	if auw <= 0 {
		return 50.0
	}
	ratio := auw / reference
	return clamp(100.0*(1.0-(ratio-0.5)), 0, 100)
}

func priceScore(totalCost, budget float64) float64 {
	if budget <= 0 {
		return 0.0
	}
	return clamp(100.0*(1.0-totalCost/budget), 0, 100)
}

// durabilityScore starts at a neutral 50. ESC current headroom over the
// motors moves it by -20 to +30 and thick frame arms add up to 20.
func durabilityScore(b *domain.Build) float64 {
	score := 50.0

	esc := b.GetComponent("esc")
	motor := b.Motor()
	if esc != nil && motor != nil {
		escAmps := specFloat(esc, "continuous_current_a", 0)
		motorDraw := specFloat(motor, "max_current_a", 0)
		if motorDraw > 0 {
			headroom := escAmps / motorDraw
			score += clamp((headroom-1.0)*60.0, -20, 30)
		}
	}

	if frame := b.GetComponent("frame"); frame != nil {
		armMM := specFloat(frame, "arm_thickness_mm", 0)
		score += clamp((armMM-3.0)*10.0, 0, 20)
	}

	return clamp(score, 0, 100)
}

func thrustClassValue(label string) float64 {
	switch label {
	case "Very Low":
		return 1.0
	case "Low":
		return 2.0
	case "Low-Medium":
		return 3.0
	case "Medium":
		return 4.0
	case "Medium-High":
		return 5.0
	case "High":
		return 6.0
	case "Very High":
		return 7.0
	}
	return 4.0
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func specFloat(c *domain.Component, key string, fallback float64) float64 {
	if v, ok := c.GetFloat(key); ok {
		return v
	}
	return fallback
}
