// Package rules evaluates externally authored compatibility constraints
// against builds. Rules that cannot be decided from the data at hand are
// skipped, never failed.
package rules

import (
	"fmt"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
	"github.com/dronedoctor/dronedoctor/internal/domain/resolve"
)

// Validator runs a loaded constraint set against builds and component pairs.
type Validator struct {
	constraints []domain.Constraint
}

// NewValidator wraps an already-loaded constraint set.
func NewValidator(constraints []domain.Constraint) *Validator {
	return &Validator{constraints: constraints}
}

// Constraints returns the loaded rule set.
func (v *Validator) Constraints() []domain.Constraint {
	return v.constraints
}

// ValidateBuild evaluates every constraint against the build and returns
// the aggregated report. Constraints whose required slots are empty are
// recorded as skipped.
func (v *Validator) ValidateBuild(b *domain.Build) *domain.ValidationReport {
	report := &domain.ValidationReport{BuildName: b.Name}
	for _, c := range v.constraints {
		report.Results = append(report.Results, Evaluate(c, b))
	}
	return report
}

// CheckPair evaluates the constraints that apply to exactly two components.
// A minimal build is assembled from the pair and only rules whose required
// slot types are all present get run. The result list may be empty.
func (v *Validator) CheckPair(a, b *domain.Component) []domain.ValidationResult {
	components := map[string][]*domain.Component{}
	for _, comp := range []*domain.Component{a, b} {
		if comp.Type == "motor" {
			// Motors are stored one entry per motor in a build.
			components["motor"] = []*domain.Component{comp, comp, comp, comp}
		} else {
			components[comp.Type] = []*domain.Component{comp}
		}
	}

	mini := &domain.Build{
		Name:       fmt.Sprintf("Pair check: %s + %s", a.ID, b.ID),
		DroneClass: "unknown",
		Components: components,
	}

	var results []domain.ValidationResult
	for _, c := range v.constraints {
		if !slotsPresent(c.Components, components) {
			continue
		}
		results = append(results, Evaluate(c, mini))
	}
	return results
}

func slotsPresent(required []string, available map[string][]*domain.Component) bool {
	for _, t := range required {
		if _, ok := available[t]; !ok {
			return false
		}
	}
	return true
}

// Evaluate runs a single constraint against a build.
//
// The outcome is skipped when a required slot is empty, when a compared
// field cannot be resolved, or when resolved operands cannot be compared.
// Expression rules that do not resolve pass instead: a rule that cannot be
// falsified must not fail the build. Unsupported operator tags also pass.
func Evaluate(c domain.Constraint, b *domain.Build) domain.ValidationResult {
	// 1. Every required slot must hold a component.
	for _, slot := range c.Components {
		if slot == "transmitter" {
			// transmitter is not a modeled slot
			return skipped(c, "Skipped — transmitter not in build model.", nil)
		}
		if b.GetComponent(slot) == nil {
			return skipped(c, fmt.Sprintf("Skipped — %s not present in build.", slot), nil)
		}
	}

	valA, okA := resolve.ResolveField(b, c.Check.FieldA)
	valB, okB := resolve.ResolveField(b, c.Check.FieldB)

	// actual/limit default to the resolved operands; some operators override.
	actual := valA
	limit := valB
	passed := false

	// 2. Expression rules never skip on operand resolution.
	switch c.Check.Operator {
	case domain.OpExpression:
		if expr := c.Check.Expression; expr != "" {
			result, ok := resolve.EvalExpression(b, expr)
			if ok {
				passed = domain.AsBool(result)
				actual = result
			} else {
				passed = true
				actual = nil
			}
		} else {
			passed = true
		}
		return verdict(c, passed, valA, valB, actual, limit)

	case domain.OpUnsupported:
		return verdict(c, true, valA, valB, actual, limit)
	}

	// 3. Everything else needs both operands.
	if !okA || !okB {
		return skippedFields(c)
	}

	switch c.Check.Operator {
	case domain.OpLT, domain.OpLTE, domain.OpGT, domain.OpGTE:
		var ok bool
		passed, ok = compareBool(comparisonTag(c.Check.Operator), valA, valB)
		if !ok {
			return skippedFields(c)
		}

	case domain.OpEQ:
		passed = resolve.Equal(valA, valB)

	case domain.OpNEQ:
		passed = !resolve.Equal(valA, valB)

	case domain.OpIn:
		if list, isList := valB.([]any); isList {
			passed = containsValue(list, valA)
		} else {
			passed = resolve.Equal(valA, valB)
		}

	case domain.OpContains:
		if list, isList := valA.([]any); isList {
			passed = containsValue(list, valB)
		} else {
			passed = resolve.Equal(valA, valB)
		}

	case domain.OpMultiplyLTE:
		multiplier := c.Check.Multiplier
		if multiplier == 0 {
			multiplier = 1
		}
		fa, faOK := domain.AsFloat(valA)
		fb, fbOK := domain.AsFloat(valB)
		if !faOK || !fbOK {
			return skippedFields(c)
		}
		computed := fa * multiplier
		passed = computed <= fb
		actual = computed
		limit = valB

	case domain.OpRange:
		valBHigh, okHigh := resolve.ResolveField(b, c.Check.FieldBHigh)
		if okHigh {
			// Closed interval when the high bound resolves.
			aboveLo, ok1 := compareBool("<=", valB, valA)
			belowHi, ok2 := compareBool("<=", valA, valBHigh)
			if !ok1 || !ok2 {
				return skippedFields(c)
			}
			passed = aboveLo && belowHi
			limit = fmt.Sprintf("%s to %s", domain.FormatValue(valB), domain.FormatValue(valBHigh))
		} else {
			var ok bool
			passed, ok = compareBool(">=", valA, valB)
			if !ok {
				return skippedFields(c)
			}
		}
	}

	return verdict(c, passed, valA, valB, actual, limit)
}

func comparisonTag(op domain.Operator) string {
	switch op {
	case domain.OpLT:
		return "<"
	case domain.OpLTE:
		return "<="
	case domain.OpGT:
		return ">"
	case domain.OpGTE:
		return ">="
	}
	return ""
}

func compareBool(op string, l, r any) (bool, bool) {
	v, ok := resolve.Compare(op, l, r)
	if !ok {
		return false, false
	}
	return domain.AsBool(v), true
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if resolve.Equal(item, v) {
			return true
		}
	}
	return false
}

func skipped(c domain.Constraint, message string, details map[string]any) domain.ValidationResult {
	return domain.ValidationResult{
		ConstraintID:   c.ID,
		ConstraintName: c.Name,
		Severity:       c.Severity,
		Outcome:        domain.OutcomeSkipped,
		Message:        message,
		Details:        details,
	}
}

func skippedFields(c domain.Constraint) domain.ValidationResult {
	return skipped(c, "Skipped — could not resolve fields.", map[string]any{
		"field_a": c.Check.FieldA,
		"field_b": c.Check.FieldB,
	})
}

func verdict(c domain.Constraint, passed bool, valA, valB, actual, limit any) domain.ValidationResult {
	outcome := domain.OutcomeFailed
	if passed {
		outcome = domain.OutcomePassed
	}
	return domain.ValidationResult{
		ConstraintID:   c.ID,
		ConstraintName: c.Name,
		Severity:       c.Severity,
		Outcome:        outcome,
		Message:        renderMessage(c.MessageTemplate, valA, valB, actual, limit),
		Details:        map[string]any{"actual": actual, "limit": limit},
	}
}

func renderMessage(template string, valA, valB, actual, limit any) string {
	r := strings.NewReplacer(
		"{field_a}", placeholder(valA),
		"{field_b}", placeholder(valB),
		"{actual}", placeholder(actual),
		"{limit}", placeholder(limit),
	)
	return strings.TrimSpace(r.Replace(template))
}

func placeholder(v any) string {
	if v == nil {
		return "?"
	}
	return domain.FormatValue(v)
}
