package resolve

import (
	"strconv"
	"strings"

	"github.com/dronedoctor/dronedoctor/internal/domain"
)

// ResolveField resolves a rule operand path against a build.
//
// Supported forms:
//   - literal numbers      ("250", "2.0")
//   - boolean literals     ("true", "false")
//   - calc: expressions    ("calc:motor.max_current_a * 4")
//   - build aggregates     ("build.all_up_weight_g")
//   - component fields     ("motor.kv", "battery.cell_count")
//
// ok=false is the cannot-resolve sentinel, never an error: a missing
// component or undeclared field makes the rule skip, not fail.
func ResolveField(b *domain.Build, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}

	if i, err := strconv.ParseInt(path, 10, 64); err == nil {
		return int(i), true
	}
	if f, err := strconv.ParseFloat(path, 64); err == nil {
		return f, true
	}

	switch path {
	case "true":
		return true, true
	case "false":
		return false, true
	}

	if expr, ok := strings.CutPrefix(path, "calc:"); ok {
		return EvalExpression(b, expr)
	}

	slot, field, ok := strings.Cut(path, ".")
	if !ok {
		return nil, false
	}
	if slot == "build" {
		return resolveBuildField(b, field)
	}
	comp := b.GetComponent(slot)
	if comp == nil {
		return nil, false
	}
	v, ok := comp.Get(field)
	if !ok || v == nil {
		// null spec values resolve to nothing, same as absent ones
		return nil, false
	}
	return v, true
}

func resolveBuildField(b *domain.Build, field string) (any, bool) {
	switch field {
	case "all_up_weight_g":
		return b.AllUpWeightG(), true
	case "dry_weight_g":
		return b.DryWeightG(), true
	case "motor_count":
		return b.MotorCount(), true
	case "total_price_usd":
		return b.TotalPriceUSD(), true
	}
	return nil, false
}

// EvalExpression compiles and evaluates a calc expression against a
// build. Unresolvable on any parse error, unresolvable path, division
// by zero, or type mismatch.
func EvalExpression(b *domain.Build, expr string) (any, bool) {
	node, err := Compile(expr)
	if err != nil {
		return nil, false
	}
	return Eval(node, func(path string) (any, bool) {
		return ResolveField(b, path)
	})
}
