package resolve

import "github.com/dronedoctor/dronedoctor/internal/domain"

// LookupFunc resolves a field path to a value. ok=false means the path
// cannot be resolved.
type LookupFunc func(path string) (any, bool)

// Eval evaluates a compiled expression tree. Every path reference is
// resolved up front; if any one is unresolvable the whole expression is
// unresolvable, so a rule never evaluates against partial data.
func Eval(n Node, lookup LookupFunc) (any, bool) {
	bindings := map[string]any{}
	if !bindPaths(n, lookup, bindings) {
		return nil, false
	}
	return eval(n, bindings)
}

func bindPaths(n Node, lookup LookupFunc, out map[string]any) bool {
	switch t := n.(type) {
	case *PathRef:
		if _, done := out[t.Path]; done {
			return true
		}
		v, ok := lookup(t.Path)
		if !ok {
			return false
		}
		out[t.Path] = v
	case *UnaryOp:
		return bindPaths(t.Operand, lookup, out)
	case *BinaryOp:
		return bindPaths(t.Left, lookup, out) && bindPaths(t.Right, lookup, out)
	}
	return true
}

func eval(n Node, bindings map[string]any) (any, bool) {
	switch t := n.(type) {
	case *NumberLit:
		return t.Value, true
	case *BoolLit:
		return t.Value, true
	case *PathRef:
		v, ok := bindings[t.Path]
		return v, ok
	case *UnaryOp:
		return evalUnary(t, bindings)
	case *BinaryOp:
		return evalBinary(t, bindings)
	}
	return nil, false
}

func evalUnary(t *UnaryOp, bindings map[string]any) (any, bool) {
	v, ok := eval(t.Operand, bindings)
	if !ok {
		return nil, false
	}
	switch t.Op {
	case "not":
		return !domain.AsBool(v), true
	case "-":
		f, ok := numeric(v)
		if !ok {
			return nil, false
		}
		return -f, true
	}
	return nil, false
}

func evalBinary(t *BinaryOp, bindings map[string]any) (any, bool) {
	// and/or short-circuit and pass the deciding operand through,
	// so `x and y` keeps its usual truthiness.
	switch t.Op {
	case "and":
		left, ok := eval(t.Left, bindings)
		if !ok {
			return nil, false
		}
		if !domain.AsBool(left) {
			return left, true
		}
		return eval(t.Right, bindings)
	case "or":
		left, ok := eval(t.Left, bindings)
		if !ok {
			return nil, false
		}
		if domain.AsBool(left) {
			return left, true
		}
		return eval(t.Right, bindings)
	}

	left, ok := eval(t.Left, bindings)
	if !ok {
		return nil, false
	}
	right, ok := eval(t.Right, bindings)
	if !ok {
		return nil, false
	}

	switch t.Op {
	case "+", "-", "*", "/":
		return arith(t.Op, left, right)
	case "<", "<=", ">", ">=", "==", "!=":
		return Compare(t.Op, left, right)
	}
	return nil, false
}

func arith(op string, l, r any) (any, bool) {
	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+":
		return lf + rf, true
	case "-":
		return lf - rf, true
	case "*":
		return lf * rf, true
	case "/":
		if rf == 0 {
			return nil, false
		}
		return lf / rf, true
	}
	return nil, false
}

// Compare applies a comparison operator to two resolved values.
// Numbers compare numerically, strings lexicographically. Ordering
// values of incomparable types is unresolvable; equality between them
// is simply false.
func Compare(op string, l, r any) (any, bool) {
	if lf, lok := numeric(l); lok {
		if rf, rok := numeric(r); rok {
			switch op {
			case "<":
				return lf < rf, true
			case "<=":
				return lf <= rf, true
			case ">":
				return lf > rf, true
			case ">=":
				return lf >= rf, true
			case "==":
				return lf == rf, true
			case "!=":
				return lf != rf, true
			}
			return nil, false
		}
	}
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch op {
		case "<":
			return ls < rs, true
		case "<=":
			return ls <= rs, true
		case ">":
			return ls > rs, true
		case ">=":
			return ls >= rs, true
		case "==":
			return ls == rs, true
		case "!=":
			return ls != rs, true
		}
		return nil, false
	}
	switch op {
	case "==":
		return Equal(l, r), true
	case "!=":
		return !Equal(l, r), true
	}
	return nil, false
}

// Equal reports scalar equality with numeric coercion: 2 equals 2.0,
// values of incomparable types are unequal.
func Equal(l, r any) bool {
	if lf, lok := numeric(l); lok {
		if rf, rok := numeric(r); rok {
			return lf == rf
		}
		return false
	}
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		return ok && ls == rs
	}
	return false
}

// numeric widens ints and bools to float64 for arithmetic and
// comparison, matching how rule authors expect 4 and 4.0 to behave.
func numeric(v any) (float64, bool) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return domain.AsFloat(v)
}
