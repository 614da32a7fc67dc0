package filter

// Match evaluates e against a metadata map. A nil e or None matches everything.
// Ordering operators compare numbers only; $ne and $nin match a missing field.
func Match(e Expression, md map[string]Value) bool {
	switch x := e.(type) {
	case nil, Empty:
		return true
	case Binary:
		v, ok := md[x.key]
		if !ok {
			return x.op == OpNe
		}
		return matchBinary(x.op, v, x.value)
	case Array:
		v, ok := md[x.key]
		found := ok && contains(x.values, v)
		if x.op == OpNin {
			return !found
		}
		return found
	case Combination:
		if x.op == OpOr {
			for _, c := range x.children {
				if Match(c, md) {
					return true
				}
			}
			return false
		}
		for _, c := range x.children {
			if !Match(c, md) {
				return false
			}
		}
		return len(x.children) > 0
	default:
		return false
	}
}

func matchBinary(op BinaryOp, got, want Value) bool {
	switch op {
	case OpEq:
		return equal(got, want)
	case OpNe:
		return !equal(got, want)
	}

	a, ok1 := got.number()
	b, ok2 := want.number()
	if !ok1 || !ok2 {
		return false
	}
	switch op {
	case OpGt:
		return a > b
	case OpGte:
		return a >= b
	case OpLt:
		return a < b
	case OpLte:
		return a <= b
	default:
		return false
	}
}

// equal compares values; ints and floats compare numerically.
func equal(a, b Value) bool {
	if x, ok := a.number(); ok {
		y, ok := b.number()
		return ok && x == y
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	default:
		return false
	}
}

func contains(values []Value, v Value) bool {
	for _, c := range values {
		if equal(c, v) {
			return true
		}
	}
	return false
}
