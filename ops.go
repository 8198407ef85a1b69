package oxide

import "oxide-lang.dev/oxide/syntax"

// stringify renders v the way string interpolation and print family
// builtins do: each value type's own String(), with nil rendering as "nil".
func stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}

// equalValues implements the equality operator: scalars compare by value,
// aggregates (vectors, structs) compare by identity (same underlying
// handle), enum variants compare by variant index, and nil equals only
// nil. Cross-type equality (other than mixed int/float) is a runtime
// error, not a silent false, matching the equality-semantics rule.
func equalValues(a, b Value) (bool, error) {
	switch av := a.(type) {
	case Nil:
		if _, ok := b.(Nil); ok {
			return true, nil
		}
		return false, crossTypeErr(a, b)
	case Bool:
		if bv, ok := b.(Bool); ok {
			return av == bv, nil
		}
		return false, crossTypeErr(a, b)
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv, nil
		case Float:
			return Float(av) == bv, nil
		}
		return false, crossTypeErr(a, b)
	case Float:
		switch bv := b.(type) {
		case Float:
			return av == bv, nil
		case Int:
			return av == Float(bv), nil
		}
		return false, crossTypeErr(a, b)
	case String:
		if bv, ok := b.(String); ok {
			return av == bv, nil
		}
		return false, crossTypeErr(a, b)
	case *Vector:
		if bv, ok := b.(*Vector); ok {
			return av == bv, nil
		}
		return false, crossTypeErr(a, b)
	case *StructInstance:
		if bv, ok := b.(*StructInstance); ok {
			return av == bv, nil
		}
		return false, crossTypeErr(a, b)
	case *EnumVariant:
		if bv, ok := b.(*EnumVariant); ok {
			return av.EnumName == bv.EnumName && av.Index == bv.Index, nil
		}
		return false, crossTypeErr(a, b)
	case uninit:
		if _, ok := b.(uninit); ok {
			return true, nil
		}
		return false, crossTypeErr(a, b)
	}
	return false, crossTypeErr(a, b)
}

func crossTypeErr(a, b Value) error {
	return errf("cannot compare %s with %s", typeName(a), typeName(b))
}

// numAsFloat coerces an Int or Float value to float64, for mixed int/float
// arithmetic under the num union.
func numAsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}

// evalBinaryOp applies a non-comparison, non-equality, non-logical binary
// operator to already-evaluated operands.
func evalBinaryOp(op syntax.Token, x, y Value, pos syntax.Position) (Value, error) {
	if op == syntax.PLUS {
		if _, ok := x.(String); ok {
			return String(stringify(x) + stringify(y)), nil
		}
		if _, ok := y.(String); ok {
			return String(stringify(x) + stringify(y)), nil
		}
	}

	xi, xIsInt := x.(Int)
	yi, yIsInt := y.(Int)
	if xIsInt && yIsInt {
		switch op {
		case syntax.PLUS:
			return xi + yi, nil
		case syntax.MINUS:
			return xi - yi, nil
		case syntax.STAR:
			return xi * yi, nil
		case syntax.SLASH:
			if yi == 0 {
				return nil, errf("%s: division by zero", pos)
			}
			return xi / yi, nil
		case syntax.PERCENT:
			if yi == 0 {
				return nil, errf("%s: division by zero", pos)
			}
			return xi % yi, nil
		}
	}

	xf, xIsNum := numAsFloat(x)
	yf, yIsNum := numAsFloat(y)
	if xIsNum && yIsNum {
		switch op {
		case syntax.PLUS:
			return Float(xf + yf), nil
		case syntax.MINUS:
			return Float(xf - yf), nil
		case syntax.STAR:
			return Float(xf * yf), nil
		case syntax.SLASH:
			return Float(xf / yf), nil
		case syntax.PERCENT:
			return Float(float64mod(xf, yf)), nil
		}
	}

	return nil, errf("%s: invalid operands to %s: %s and %s", pos, op, typeName(x), typeName(y))
}

func float64mod(x, y float64) float64 {
	m := x - y*float64(int64(x/y))
	return m
}

// compareOp evaluates <, <=, >, >= over numeric operands.
func compareOp(op syntax.Token, x, y Value, pos syntax.Position) (Value, error) {
	xf, xok := numAsFloat(x)
	yf, yok := numAsFloat(y)
	if !xok || !yok {
		return nil, errf("%s: invalid operands to %s: %s and %s", pos, op, typeName(x), typeName(y))
	}
	switch op {
	case syntax.LT:
		return Bool(xf < yf), nil
	case syntax.LE:
		return Bool(xf <= yf), nil
	case syntax.GT:
		return Bool(xf > yf), nil
	case syntax.GE:
		return Bool(xf >= yf), nil
	}
	panic("unreachable")
}

func negate(x Value, pos syntax.Position) (Value, error) {
	switch v := x.(type) {
	case Int:
		return -v, nil
	case Float:
		return -v, nil
	}
	return nil, errf("%s: cannot negate %s", pos, typeName(x))
}

func not(x Value, pos syntax.Position) (Value, error) {
	b, ok := x.(Bool)
	if !ok {
		return nil, errf("%s: cannot apply ! to %s", pos, typeName(x))
	}
	return !b, nil
}
