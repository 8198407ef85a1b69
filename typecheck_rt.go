package oxide

import "oxide-lang.dev/oxide/syntax"

// valueMatchesType implements the runtime half of the function-invocation
// contract: any accepts anything, num accepts int or float, fn accepts any
// callable, a bare vec accepts any vector, and a named user type matches
// nominally by the value's own Type() name. selfType is the concrete
// struct name Self resolves to in this call (empty outside a struct's own
// impl).
func valueMatchesType(v Value, te syntax.TypeExpr, selfType string) bool {
	switch t := te.(type) {
	case *syntax.NamedType:
		switch t.Name {
		case "any":
			return true
		case "nil":
			_, ok := v.(Nil)
			return ok
		case "bool":
			_, ok := v.(Bool)
			return ok
		case "int":
			_, ok := v.(Int)
			return ok
		case "float":
			_, ok := v.(Float)
			return ok
		case "str":
			_, ok := v.(String)
			return ok
		case "num":
			_, isInt := v.(Int)
			_, isFloat := v.(Float)
			return isInt || isFloat
		case "fn":
			_, ok := v.(Callable)
			return ok
		case "Self":
			return selfType != "" && typeName(v) == selfType
		default:
			return typeName(v) == t.Name
		}
	case *syntax.VecType:
		_, ok := v.(*Vector)
		return ok
	}
	return true
}

// typeExprString renders a type annotation for error messages.
func typeExprString(te syntax.TypeExpr) string {
	switch t := te.(type) {
	case *syntax.NamedType:
		return t.Name
	case *syntax.VecType:
		if t.Elem == nil {
			return "vec"
		}
		return "vec<" + typeExprString(t.Elem) + ">"
	}
	return "?"
}
