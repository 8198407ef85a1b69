package oxide

import (
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

// Function is a user-defined closure: a function or lambda declaration
// paired with the environment in force where it was evaluated. Top-level
// functions close over the shared global environment, so they observe
// later top-level declarations as long as those exist by call time.
type Function struct {
	Decl    *syntax.FuncDecl
	Env     *Environment
	name    string // for lambdas, a synthetic name used only in backtraces
	program *resolve.Program
	// selfType is the struct Self resolves to when Decl is a struct's own
	// static method (obtained via T::method); empty for ordinary functions
	// and lambdas, which have no Self.
	selfType string
}

// NewFunction wraps decl as a first-class value closing over env.
func NewFunction(decl *syntax.FuncDecl, env *Environment, prog *resolve.Program) *Function {
	name := "<lambda>"
	if decl.Name != nil {
		name = decl.Name.Name
	}
	return &Function{Decl: decl, Env: env, name: name, program: prog}
}

// NewStaticMethod wraps decl, a struct's static (non-instance) method,
// resolving Self to selfType for runtime parameter/return checks.
func NewStaticMethod(decl *syntax.FuncDecl, env *Environment, prog *resolve.Program, selfType string) *Function {
	f := NewFunction(decl, env, prog)
	f.selfType = selfType
	return f
}

func (f *Function) String() string { return "<fn>" }
func (*Function) Type() string     { return "fn" }
func (*Function) oxideValue()      {}

// CallOxide invokes the closure with args already evaluated, per the
// function-invocation contract: bind parameters into a fresh environment
// chained on the closure's captured environment, execute the body, and
// return the value of its return statement or nil if it falls off the end.
func (f *Function) CallOxide(t *Thread, args []Value) (Value, error) {
	return callDecl(t, f.Decl, f.Env, f.program, args, f.name, f.selfType)
}

// BoundMethod is a first-class reference to an instance method obtained via
// plain field access (e.g. `let m = p.greet;`), distinct from an immediate
// call `p.greet()`. Binding self ahead of time keeps call evaluation
// uniform: any Callable is invoked the same way regardless of how it was
// obtained.
type BoundMethod struct {
	Self    Value
	Decl    *syntax.FuncDecl
	Env     *Environment
	program *resolve.Program
}

func (m *BoundMethod) String() string { return "<fn>" }
func (*BoundMethod) Type() string     { return "fn" }
func (*BoundMethod) oxideValue()      {}

// CallOxide invokes the method with self prepended to args.
func (m *BoundMethod) CallOxide(t *Thread, args []Value) (Value, error) {
	all := make([]Value, 0, len(args)+1)
	all = append(all, m.Self)
	all = append(all, args...)
	return callDecl(t, m.Decl, m.Env, m.program, all, m.Decl.Name.Name, typeName(m.Self))
}

// BuiltinFunc is the Go implementation of a host builtin.
type BuiltinFunc func(t *Thread, args []Value) (Value, error)

// Builtin is a host-provided callable such as print or timestamp.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// NewBuiltin wraps fn as a callable named name.
func NewBuiltin(name string, fn BuiltinFunc) *Builtin { return &Builtin{Name: name, Fn: fn} }

func (b *Builtin) String() string { return "<fn>" }
func (*Builtin) Type() string     { return "fn" }
func (*Builtin) oxideValue()      {}

// CallOxide invokes the wrapped Go function.
func (b *Builtin) CallOxide(t *Thread, args []Value) (Value, error) {
	return b.Fn(t, args)
}

// callDecl runs the shared body of Function/BoundMethod invocation, per the
// function-invocation contract: check arity, check each argument's runtime
// type against its declared parameter type, bind parameters, execute the
// body, and check the result's runtime type against the declared return
// type before yielding it. decl.Params never includes the implicit self of
// an instance method (the parser strips it), so when decl.IsMethod, args is
// expected to carry the receiver as its first element ahead of the declared
// parameters, and self is bound into callEnv alongside them.
func callDecl(t *Thread, decl *syntax.FuncDecl, closure *Environment, prog *resolve.Program, args []Value, name, selfType string) (Value, error) {
	want := len(decl.Params)
	if decl.IsMethod {
		want++
	}
	if len(args) != want {
		return nil, errf("%s expects %d argument(s), got %d", name, want, len(args))
	}
	fr := t.pushFrame(decl.FnPos, name)
	defer t.popFrame()

	callEnv := NewEnvironment(closure)
	rest := args
	if decl.IsMethod {
		callEnv.Define("self", &Cell{Value: args[0], assigned: true})
		rest = args[1:]
	}
	for i, p := range decl.Params {
		if p.Type != nil {
			if !valueMatchesType(rest[i], p.Type, selfType) {
				return nil, fr.errorf(p.NamePos, "argument %q: expected %s, got %s", p.Name.Name, typeExprString(p.Type), typeName(rest[i]))
			}
		}
		callEnv.Define(p.Name.Name, &Cell{Mut: p.Mut, Value: rest[i], assigned: true})
	}

	sig, val, err := execBlock(t, fr, decl.Body, callEnv, prog)
	if err != nil {
		return nil, err
	}
	result := Value(None)
	if sig == sigReturn {
		result = val
	}
	if decl.RetType != nil && !valueMatchesType(result, decl.RetType, selfType) {
		return nil, fr.errorf(decl.EndPos, "%s: return value %s does not match declared return type %s", name, typeName(result), typeExprString(decl.RetType))
	}
	return result, nil
}
