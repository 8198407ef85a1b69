package oxide

import (
	"fmt"

	"oxide-lang.dev/oxide/internal/spell"
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

// signal is the out-of-band control-flow result of executing a statement:
// plain sequential fall-through, or an in-flight return/break/continue that
// must propagate up to the nearest construct that handles it.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// Interp holds the state shared across the whole evaluation of one program:
// its resolved declarations and the single global environment that every
// top-level statement, and every closure created from it, shares.
type Interp struct {
	Prog   *resolve.Program
	Global *Environment
}

// NewInterp creates an interpreter for prog with a fresh global environment
// seeded with the host builtins in universe.
func NewInterp(prog *resolve.Program, universe map[string]Value) *Interp {
	global := NewEnvironment(nil)
	for name, v := range universe {
		global.Define(name, &Cell{Type: resolve.Fn, Mut: false, Value: v, assigned: true})
	}
	return &Interp{Prog: prog, Global: global}
}

// structConstsKey is the Thread-local key under which the evaluated
// associated constants of every struct are stored, keyed by struct name
// then constant name. It lives on the Thread, not on any one Interp value,
// because a function or method body executes through a fresh throwaway
// Interp (see execBlock) that must still see constants computed earlier in
// the same run.
const structConstsKey = "oxide.structConsts"

func structConstsOf(t *Thread) map[string]map[string]Value {
	if m, ok := t.Local(structConstsKey).(map[string]map[string]Value); ok {
		return m
	}
	m := map[string]map[string]Value{}
	t.SetLocal(structConstsKey, m)
	return m
}

// ExecFile executes every top-level declaration of the program's file in
// source order: constants and bare statements run immediately and extend
// the global environment; struct/enum/impl/func declarations install their
// static shape (already recorded in Prog) and, for impls, evaluate their
// associated constants once, eagerly, the first time the struct is reached.
func (in *Interp) ExecFile(t *Thread) error {
	return in.ExecDecls(t, in.Prog.File.Decls)
}

// ExecDecls runs decls, a slice of the program's own File.Decls (or, for
// the REPL, exactly the declarations newly parsed from one input line),
// against the interpreter's global environment. Splitting this out from
// ExecFile lets the REPL re-resolve its whole accumulated session on every
// line while executing only the newly added suffix, so earlier lines'
// side effects are not repeated.
func (in *Interp) ExecDecls(t *Thread, decls []syntax.Decl) error {
	fr := t.pushFrame(syntax.Position{}, "<toplevel>")
	defer t.popFrame()

	for _, decl := range decls {
		switch d := decl.(type) {
		case *syntax.ConstDecl:
			v, err := in.evalExpr(t, fr, d.Value, in.Global)
			if err != nil {
				return err
			}
			in.Global.Define(d.Name.Name, &Cell{Value: v, assigned: true})
		case *syntax.StmtDecl:
			sig, _, err := in.execStmt(t, fr, d.Stmt, in.Global)
			if err != nil {
				return err
			}
			if sig != sigNone {
				return fr.errorf(syntax.Start(d.Stmt), "break/continue/return not allowed at top level")
			}
		case *syntax.StructDecl:
			if si := in.Prog.Structs[d.Name.Name]; si != nil && si.Impl != nil {
				if err := in.execImplConsts(t, fr, si); err != nil {
					return err
				}
			}
		case *syntax.EnumDecl, *syntax.FuncDecl, *syntax.ImplDecl:
			// No runtime action: functions dispatch by name through Prog at
			// call time, enums are pure metadata, and an impl's methods need
			// no eager work (its consts, if any, run via the StructDecl case
			// above).
		}
	}
	return nil
}

// EvalExpr evaluates a single expression against the interpreter's global
// environment, for the REPL's bare-expression input form.
func (in *Interp) EvalExpr(t *Thread, x syntax.Expr) (Value, error) {
	fr := t.pushFrame(syntax.Position{}, "<toplevel>")
	defer t.popFrame()
	return in.evalExpr(t, fr, x, in.Global)
}

// execImplConsts evaluates a struct's associated constants once, in
// declaration order, in an environment chained on the global environment.
func (in *Interp) execImplConsts(t *Thread, fr *Frame, si *resolve.StructInfo) error {
	all := structConstsOf(t)
	if _, done := all[si.Decl.Name.Name]; done {
		return nil
	}
	consts := map[string]Value{}
	all[si.Decl.Name.Name] = consts
	env := NewEnvironment(in.Global)
	for _, c := range si.Impl.Consts {
		v, err := in.evalExpr(t, fr, c.Value, env)
		if err != nil {
			return err
		}
		consts[c.Name.Name] = v
		env.Define(c.Name.Name, &Cell{Value: v, assigned: true})
	}
	return nil
}

// execBlock runs a block's statements in a fresh child environment. It is a
// package-level function (not an Interp method) so *Function/*BoundMethod
// call bodies, which do not carry an *Interp reference, can share it; the
// resolve.Program passed alongside supplies the declarations needed to
// dispatch nested calls.
func execBlock(t *Thread, fr *Frame, block *syntax.BlockStmt, env *Environment, prog *resolve.Program) (signal, Value, error) {
	in := &Interp{Prog: prog, Global: rootEnv(env)}
	return in.execBlockIn(t, fr, block, env)
}

// rootEnv walks to the outermost environment in env's chain: the shared
// global environment every closure ultimately bottoms out on.
func rootEnv(env *Environment) *Environment {
	for env.parent != nil {
		env = env.parent
	}
	return env
}

func (in *Interp) execBlockIn(t *Thread, fr *Frame, block *syntax.BlockStmt, env *Environment) (signal, Value, error) {
	child := NewEnvironment(env)
	for _, stmt := range block.Stmts {
		sig, val, err := in.execStmt(t, fr, stmt, child)
		if err != nil || sig != sigNone {
			return sig, val, err
		}
	}
	return sigNone, nil, nil
}

func (in *Interp) execStmt(t *Thread, fr *Frame, stmt syntax.Stmt, env *Environment) (signal, Value, error) {
	switch s := stmt.(type) {
	case *syntax.BlockStmt:
		return in.execBlockIn(t, fr, s, env)

	case *syntax.ExprStmt:
		_, err := in.evalExpr(t, fr, s.X, env)
		return sigNone, nil, err

	case *syntax.LetStmt:
		var v Value = None
		if s.Value != nil {
			var err error
			v, err = in.evalExpr(t, fr, s.Value, env)
			if err != nil {
				return sigNone, nil, err
			}
		}
		env.Define(s.Name.Name, &Cell{Mut: s.Mut, Value: v, assigned: s.Value != nil})
		return sigNone, nil, nil

	case *syntax.ConstStmt:
		v, err := in.evalExpr(t, fr, s.Decl.Value, env)
		if err != nil {
			return sigNone, nil, err
		}
		env.Define(s.Decl.Name.Name, &Cell{Value: v, assigned: true})
		return sigNone, nil, nil

	case *syntax.ReturnStmt:
		if s.Value == nil {
			return sigReturn, None, nil
		}
		v, err := in.evalExpr(t, fr, s.Value, env)
		if err != nil {
			return sigNone, nil, err
		}
		return sigReturn, v, nil

	case *syntax.BreakStmt:
		return sigBreak, nil, nil

	case *syntax.ContinueStmt:
		return sigContinue, nil, nil

	case *syntax.IfStmt:
		return in.execIf(t, fr, s, env)

	case *syntax.WhileStmt:
		for {
			cond, err := in.evalExpr(t, fr, s.Cond, env)
			if err != nil {
				return sigNone, nil, err
			}
			b, ok := cond.(Bool)
			if !ok {
				return sigNone, nil, fr.errorf(syntax.Start(s.Cond), "while condition is not a bool")
			}
			if !bool(b) {
				return sigNone, nil, nil
			}
			sig, val, err := in.execBlockIn(t, fr, s.Body, env)
			if err != nil {
				return sigNone, nil, err
			}
			if sig == sigBreak {
				return sigNone, nil, nil
			}
			if sig == sigReturn {
				return sig, val, nil
			}
		}

	case *syntax.LoopStmt:
		for {
			sig, val, err := in.execBlockIn(t, fr, s.Body, env)
			if err != nil {
				return sigNone, nil, err
			}
			if sig == sigBreak {
				return sigNone, nil, nil
			}
			if sig == sigReturn {
				return sig, val, nil
			}
		}

	case *syntax.ForStmt:
		return in.execFor(t, fr, s, env)

	case *syntax.FuncDeclStmt:
		// A nested function is bound by name in the enclosing block's
		// environment and closes over it, the same way a lambda does.
		env.Define(s.Decl.Name.Name, &Cell{Value: NewFunction(s.Decl, env, in.Prog), assigned: true})
		return sigNone, nil, nil

	case *syntax.StructDeclStmt, *syntax.EnumDeclStmt, *syntax.ImplDeclStmt:
		// Pure declarations: their static shape was recorded by the
		// resolver into Prog up front, so there is nothing further to
		// execute here.
		return sigNone, nil, nil
	}
	return sigNone, nil, fr.errorf(syntax.Start(stmt), "internal error: unhandled statement %T", stmt)
}

func (in *Interp) execIf(t *Thread, fr *Frame, s *syntax.IfStmt, env *Environment) (signal, Value, error) {
	cond, err := in.evalExpr(t, fr, s.Cond, env)
	if err != nil {
		return sigNone, nil, err
	}
	b, ok := cond.(Bool)
	if !ok {
		return sigNone, nil, fr.errorf(syntax.Start(s.Cond), "if condition is not a bool")
	}
	if bool(b) {
		return in.execBlockIn(t, fr, s.Then, env)
	}
	switch e := s.Else.(type) {
	case nil:
		return sigNone, nil, nil
	case *syntax.IfStmt:
		return in.execIf(t, fr, e, env)
	case *syntax.BlockStmt:
		return in.execBlockIn(t, fr, e, env)
	}
	return sigNone, nil, nil
}

func (in *Interp) execFor(t *Thread, fr *Frame, s *syntax.ForStmt, env *Environment) (signal, Value, error) {
	forEnv := NewEnvironment(env)
	if s.Init != nil {
		if _, _, err := in.execStmt(t, fr, s.Init, forEnv); err != nil {
			return sigNone, nil, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := in.evalExpr(t, fr, s.Cond, forEnv)
			if err != nil {
				return sigNone, nil, err
			}
			b, ok := cond.(Bool)
			if !ok {
				return sigNone, nil, fr.errorf(syntax.Start(s.Cond), "for condition is not a bool")
			}
			if !bool(b) {
				return sigNone, nil, nil
			}
		}
		sig, val, err := in.execBlockIn(t, fr, s.Body, forEnv)
		if err != nil {
			return sigNone, nil, err
		}
		if sig == sigBreak {
			return sigNone, nil, nil
		}
		if sig == sigReturn {
			return sig, val, nil
		}
		if s.Step != nil {
			if _, _, err := in.execStmt(t, fr, s.Step, forEnv); err != nil {
				return sigNone, nil, err
			}
		}
	}
}

// evalExpr evaluates x, updating fr's reported position as it descends so
// an error deep inside an expression names its own position, not the
// enclosing call's.
func (in *Interp) evalExpr(t *Thread, fr *Frame, x syntax.Expr, env *Environment) (Value, error) {
	fr.SetPosition(syntax.Start(x))
	switch e := x.(type) {
	case *syntax.Ident:
		return in.evalIdent(t, fr, e, env)

	case *syntax.IntLit:
		return Int(e.Value), nil
	case *syntax.FloatLit:
		return Float(e.Value), nil
	case *syntax.StringLit:
		return String(e.Value), nil
	case *syntax.BoolLit:
		return Bool(e.Value), nil
	case *syntax.NilLit:
		return None, nil

	case *syntax.GroupExpr:
		return in.evalExpr(t, fr, e.X, env)

	case *syntax.UnaryExpr:
		v, err := in.evalExpr(t, fr, e.X, env)
		if err != nil {
			return nil, err
		}
		var r Value
		switch e.Op {
		case syntax.MINUS:
			r, err = negate(v, e.OpPos)
		case syntax.NOT:
			r, err = not(v, e.OpPos)
		default:
			return nil, fr.errorf(e.OpPos, "internal error: unhandled unary operator %s", e.Op)
		}
		if err != nil {
			return nil, fr.errorf(e.OpPos, "%s", err)
		}
		return r, nil

	case *syntax.BinaryExpr:
		return in.evalBinary(t, fr, e, env)

	case *syntax.AssignExpr:
		return in.evalAssign(t, fr, e, env)

	case *syntax.CallExpr:
		return in.evalCall(t, fr, e, env)

	case *syntax.IndexExpr:
		return in.evalIndex(t, fr, e, env)

	case *syntax.FieldExpr:
		return in.evalField(t, fr, e, env)

	case *syntax.PathExpr:
		return in.evalPath(t, fr, e, env)

	case *syntax.StructLit:
		return in.evalStructLit(t, fr, e, env)

	case *syntax.VecLit:
		return in.evalVecLit(t, fr, e, env)

	case *syntax.LambdaExpr:
		decl := &syntax.FuncDecl{FnPos: e.FnPos, Params: e.Params, RetType: e.RetType, Body: e.Body, EndPos: syntax.End(e.Body)}
		return NewFunction(decl, env, in.Prog), nil

	case *syntax.MatchExpr:
		return in.evalMatch(t, fr, e, env)
	}
	return nil, fr.errorf(syntax.Start(x), "internal error: unhandled expression %T", x)
}

func (in *Interp) evalIdent(t *Thread, fr *Frame, e *syntax.Ident, env *Environment) (Value, error) {
	if c, ok := env.Lookup(e.Name); ok {
		return c.Value, nil
	}
	if decl, ok := in.Prog.Funcs[e.Name]; ok {
		return NewFunction(decl, in.Global, in.Prog), nil
	}
	return nil, fr.errorf(e.NamePos, "undefined identifier %q%s", e.Name, suggestion(e.Name, env))
}

func suggestion(name string, env *Environment) string {
	var candidates []string
	for e := env; e != nil; e = e.parent {
		for n := range e.vars {
			candidates = append(candidates, n)
		}
	}
	if best := spell.Nearest(name, candidates); best != "" {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

func (in *Interp) evalBinary(t *Thread, fr *Frame, e *syntax.BinaryExpr, env *Environment) (Value, error) {
	// && and || short-circuit and so must not evaluate Y eagerly.
	if e.Op == syntax.AND || e.Op == syntax.OR {
		x, err := in.evalExpr(t, fr, e.X, env)
		if err != nil {
			return nil, err
		}
		xb, ok := x.(Bool)
		if !ok {
			return nil, fr.errorf(e.OpPos, "left operand of %s is not a bool", e.Op)
		}
		if e.Op == syntax.AND && !bool(xb) {
			return Bool(false), nil
		}
		if e.Op == syntax.OR && bool(xb) {
			return Bool(true), nil
		}
		y, err := in.evalExpr(t, fr, e.Y, env)
		if err != nil {
			return nil, err
		}
		yb, ok := y.(Bool)
		if !ok {
			return nil, fr.errorf(e.OpPos, "right operand of %s is not a bool", e.Op)
		}
		return yb, nil
	}

	x, err := in.evalExpr(t, fr, e.X, env)
	if err != nil {
		return nil, err
	}
	y, err := in.evalExpr(t, fr, e.Y, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case syntax.EQ, syntax.NE:
		eq, err := equalValues(x, y)
		if err != nil {
			return nil, fr.errorf(e.OpPos, "%s", err)
		}
		if e.Op == syntax.NE {
			eq = !eq
		}
		return Bool(eq), nil
	case syntax.LT, syntax.LE, syntax.GT, syntax.GE:
		v, err := compareOp(e.Op, x, y, e.OpPos)
		if err != nil {
			return nil, fr.errorf(e.OpPos, "%s", err)
		}
		return v, nil
	default:
		v, err := evalBinaryOp(e.Op, x, y, e.OpPos)
		if err != nil {
			return nil, fr.errorf(e.OpPos, "%s", err)
		}
		return v, nil
	}
}

func (in *Interp) evalAssign(t *Thread, fr *Frame, e *syntax.AssignExpr, env *Environment) (Value, error) {
	rhs, err := in.evalExpr(t, fr, e.RHS, env)
	if err != nil {
		return nil, err
	}

	compound := e.Op != syntax.ASSIGN
	apply := func(cur Value) (Value, error) {
		if !compound {
			return rhs, nil
		}
		op := compoundOp(e.Op)
		return evalBinaryOp(op, cur, rhs, e.OpPos)
	}

	switch lhs := e.LHS.(type) {
	case *syntax.Ident:
		if compound {
			c, ok := env.Lookup(lhs.Name)
			if !ok {
				return nil, fr.errorf(lhs.NamePos, "undefined identifier %q", lhs.Name)
			}
			v, err := apply(c.Value)
			if err != nil {
				return nil, fr.errorf(e.OpPos, "%s", err)
			}
			rhs = v
		}
		if err := env.Assign(lhs.Name, rhs); err != nil {
			return nil, fr.errorf(lhs.NamePos, "%s", err)
		}
		return rhs, nil

	case *syntax.FieldExpr:
		recv, err := in.evalExpr(t, fr, lhs.X, env)
		if err != nil {
			return nil, err
		}
		si, ok := recv.(*StructInstance)
		if !ok {
			return nil, fr.errorf(lhs.Dot, "cannot assign field on %s", typeName(recv))
		}
		if compound {
			cur, ok := si.Get(lhs.Name.Name)
			if !ok {
				return nil, fr.errorf(lhs.Name.NamePos, "%s has no field %q", si.TypeName, lhs.Name.Name)
			}
			v, err := apply(cur)
			if err != nil {
				return nil, fr.errorf(e.OpPos, "%s", err)
			}
			rhs = v
		}
		si.Set(lhs.Name.Name, rhs)
		return rhs, nil

	case *syntax.IndexExpr:
		recv, err := in.evalExpr(t, fr, lhs.X, env)
		if err != nil {
			return nil, err
		}
		v, ok := recv.(*Vector)
		if !ok {
			return nil, fr.errorf(lhs.Lbrack, "cannot index into %s", typeName(recv))
		}
		idxVal, err := in.evalExpr(t, fr, lhs.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := idxVal.(Int)
		if !ok {
			return nil, fr.errorf(lhs.Lbrack, "vector index must be an int, got %s", typeName(idxVal))
		}
		if compound {
			cur := v.Index(int64(idx))
			nv, err := apply(cur)
			if err != nil {
				return nil, fr.errorf(e.OpPos, "%s", err)
			}
			rhs = nv
		}
		if err := v.SetIndex(int64(idx), rhs); err != nil {
			return nil, fr.errorf(lhs.Lbrack, "%s", err)
		}
		return rhs, nil
	}
	return nil, fr.errorf(syntax.Start(e.LHS), "internal error: invalid assignment target %T", e.LHS)
}

func compoundOp(op syntax.Token) syntax.Token {
	switch op {
	case syntax.PLUS_EQ:
		return syntax.PLUS
	case syntax.MINUS_EQ:
		return syntax.MINUS
	case syntax.STAR_EQ:
		return syntax.STAR
	case syntax.SLASH_EQ:
		return syntax.SLASH
	case syntax.PERCENT_EQ:
		return syntax.PERCENT
	}
	return op
}

func (in *Interp) evalCall(t *Thread, fr *Frame, e *syntax.CallExpr, env *Environment) (Value, error) {
	// A method call `recv.name(args)` dispatches without ever materializing
	// a plain field read of `name`, so an unbound method used only as a
	// call target need not support a first-class BoundMethod path.
	if fe, ok := e.Fn.(*syntax.FieldExpr); ok {
		return in.evalMethodCall(t, fr, fe, e, env)
	}

	callee, err := in.evalExpr(t, fr, e.Fn, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalArgs(t, fr, e.Args, env)
	if err != nil {
		return nil, err
	}
	c, ok := callee.(Callable)
	if !ok {
		return nil, fr.errorf(e.Lparen, "%s is not callable", typeName(callee))
	}
	v, err := c.CallOxide(t, args)
	if err != nil {
		if _, ok := err.(*EvalError); ok {
			return nil, err
		}
		return nil, fr.errorf(e.Lparen, "%s", err)
	}
	return v, nil
}

func (in *Interp) evalArgs(t *Thread, fr *Frame, exprs []syntax.Expr, env *Environment) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, a := range exprs {
		v, err := in.evalExpr(t, fr, a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// evalMethodCall handles `recv.name(args)`, including the three built-in
// vector operations push/pop/len, which are not user-declared methods.
func (in *Interp) evalMethodCall(t *Thread, fr *Frame, fe *syntax.FieldExpr, call *syntax.CallExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(t, fr, fe.X, env)
	if err != nil {
		return nil, err
	}

	if v, ok := recv.(*Vector); ok {
		switch fe.Name.Name {
		case "len":
			return Int(v.Len()), nil
		case "push":
			args, err := in.evalArgs(t, fr, call.Args, env)
			if err != nil {
				return nil, err
			}
			if len(args) != 1 {
				return nil, fr.errorf(call.Lparen, "push expects 1 argument, got %d", len(args))
			}
			v.Push(args[0])
			return None, nil
		case "pop":
			r, err := v.Pop()
			if err != nil {
				return nil, fr.errorf(fe.Dot, "%s", err)
			}
			return r, nil
		}
	}

	si, ok := recv.(*StructInstance)
	if !ok {
		// Fields/methods on non-struct, non-vector receivers only arise
		// through an any-typed value; give a plain type error.
		return nil, fr.errorf(fe.Dot, "%s has no method %q", typeName(recv), fe.Name.Name)
	}
	// A field holding a callable value (e.g. a stored lambda) takes
	// priority over a same-named method, since `.` never distinguishes
	// the two syntactically.
	if fv, ok := si.Get(fe.Name.Name); ok {
		if c, ok := fv.(Callable); ok {
			args, err := in.evalArgs(t, fr, call.Args, env)
			if err != nil {
				return nil, err
			}
			return c.CallOxide(t, args)
		}
	}
	info, ok := in.Prog.Structs[si.TypeName]
	if !ok || info.Impl == nil {
		return nil, fr.errorf(fe.Dot, "%s has no method %q", si.TypeName, fe.Name.Name)
	}
	decl, ok := info.Method(fe.Name.Name)
	if !ok {
		return nil, fr.errorf(fe.Dot, "%s has no method %q%s", si.TypeName, fe.Name.Name, suggestField(info, fe.Name.Name))
	}
	args, err := in.evalArgs(t, fr, call.Args, env)
	if err != nil {
		return nil, err
	}
	all := args
	if decl.IsMethod {
		all = append([]Value{recv}, args...)
	}
	return callDecl(t, decl, in.Global, in.Prog, all, decl.Name.Name, si.TypeName)
}

func suggestField(si *resolve.StructInfo, name string) string {
	var candidates []string
	for f := range si.Fields {
		candidates = append(candidates, f)
	}
	for m := range si.Members {
		candidates = append(candidates, m)
	}
	if best := spell.Nearest(name, candidates); best != "" {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

func (in *Interp) evalIndex(t *Thread, fr *Frame, e *syntax.IndexExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(t, fr, e.X, env)
	if err != nil {
		return nil, err
	}
	v, ok := recv.(*Vector)
	if !ok {
		return nil, fr.errorf(e.Lbrack, "cannot index into %s", typeName(recv))
	}
	idxVal, err := in.evalExpr(t, fr, e.Index, env)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(Int)
	if !ok {
		return nil, fr.errorf(e.Lbrack, "vector index must be an int, got %s", typeName(idxVal))
	}
	return v.Index(int64(idx)), nil
}

func (in *Interp) evalField(t *Thread, fr *Frame, e *syntax.FieldExpr, env *Environment) (Value, error) {
	recv, err := in.evalExpr(t, fr, e.X, env)
	if err != nil {
		return nil, err
	}
	if v, ok := recv.(*Vector); ok && e.Name.Name == "len" {
		return Int(v.Len()), nil
	}
	si, ok := recv.(*StructInstance)
	if !ok {
		return nil, fr.errorf(e.Dot, "%s has no field %q", typeName(recv), e.Name.Name)
	}
	if v, ok := si.Get(e.Name.Name); ok {
		return v, nil
	}
	info, ok := in.Prog.Structs[si.TypeName]
	if ok {
		if decl, ok := info.Method(e.Name.Name); ok {
			return &BoundMethod{Self: recv, Decl: decl, Env: in.Global, program: in.Prog}, nil
		}
		return nil, fr.errorf(e.Dot, "%s has no field %q%s", si.TypeName, e.Name.Name, suggestField(info, e.Name.Name))
	}
	return nil, fr.errorf(e.Dot, "%s has no field %q", si.TypeName, e.Name.Name)
}

func (in *Interp) evalPath(t *Thread, fr *Frame, e *syntax.PathExpr, env *Environment) (Value, error) {
	tname := e.Type.Name
	if enum, ok := in.Prog.Enums[tname]; ok {
		if idx, ok := enum.Variants[e.Item.Name]; ok {
			return &EnumVariant{EnumName: tname, VariantName: e.Item.Name, Index: idx}, nil
		}
		return nil, fr.errorf(e.Item.NamePos, "enum %q has no variant %q", tname, e.Item.Name)
	}
	if si, ok := in.Prog.Structs[tname]; ok {
		if consts, ok := structConstsOf(t)[tname]; ok {
			if v, ok := consts[e.Item.Name]; ok {
				return v, nil
			}
		}
		if decl, ok := si.Method(e.Item.Name); ok && !decl.IsMethod {
			return NewStaticMethod(decl, in.Global, in.Prog, tname), nil
		}
		return nil, fr.errorf(e.Item.NamePos, "struct %q has no static member %q", tname, e.Item.Name)
	}
	return nil, fr.errorf(e.Type.NamePos, "undefined type %q", tname)
}

func (in *Interp) evalStructLit(t *Thread, fr *Frame, e *syntax.StructLit, env *Environment) (Value, error) {
	info, ok := in.Prog.Structs[e.Name.Name]
	if !ok {
		return nil, fr.errorf(e.Name.NamePos, "undefined struct %q", e.Name.Name)
	}
	fields := make(map[string]Value, len(e.Fields))
	for _, fi := range e.Fields {
		v, err := in.evalExpr(t, fr, fi.Value, env)
		if err != nil {
			return nil, err
		}
		fields[fi.Name.Name] = v
	}
	return NewStructInstance(e.Name.Name, info.FieldOrder, fields), nil
}

func (in *Interp) evalVecLit(t *Thread, fr *Frame, e *syntax.VecLit, env *Environment) (Value, error) {
	elems := make([]Value, len(e.Elems))
	for i, el := range e.Elems {
		v, err := in.evalExpr(t, fr, el, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	elemT := resolve.Any
	return NewVectorFrom(elemT, elems), nil
}

// evalMatch evaluates a match expression by testing the scrutinee against
// each arm's pattern with the equality operator, top to bottom, and
// evaluating the value of the first arm that matches; `_` matches
// unconditionally.
func (in *Interp) evalMatch(t *Thread, fr *Frame, e *syntax.MatchExpr, env *Environment) (Value, error) {
	scrut, err := in.evalExpr(t, fr, e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range e.Arms {
		if isWildcard(arm.Pattern) {
			return in.evalExpr(t, fr, arm.Value, env)
		}
		pv, err := in.evalExpr(t, fr, arm.Pattern, env)
		if err != nil {
			return nil, err
		}
		// A cross-type comparison (possible when the scrutinee's static
		// type is any) simply fails to match this arm rather than aborting
		// the whole match.
		if eq, err := equalValues(scrut, pv); err == nil && eq {
			return in.evalExpr(t, fr, arm.Value, env)
		}
	}
	// No arm matched: yield nil rather than aborting evaluation, since
	// match arms are not required to be exhaustive.
	return None, nil
}

func isWildcard(pat syntax.Expr) bool {
	id, ok := pat.(*syntax.Ident)
	return ok && id.Name == "_"
}
