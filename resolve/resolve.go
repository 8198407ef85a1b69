package resolve

import (
	"fmt"
	"sort"

	"oxide-lang.dev/oxide/internal/spell"
	"oxide-lang.dev/oxide/syntax"
)

// BindKind classifies how an identifier was resolved. It is recorded on
// syntax.Ident.Binding purely as a diagnostic aid; the evaluator resolves
// names dynamically against its own environment and does not consult it.
type BindKind int

const (
	Undefined BindKind = iota
	BindLocal
	BindFunc
	BindConst
)

// Binding is what an *syntax.Ident resolved to.
type Binding struct {
	Kind BindKind
	Name string
}

// StructInfo is the resolved shape of one struct declaration: its fields and
// the members (methods and associated constants) contributed by its impl,
// paired by name.
type StructInfo struct {
	Decl       *syntax.StructDecl
	Impl       *syntax.ImplDecl // nil if the struct has no impl
	Fields     map[string]*syntax.FieldSpec
	FieldOrder []string

	// Members holds both methods (*syntax.FuncDecl) and associated
	// constants (*syntax.ConstDecl) in one namespace, since T::item may
	// name either.
	Members     map[string]interface{}
	ConstTypes  map[string]*Type // filled in as associated consts are checked
}

func (si *StructInfo) Method(name string) (*syntax.FuncDecl, bool) {
	if m, ok := si.Members[name]; ok {
		fn, ok := m.(*syntax.FuncDecl)
		return fn, ok
	}
	return nil, false
}

func (si *StructInfo) Const(name string) (*syntax.ConstDecl, bool) {
	if m, ok := si.Members[name]; ok {
		c, ok := m.(*syntax.ConstDecl)
		return c, ok
	}
	return nil, false
}

// EnumInfo is the resolved shape of one enum declaration.
type EnumInfo struct {
	Decl     *syntax.EnumDecl
	Variants map[string]int // variant name -> ordinal
}

// Program is the result of a successful Resolve: the file plus its global
// symbol table, ready for evaluation.
type Program struct {
	File    *syntax.File
	Funcs   map[string]*syntax.FuncDecl
	Structs map[string]*StructInfo
	Enums   map[string]*EnumInfo

	// ConstTypes holds the inferred type of every top-level constant,
	// keyed by name, filled in during the sequential pass.
	ConstTypes map[string]*Type
}

// frame is a typing-time analog of the runtime environment: a chain of
// name-to-cell mappings mirroring lexical nesting.
type frame struct {
	vars   map[string]*cell
	parent *frame
}

type cell struct {
	typ *Type
	mut bool
}

func newFrame(parent *frame) *frame {
	return &frame{vars: make(map[string]*cell), parent: parent}
}

func (f *frame) define(name string, c *cell) { f.vars[name] = c }

func (f *frame) lookup(name string) (*cell, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if c, ok := fr.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// names collects every identifier visible in f's chain, for "did you mean"
// suggestions.
func (f *frame) names() []string {
	var out []string
	seen := map[string]bool{}
	for fr := f; fr != nil; fr = fr.parent {
		for name := range fr.vars {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ctx carries the typing context threaded through statement/expression
// checking: the enclosing function's declared return type, loop nesting
// depth (for break/continue), and, inside a struct's own methods, the
// struct's name and Self type (for visibility and Self resolution).
type ctx struct {
	fr        *frame
	inFunc    bool
	ret       *Type
	loopDepth int
	self      *Type  // non-nil inside an instance method body
	structCtx string // non-empty inside any method/const of a struct's own impl
}

func (c *ctx) withFrame(fr *frame) *ctx {
	c2 := *c
	c2.fr = fr
	return &c2
}

func (c *ctx) enterLoop() *ctx {
	c2 := *c
	c2.loopDepth++
	return &c2
}

// Resolve runs the global declaration pass and the per-function/per-body
// type-checking pass over f, returning the resolved Program or the first
// error encountered.
func Resolve(f *syntax.File) (*Program, error) {
	r := &resolver{
		prog: &Program{
			File:       f,
			Funcs:      map[string]*syntax.FuncDecl{},
			Structs:    map[string]*StructInfo{},
			Enums:      map[string]*EnumInfo{},
			ConstTypes: map[string]*Type{},
		},
		globalNames: map[string]syntax.Position{},
	}
	if err := r.registerNames(f); err != nil {
		return nil, err
	}
	if err := r.pairImpls(f); err != nil {
		return nil, err
	}

	global := newFrame(nil)
	for name := range r.prog.Funcs {
		global.define(name, &cell{typ: Fn, mut: false})
	}
	for _, name := range hostBuiltinNames {
		global.define(name, &cell{typ: Fn, mut: false})
	}

	baseCtx := &ctx{fr: global}
	if err := r.checkSequential(f, baseCtx); err != nil {
		return nil, err
	}
	if err := r.checkDeferred(baseCtx); err != nil {
		return nil, err
	}
	return r.prog, nil
}

// hostBuiltinNames pre-populates the global type frame with the host
// library's callables (see lib/host) so that call sites type-check before
// any evaluator exists to install them.
var hostBuiltinNames = []string{
	"print", "println", "eprint", "eprintln",
	"timestamp", "read_line", "file_write", "typeof",
}

type resolver struct {
	prog        *Program
	globalNames map[string]syntax.Position // name -> declaration site, across structs/enums/funcs/consts

	deferred []deferredBody
}

// deferredBody is a function or method body whose type-checking is deferred
// until every top-level constant has a known type, since a function may be
// invoked (and its constants read) at any point after the whole file loads.
type deferredBody struct {
	decl      *syntax.FuncDecl
	self      *Type
	structCtx string
}

func resolveErr(pos syntax.Position, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// registerNames performs the global pass: every top-level struct, enum,
// function, and constant name is collected into one shared namespace, and
// struct fields / enum variants are validated for internal duplicates.
func (r *resolver) registerNames(f *syntax.File) error {
	for _, d := range f.Decls {
		var name string
		var pos syntax.Position
		switch x := d.(type) {
		case *syntax.FuncDecl:
			name, pos = x.Name.Name, x.FnPos
		case *syntax.StructDecl:
			name, pos = x.Name.Name, x.StructPos
		case *syntax.EnumDecl:
			name, pos = x.Name.Name, x.EnumPos
		case *syntax.ConstDecl:
			name, pos = x.Name.Name, x.ConstPos
		case *syntax.ImplDecl, *syntax.StmtDecl:
			continue // impls are paired separately; bare statements declare nothing global
		default:
			continue
		}
		if prev, dup := r.globalNames[name]; dup {
			return resolveErr(pos, "duplicate top-level declaration %q (first declared at %s)", name, prev)
		}
		r.globalNames[name] = pos

		switch x := d.(type) {
		case *syntax.FuncDecl:
			r.prog.Funcs[name] = x
		case *syntax.StructDecl:
			si := &StructInfo{Decl: x, Fields: map[string]*syntax.FieldSpec{}, Members: map[string]interface{}{}, ConstTypes: map[string]*Type{}}
			for _, fld := range x.Fields {
				if _, dup := si.Fields[fld.Name.Name]; dup {
					return resolveErr(fld.Name.NamePos, "duplicate field %q in struct %q", fld.Name.Name, name)
				}
				si.Fields[fld.Name.Name] = fld
				si.FieldOrder = append(si.FieldOrder, fld.Name.Name)
			}
			r.prog.Structs[name] = si
		case *syntax.EnumDecl:
			ei := &EnumInfo{Decl: x, Variants: map[string]int{}}
			for i, v := range x.Variants {
				if _, dup := ei.Variants[v.Name]; dup {
					return resolveErr(v.NamePos, "duplicate variant %q in enum %q", v.Name, name)
				}
				ei.Variants[v.Name] = i
			}
			r.prog.Enums[name] = ei
		}
	}
	return nil
}

// pairImpls matches each ImplDecl to its struct by name and merges its
// methods and constants into one member namespace.
func (r *resolver) pairImpls(f *syntax.File) error {
	for _, d := range f.Decls {
		impl, ok := d.(*syntax.ImplDecl)
		if !ok {
			continue
		}
		si, ok := r.prog.Structs[impl.Name.Name]
		if !ok {
			return resolveErr(impl.ImplPos, "impl of undefined struct %q", impl.Name.Name)
		}
		if si.Impl != nil {
			return resolveErr(impl.ImplPos, "duplicate impl for struct %q (first at %s)", impl.Name.Name, si.Impl.ImplPos)
		}
		si.Impl = impl
		for _, m := range impl.Methods {
			if _, dup := si.Members[m.Name.Name]; dup {
				return resolveErr(m.FnPos, "duplicate member %q in impl %q", m.Name.Name, impl.Name.Name)
			}
			si.Members[m.Name.Name] = m
		}
		for _, c := range impl.Consts {
			if _, dup := si.Members[c.Name.Name]; dup {
				return resolveErr(c.ConstPos, "duplicate member %q in impl %q", c.Name.Name, impl.Name.Name)
			}
			si.Members[c.Name.Name] = c
		}
	}
	return nil
}

// checkSequential walks the file's declarations in source order, typing
// top-level constants and bare statements against a single, accumulating
// global frame (so later statements see earlier let bindings, matching REPL
// persistence), and queues function/method bodies for the deferred pass.
func (r *resolver) checkSequential(f *syntax.File, c *ctx) error {
	for _, d := range f.Decls {
		switch x := d.(type) {
		case *syntax.ConstDecl:
			t, err := r.checkExpr(x.Value, c)
			if err != nil {
				return err
			}
			r.prog.ConstTypes[x.Name.Name] = t
			c.fr.define(x.Name.Name, &cell{typ: t, mut: false})
		case *syntax.StmtDecl:
			if err := r.checkStmt(x.Stmt, c); err != nil {
				return err
			}
		case *syntax.FuncDecl:
			r.deferred = append(r.deferred, deferredBody{decl: x})
		case *syntax.StructDecl:
			si := r.prog.Structs[x.Name.Name]
			if si.Impl == nil {
				continue
			}
			if err := r.queueImplBody(x.Name.Name, si, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// queueImplBody types the struct's associated constants eagerly (in the
// order they appear in the impl block) and queues its methods for the
// deferred pass.
func (r *resolver) queueImplBody(structName string, si *StructInfo, c *ctx) error {
	implFrame := newFrame(c.fr)
	implCtx := c.withFrame(implFrame)
	implCtx.structCtx = structName
	for _, cnst := range si.Impl.Consts {
		t, err := r.checkExpr(cnst.Value, implCtx)
		if err != nil {
			return err
		}
		si.ConstTypes[cnst.Name.Name] = t
		implFrame.define(cnst.Name.Name, &cell{typ: t, mut: false})
	}
	for _, m := range si.Impl.Methods {
		var self *Type
		if m.IsMethod {
			self = StructT(structName)
		}
		r.deferred = append(r.deferred, deferredBody{decl: m, self: self, structCtx: structName})
	}
	return nil
}

// checkDeferred type-checks every queued function and method body against
// the final global frame, once every top-level constant has a type.
func (r *resolver) checkDeferred(c *ctx) error {
	for _, db := range r.deferred {
		if err := r.checkFuncBody(db.decl, c.fr, db.self, db.structCtx); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) checkFuncBody(decl *syntax.FuncDecl, outer *frame, self *Type, structCtx string) error {
	retType := Nil
	if decl.RetType != nil {
		t, err := r.resolveTypeExpr(decl.RetType, structCtx)
		if err != nil {
			return err
		}
		retType = t
	}
	fr := newFrame(outer)
	fc := &ctx{fr: fr, inFunc: true, ret: retType, self: self, structCtx: structCtx}
	if self != nil {
		fr.define("self", &cell{typ: self, mut: false})
	}
	for _, p := range decl.Params {
		pt, err := r.resolveTypeExpr(p.Type, structCtx)
		if err != nil {
			return err
		}
		fr.define(p.Name.Name, &cell{typ: pt, mut: p.Mut})
	}
	return r.checkBlockIn(decl.Body, fc)
}

// checkBlockIn type-checks the statements of b directly in fc's frame,
// without pushing a further child frame; used for the outermost block of a
// function/lambda/method body, whose parameters already occupy that frame.
func (r *resolver) checkBlockIn(b *syntax.BlockStmt, c *ctx) error {
	for _, s := range b.Stmts {
		if err := r.checkStmt(s, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) checkBlock(b *syntax.BlockStmt, c *ctx) error {
	return r.checkBlockIn(b, c.withFrame(newFrame(c.fr)))
}

func (r *resolver) resolveTypeExpr(t syntax.TypeExpr, structCtx string) (*Type, error) {
	switch x := t.(type) {
	case *syntax.NamedType:
		switch x.Name {
		case "nil":
			return Nil, nil
		case "bool":
			return Bool, nil
		case "int":
			return Int, nil
		case "float":
			return Float, nil
		case "str":
			return Str, nil
		case "num":
			return Num, nil
		case "any":
			return Any, nil
		case "fn":
			return Fn, nil
		case "Self":
			if structCtx == "" {
				return nil, resolveErr(x.Pos, "Self used outside an impl block")
			}
			return StructT(structCtx), nil
		}
		if _, ok := r.prog.Structs[x.Name]; ok {
			return StructT(x.Name), nil
		}
		if _, ok := r.prog.Enums[x.Name]; ok {
			return EnumT(x.Name), nil
		}
		return nil, resolveErr(x.Pos, "undefined type %q%s", x.Name, r.suggestType(x.Name))
	case *syntax.VecType:
		if x.Elem == nil {
			return VecAny, nil
		}
		elem, err := r.resolveTypeExpr(x.Elem, structCtx)
		if err != nil {
			return nil, err
		}
		return VecOf(elem), nil
	}
	panic(fmt.Sprintf("resolve: unhandled type expr %T", t))
}

func (r *resolver) suggestType(name string) string {
	var candidates []string
	for n := range r.prog.Structs {
		candidates = append(candidates, n)
	}
	for n := range r.prog.Enums {
		candidates = append(candidates, n)
	}
	if best := spell.Nearest(name, candidates); best != "" {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

// ---- statements ----

func (r *resolver) checkStmt(s syntax.Stmt, c *ctx) error {
	switch x := s.(type) {
	case *syntax.BlockStmt:
		return r.checkBlock(x, c)
	case *syntax.ExprStmt:
		_, err := r.checkExpr(x.X, c)
		return err
	case *syntax.LetStmt:
		return r.checkLet(x, c)
	case *syntax.ConstStmt:
		t, err := r.checkExpr(x.Decl.Value, c)
		if err != nil {
			return err
		}
		c.fr.define(x.Decl.Name.Name, &cell{typ: t, mut: false})
		return nil
	case *syntax.ReturnStmt:
		if !c.inFunc {
			return resolveErr(x.ReturnPos, "return outside function")
		}
		if x.Value == nil {
			if !Equal(c.ret, Nil) {
				return resolveErr(x.ReturnPos, "return with no value in function declared to return %s", c.ret)
			}
			return nil
		}
		t, err := r.checkExpr(x.Value, c)
		if err != nil {
			return err
		}
		if !Assignable(t, c.ret) {
			return resolveErr(x.ReturnPos, "cannot return %s as %s", t, c.ret)
		}
		return nil
	case *syntax.BreakStmt:
		if c.loopDepth == 0 {
			return resolveErr(x.BreakPos, "break outside loop")
		}
		return nil
	case *syntax.ContinueStmt:
		if c.loopDepth == 0 {
			return resolveErr(x.ContinuePos, "continue outside loop")
		}
		return nil
	case *syntax.IfStmt:
		return r.checkIf(x, c)
	case *syntax.WhileStmt:
		t, err := r.checkExpr(x.Cond, c)
		if err != nil {
			return err
		}
		if err := requireBool(t, x.WhilePos); err != nil {
			return err
		}
		return r.checkBlock(x.Body, c.enterLoop())
	case *syntax.LoopStmt:
		return r.checkBlock(x.Body, c.enterLoop())
	case *syntax.ForStmt:
		return r.checkFor(x, c)
	case *syntax.FuncDeclStmt:
		c.fr.define(x.Decl.Name.Name, &cell{typ: Fn, mut: false})
		return r.checkFuncBody(x.Decl, c.fr, nil, c.structCtx)
	case *syntax.StructDeclStmt:
		return r.checkNestedStruct(x.Decl, c)
	case *syntax.EnumDeclStmt:
		return r.checkNestedEnum(x.Decl, c)
	case *syntax.ImplDeclStmt:
		si, ok := r.prog.Structs[x.Decl.Name.Name]
		if !ok {
			return resolveErr(x.Decl.ImplPos, "impl of undefined struct %q", x.Decl.Name.Name)
		}
		if si.Impl != nil {
			return resolveErr(x.Decl.ImplPos, "duplicate impl for struct %q", x.Decl.Name.Name)
		}
		si.Impl = x.Decl
		for _, m := range x.Decl.Methods {
			si.Members[m.Name.Name] = m
		}
		for _, cn := range x.Decl.Consts {
			si.Members[cn.Name.Name] = cn
		}
		return r.queueImplBody(x.Decl.Name.Name, si, c)
	}
	panic(fmt.Sprintf("resolve: unhandled stmt %T", s))
}

// checkNestedStruct/checkNestedEnum register a locally-declared struct/enum
// into the same global namespace used by top-level declarations. The
// language's data model treats structs and enums as global entities (see
// Declarations in the data model); nesting the syntax inside a block does
// not create a lexically-scoped type.
func (r *resolver) checkNestedStruct(x *syntax.StructDecl, c *ctx) error {
	if _, dup := r.globalNames[x.Name.Name]; dup {
		return resolveErr(x.StructPos, "duplicate top-level declaration %q", x.Name.Name)
	}
	r.globalNames[x.Name.Name] = x.StructPos
	si := &StructInfo{Decl: x, Fields: map[string]*syntax.FieldSpec{}, Members: map[string]interface{}{}, ConstTypes: map[string]*Type{}}
	for _, fld := range x.Fields {
		si.Fields[fld.Name.Name] = fld
		si.FieldOrder = append(si.FieldOrder, fld.Name.Name)
	}
	r.prog.Structs[x.Name.Name] = si
	return nil
}

func (r *resolver) checkNestedEnum(x *syntax.EnumDecl, c *ctx) error {
	if _, dup := r.globalNames[x.Name.Name]; dup {
		return resolveErr(x.EnumPos, "duplicate top-level declaration %q", x.Name.Name)
	}
	r.globalNames[x.Name.Name] = x.EnumPos
	ei := &EnumInfo{Decl: x, Variants: map[string]int{}}
	for i, v := range x.Variants {
		ei.Variants[v.Name] = i
	}
	r.prog.Enums[x.Name.Name] = ei
	return nil
}

func (r *resolver) checkLet(x *syntax.LetStmt, c *ctx) error {
	var declared *Type
	if x.Type != nil {
		t, err := r.resolveTypeExpr(x.Type, c.structCtx)
		if err != nil {
			return err
		}
		declared = t
	}
	var valType *Type
	if x.Value != nil {
		t, err := r.checkExpr(x.Value, c)
		if err != nil {
			return err
		}
		valType = t
		if declared != nil && !Assignable(t, declared) {
			return resolveErr(x.LetPos, "cannot initialize %q of type %s with value of type %s", x.Name.Name, declared, t)
		}
	}
	cellType := declared
	if cellType == nil {
		cellType = valType
	}
	if cellType == nil {
		return resolveErr(x.LetPos, "let %q needs a type annotation or an initializer", x.Name.Name)
	}
	// A cell without an initializer must accept one first assignment even
	// when declared without `mut`; full once-only enforcement is a runtime
	// concern tracked by the evaluator's cell state, not the static check.
	mut := x.Mut || x.Value == nil
	c.fr.define(x.Name.Name, &cell{typ: cellType, mut: mut})
	return nil
}

func (r *resolver) checkIf(x *syntax.IfStmt, c *ctx) error {
	t, err := r.checkExpr(x.Cond, c)
	if err != nil {
		return err
	}
	if err := requireBool(t, x.IfPos); err != nil {
		return err
	}
	if err := r.checkBlock(x.Then, c); err != nil {
		return err
	}
	if x.Else != nil {
		return r.checkStmt(x.Else, c)
	}
	return nil
}

func (r *resolver) checkFor(x *syntax.ForStmt, c *ctx) error {
	loopFrame := newFrame(c.fr)
	lc := c.withFrame(loopFrame)
	if x.Init != nil {
		if err := r.checkStmt(x.Init, lc); err != nil {
			return err
		}
	}
	if x.Cond != nil {
		t, err := r.checkExpr(x.Cond, lc)
		if err != nil {
			return err
		}
		if err := requireBool(t, x.ForPos); err != nil {
			return err
		}
	}
	bodyCtx := lc.enterLoop()
	if err := r.checkBlock(x.Body, bodyCtx); err != nil {
		return err
	}
	if x.Step != nil {
		if err := r.checkStmt(x.Step, lc); err != nil {
			return err
		}
	}
	return nil
}

func requireBool(t *Type, pos syntax.Position) error {
	if t.Kind == KindBool || t.Kind == KindAny {
		return nil
	}
	return resolveErr(pos, "condition must be bool, got %s", t)
}

// ---- expressions ----

func (r *resolver) checkExpr(e syntax.Expr, c *ctx) (*Type, error) {
	switch x := e.(type) {
	case *syntax.Ident:
		return r.checkIdent(x, c)
	case *syntax.IntLit:
		return Int, nil
	case *syntax.FloatLit:
		return Float, nil
	case *syntax.StringLit:
		return Str, nil
	case *syntax.BoolLit:
		return Bool, nil
	case *syntax.NilLit:
		return Nil, nil
	case *syntax.GroupExpr:
		return r.checkExpr(x.X, c)
	case *syntax.UnaryExpr:
		return r.checkUnary(x, c)
	case *syntax.BinaryExpr:
		return r.checkBinary(x, c)
	case *syntax.AssignExpr:
		return r.checkAssign(x, c)
	case *syntax.CallExpr:
		return r.checkCall(x, c)
	case *syntax.IndexExpr:
		return r.checkIndex(x, c)
	case *syntax.FieldExpr:
		return r.checkField(x, c)
	case *syntax.PathExpr:
		return r.checkPath(x, c)
	case *syntax.StructLit:
		return r.checkStructLit(x, c)
	case *syntax.VecLit:
		return r.checkVecLit(x, c)
	case *syntax.LambdaExpr:
		return r.checkLambda(x, c)
	case *syntax.MatchExpr:
		return r.checkMatch(x, c)
	}
	panic(fmt.Sprintf("resolve: unhandled expr %T", e))
}

func (r *resolver) checkIdent(x *syntax.Ident, c *ctx) (*Type, error) {
	if cell, ok := c.fr.lookup(x.Name); ok {
		x.Binding = &Binding{Kind: BindLocal, Name: x.Name}
		return cell.typ, nil
	}
	suggestion := ""
	if best := spell.Nearest(x.Name, c.fr.names()); best != "" {
		suggestion = fmt.Sprintf(" (did you mean %q?)", best)
	}
	return nil, resolveErr(x.NamePos, "undefined identifier %q%s", x.Name, suggestion)
}

func (r *resolver) checkUnary(x *syntax.UnaryExpr, c *ctx) (*Type, error) {
	t, err := r.checkExpr(x.X, c)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case syntax.MINUS:
		if t.Kind == KindAny {
			return Any, nil
		}
		if !t.IsNumeric() {
			return nil, resolveErr(x.OpPos, "unary - requires a numeric operand, got %s", t)
		}
		return t, nil
	case syntax.NOT:
		if t.Kind == KindAny {
			return Any, nil
		}
		if t.Kind != KindBool {
			return nil, resolveErr(x.OpPos, "unary ! requires a bool operand, got %s", t)
		}
		return Bool, nil
	}
	panic("resolve: unhandled unary operator")
}

func (r *resolver) checkBinary(x *syntax.BinaryExpr, c *ctx) (*Type, error) {
	tx, err := r.checkExpr(x.X, c)
	if err != nil {
		return nil, err
	}
	ty, err := r.checkExpr(x.Y, c)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case syntax.PLUS:
		if tx.Kind == KindStr || ty.Kind == KindStr {
			return Str, nil
		}
		return numericBinary(x.Op, tx, ty, x.OpPos)
	case syntax.MINUS, syntax.STAR, syntax.SLASH, syntax.PERCENT:
		return numericBinary(x.Op, tx, ty, x.OpPos)
	case syntax.LT, syntax.GT, syntax.LE, syntax.GE:
		if _, err := numericBinary(x.Op, tx, ty, x.OpPos); err != nil {
			return nil, err
		}
		return Bool, nil
	case syntax.EQ, syntax.NE:
		if tx.Kind != KindAny && ty.Kind != KindAny && !Equal(tx, ty) {
			return nil, resolveErr(x.OpPos, "cannot compare %s and %s with %s", tx, ty, x.Op)
		}
		return Bool, nil
	case syntax.AND, syntax.OR:
		if err := requireBool(tx, x.OpPos); err != nil {
			return nil, err
		}
		if err := requireBool(ty, x.OpPos); err != nil {
			return nil, err
		}
		return Bool, nil
	}
	panic("resolve: unhandled binary operator")
}

func numericBinary(op syntax.Token, tx, ty *Type, pos syntax.Position) (*Type, error) {
	if tx.Kind == KindAny || ty.Kind == KindAny {
		return Any, nil
	}
	if !tx.IsNumeric() || !ty.IsNumeric() {
		return nil, resolveErr(pos, "operator %s requires numeric operands, got %s and %s", op, tx, ty)
	}
	if tx.Kind == KindNum || ty.Kind == KindNum {
		return Num, nil
	}
	if tx.Kind != ty.Kind {
		return nil, resolveErr(pos, "operator %s requires operands of the same numeric kind, got %s and %s", op, tx, ty)
	}
	return tx, nil
}

func (r *resolver) checkAssign(x *syntax.AssignExpr, c *ctx) (*Type, error) {
	rt, err := r.checkExpr(x.RHS, c)
	if err != nil {
		return nil, err
	}
	switch lhs := x.LHS.(type) {
	case *syntax.Ident:
		cell, ok := c.fr.lookup(lhs.Name)
		if !ok {
			return nil, resolveErr(lhs.NamePos, "undefined identifier %q", lhs.Name)
		}
		if !cell.mut {
			return nil, resolveErr(x.OpPos, "cannot assign to immutable variable %q", lhs.Name)
		}
		want, err := compoundResultType(x.Op, cell.typ, rt, x.OpPos)
		if err != nil {
			return nil, err
		}
		if !Assignable(want, cell.typ) {
			return nil, resolveErr(x.OpPos, "cannot assign %s to %q of type %s", want, lhs.Name, cell.typ)
		}
		return cell.typ, nil
	case *syntax.FieldExpr:
		bt, err := r.checkExpr(lhs.X, c)
		if err != nil {
			return nil, err
		}
		if bt.Kind == KindAny {
			return Any, nil
		}
		if bt.Kind != KindStruct {
			return nil, resolveErr(lhs.Dot, "field assignment on non-struct type %s", bt)
		}
		si := r.prog.Structs[bt.Name]
		fld, ok := si.Fields[lhs.Name.Name]
		if !ok {
			return nil, resolveErr(lhs.Name.NamePos, "struct %q has no field %q%s", bt.Name, lhs.Name.Name, r.suggestField(si, lhs.Name.Name))
		}
		if !fld.Pub && c.structCtx != bt.Name {
			return nil, resolveErr(lhs.Name.NamePos, "field %q of %q is private", lhs.Name.Name, bt.Name)
		}
		ft, err := r.resolveTypeExpr(fld.Type, "")
		if err != nil {
			return nil, err
		}
		want, err := compoundResultType(x.Op, ft, rt, x.OpPos)
		if err != nil {
			return nil, err
		}
		if !Assignable(want, ft) {
			return nil, resolveErr(x.OpPos, "cannot assign %s to field %q of type %s", want, lhs.Name.Name, ft)
		}
		return ft, nil
	case *syntax.IndexExpr:
		bt, err := r.checkExpr(lhs.X, c)
		if err != nil {
			return nil, err
		}
		if _, err := r.checkExpr(lhs.Index, c); err != nil {
			return nil, err
		}
		if bt.Kind == KindAny {
			return Any, nil
		}
		if bt.Kind != KindVec {
			return nil, resolveErr(lhs.Lbrack, "index assignment on non-vec type %s", bt)
		}
		want, err := compoundResultType(x.Op, bt.Elem, rt, x.OpPos)
		if err != nil {
			return nil, err
		}
		if !Assignable(want, bt.Elem) {
			return nil, resolveErr(x.OpPos, "cannot assign %s into %s", want, bt)
		}
		return bt.Elem, nil
	}
	panic("resolve: invalid assignment target reached checker")
}

// compoundResultType computes the type that a (possibly compound) assignment
// operator produces from the target's current type and the RHS type, so it
// can be checked against the target's declared type in one place.
func compoundResultType(op syntax.Token, target, rhs *Type, pos syntax.Position) (*Type, error) {
	if op == syntax.ASSIGN {
		return rhs, nil
	}
	binOp := syntax.PLUS
	switch op {
	case syntax.PLUS_EQ:
		binOp = syntax.PLUS
	case syntax.MINUS_EQ:
		binOp = syntax.MINUS
	case syntax.STAR_EQ:
		binOp = syntax.STAR
	case syntax.SLASH_EQ:
		binOp = syntax.SLASH
	case syntax.PERCENT_EQ:
		binOp = syntax.PERCENT
	}
	if binOp == syntax.PLUS && (target.Kind == KindStr || rhs.Kind == KindStr) {
		return Str, nil
	}
	return numericBinary(binOp, target, rhs, pos)
}

func (r *resolver) checkCall(x *syntax.CallExpr, c *ctx) (*Type, error) {
	ft, err := r.checkExpr(x.Fn, c)
	if err != nil {
		return nil, err
	}
	if ft.Kind != KindFn && ft.Kind != KindAny {
		return nil, resolveErr(x.Lparen, "cannot call value of type %s", ft)
	}
	for _, a := range x.Args {
		if _, err := r.checkExpr(a, c); err != nil {
			return nil, err
		}
	}
	// fn carries no signature statically; arity and parameter/return types
	// are checked by the evaluator at call time (see Function invocation).
	return Any, nil
}

func (r *resolver) checkIndex(x *syntax.IndexExpr, c *ctx) (*Type, error) {
	bt, err := r.checkExpr(x.X, c)
	if err != nil {
		return nil, err
	}
	it, err := r.checkExpr(x.Index, c)
	if err != nil {
		return nil, err
	}
	if it.Kind != KindInt && it.Kind != KindAny {
		return nil, resolveErr(x.Lbrack, "vector index must be int, got %s", it)
	}
	if bt.Kind == KindAny {
		return Any, nil
	}
	if bt.Kind != KindVec {
		return nil, resolveErr(x.Lbrack, "cannot index non-vec type %s", bt)
	}
	return bt.Elem, nil
}

func (r *resolver) checkField(x *syntax.FieldExpr, c *ctx) (*Type, error) {
	bt, err := r.checkExpr(x.X, c)
	if err != nil {
		return nil, err
	}
	if bt.Kind == KindAny {
		return Any, nil
	}
	if bt.Kind == KindVec {
		// push/pop/len are evaluator-level vector operations invoked
		// through ordinary method-call syntax; their static type is fn,
		// like any other callable, since arity is checked at call time.
		switch x.Name.Name {
		case "push", "pop", "len":
			return Fn, nil
		}
		return nil, resolveErr(x.Name.NamePos, "vec has no method %q", x.Name.Name)
	}
	if bt.Kind != KindStruct {
		return nil, resolveErr(x.Dot, "cannot access field %q on non-struct type %s", x.Name.Name, bt)
	}
	si := r.prog.Structs[bt.Name]
	if fld, ok := si.Fields[x.Name.Name]; ok {
		if !fld.Pub && c.structCtx != bt.Name {
			return nil, resolveErr(x.Name.NamePos, "field %q of %q is private", x.Name.Name, bt.Name)
		}
		return r.resolveTypeExpr(fld.Type, "")
	}
	if m, ok := si.Method(x.Name.Name); ok {
		if !m.Pub && c.structCtx != bt.Name {
			return nil, resolveErr(x.Name.NamePos, "method %q of %q is private", x.Name.Name, bt.Name)
		}
		return Fn, nil
	}
	return nil, resolveErr(x.Name.NamePos, "struct %q has no field or method %q%s", bt.Name, x.Name.Name, r.suggestField(si, x.Name.Name))
}

func (r *resolver) suggestField(si *StructInfo, name string) string {
	var candidates []string
	candidates = append(candidates, si.FieldOrder...)
	for n := range si.Members {
		candidates = append(candidates, n)
	}
	if best := spell.Nearest(name, candidates); best != "" {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

func (r *resolver) checkPath(x *syntax.PathExpr, c *ctx) (*Type, error) {
	name := x.Type.Name
	if name == "Self" {
		if c.structCtx == "" {
			return nil, resolveErr(x.Type.NamePos, "Self used outside an impl block")
		}
		name = c.structCtx
	}
	if ei, ok := r.prog.Enums[name]; ok {
		if _, ok := ei.Variants[x.Item.Name]; !ok {
			var names []string
			for v := range ei.Variants {
				names = append(names, v)
			}
			return nil, resolveErr(x.Item.NamePos, "enum %q has no variant %q%s", name, x.Item.Name, suggest(x.Item.Name, names))
		}
		return EnumT(name), nil
	}
	if si, ok := r.prog.Structs[name]; ok {
		if _, ok := si.Fields[x.Item.Name]; ok {
			// Fields are accessed with `.`, not `::`.
			return nil, resolveErr(x.Item.NamePos, "%q is a field of %q; use .%s to access it", x.Item.Name, name, x.Item.Name)
		}
		if cn, ok := si.Const(x.Item.Name); ok {
			if !cn.Pub && c.structCtx != name {
				return nil, resolveErr(x.Item.NamePos, "constant %q of %q is private", x.Item.Name, name)
			}
			t, ok := si.ConstTypes[cn.Name.Name]
			if !ok {
				t = Any
			}
			return t, nil
		}
		if m, ok := si.Method(x.Item.Name); ok {
			if m.IsMethod {
				return nil, resolveErr(x.Item.NamePos, "%q is an instance method of %q; call it as a value.%s(...)", x.Item.Name, name, x.Item.Name)
			}
			if !m.Pub && c.structCtx != name {
				return nil, resolveErr(x.Item.NamePos, "method %q of %q is private", x.Item.Name, name)
			}
			return Fn, nil
		}
		return nil, resolveErr(x.Item.NamePos, "struct %q has no static member %q%s", name, x.Item.Name, r.suggestField(si, x.Item.Name))
	}
	return nil, resolveErr(x.Type.NamePos, "undefined type %q%s", name, r.suggestType(name))
}

func suggest(name string, candidates []string) string {
	if best := spell.Nearest(name, candidates); best != "" {
		return fmt.Sprintf(" (did you mean %q?)", best)
	}
	return ""
}

func (r *resolver) checkStructLit(x *syntax.StructLit, c *ctx) (*Type, error) {
	si, ok := r.prog.Structs[x.Name.Name]
	if !ok {
		return nil, resolveErr(x.Name.NamePos, "undefined struct %q%s", x.Name.Name, r.suggestType(x.Name.Name))
	}
	seen := map[string]bool{}
	for _, fi := range x.Fields {
		fld, ok := si.Fields[fi.Name.Name]
		if !ok {
			return nil, resolveErr(fi.Name.NamePos, "struct %q has no field %q%s", x.Name.Name, fi.Name.Name, r.suggestField(si, fi.Name.Name))
		}
		if seen[fi.Name.Name] {
			return nil, resolveErr(fi.Name.NamePos, "field %q specified more than once", fi.Name.Name)
		}
		seen[fi.Name.Name] = true
		vt, err := r.checkExpr(fi.Value, c)
		if err != nil {
			return nil, err
		}
		ft, err := r.resolveTypeExpr(fld.Type, "")
		if err != nil {
			return nil, err
		}
		if !Assignable(vt, ft) {
			return nil, resolveErr(fi.Name.NamePos, "field %q expects %s, got %s", fi.Name.Name, ft, vt)
		}
	}
	for _, name := range si.FieldOrder {
		if !seen[name] {
			return nil, resolveErr(x.Lbrace, "missing field %q in literal of %q", name, x.Name.Name)
		}
	}
	return StructT(x.Name.Name), nil
}

func (r *resolver) checkVecLit(x *syntax.VecLit, c *ctx) (*Type, error) {
	var pinned *Type
	if x.ElemT != nil {
		t, err := r.resolveTypeExpr(x.ElemT, c.structCtx)
		if err != nil {
			return nil, err
		}
		pinned = t
	}
	var elemTypes []*Type
	for _, el := range x.Elems {
		t, err := r.checkExpr(el, c)
		if err != nil {
			return nil, err
		}
		if pinned != nil && !Assignable(t, pinned) {
			return nil, resolveErr(x.VecPos, "vector element of type %s is not assignable to %s", t, pinned)
		}
		elemTypes = append(elemTypes, t)
	}
	if pinned != nil {
		return VecOf(pinned), nil
	}
	if len(elemTypes) == 0 {
		return VecAny, nil
	}
	return VecOf(Common(elemTypes)), nil
}

func (r *resolver) checkLambda(x *syntax.LambdaExpr, c *ctx) (*Type, error) {
	fr := newFrame(c.fr)
	lc := c.withFrame(fr)
	lc.inFunc = true
	ret := Nil
	if x.RetType != nil {
		t, err := r.resolveTypeExpr(x.RetType, c.structCtx)
		if err != nil {
			return nil, err
		}
		ret = t
	}
	lc.ret = ret
	lc.loopDepth = 0
	for _, p := range x.Params {
		pt, err := r.resolveTypeExpr(p.Type, c.structCtx)
		if err != nil {
			return nil, err
		}
		fr.define(p.Name.Name, &cell{typ: pt, mut: p.Mut})
	}
	if err := r.checkBlockIn(x.Body, lc); err != nil {
		return nil, err
	}
	return Fn, nil
}

func (r *resolver) checkMatch(x *syntax.MatchExpr, c *ctx) (*Type, error) {
	if _, err := r.checkExpr(x.Scrutinee, c); err != nil {
		return nil, err
	}
	var armTypes []*Type
	for _, arm := range x.Arms {
		if _, err := r.checkExpr(arm.Pattern, c); err != nil {
			return nil, err
		}
		t, err := r.checkExpr(arm.Value, c)
		if err != nil {
			return nil, err
		}
		armTypes = append(armTypes, t)
	}
	if len(armTypes) == 0 {
		return Nil, nil
	}
	return Common(armTypes), nil
}
