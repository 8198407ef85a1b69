package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse("<test>", []byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return f
}

func TestParseFunctionDecl(t *testing.T) {
	f := mustParse(t, `fn add(a: int, b: int) -> int { return a + b; }`)
	if len(f.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *FuncDecl", f.Decls[0])
	}
	if fn.Name.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected decl: %+v", fn)
	}
}

func TestParseStructAndImpl(t *testing.T) {
	src := `
struct P { pub x: int, y: int }
impl P {
    pub fn new(x: int) -> Self { return Self { x: x, y: 0 }; }
}
`
	f := mustParse(t, src)
	if len(f.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(f.Decls))
	}
	sd, ok := f.Decls[0].(*StructDecl)
	if !ok || sd.Name.Name != "P" || len(sd.Fields) != 2 {
		t.Fatalf("unexpected struct decl: %+v", f.Decls[0])
	}
	id, ok := f.Decls[1].(*ImplDecl)
	if !ok || id.Name.Name != "P" || len(id.Methods) != 1 {
		t.Fatalf("unexpected impl decl: %+v", f.Decls[1])
	}
}

func TestParseEnumDecl(t *testing.T) {
	f := mustParse(t, `enum Color { Red, Green, Blue }`)
	ed, ok := f.Decls[0].(*EnumDecl)
	if !ok || len(ed.Variants) != 3 {
		t.Fatalf("unexpected enum decl: %+v", f.Decls[0])
	}
}

func TestParseIfWhileForLoop(t *testing.T) {
	mustParse(t, `fn f() { if true { } else if false { } else { } while true { } loop { break; } for let mut i = 0; i < 3; i = i + 1 { continue; } }`)
}

func TestParseMatchExpression(t *testing.T) {
	f := mustParse(t, `fn f(e: int) -> int { return match e { 1 => 1, 2 => 2 }; }`)
	fn := f.Decls[0].(*FuncDecl)
	ret := fn.Body.Stmts[0].(*ReturnStmt)
	if _, ok := ret.Value.(*MatchExpr); !ok {
		t.Fatalf("got %T, want *MatchExpr", ret.Value)
	}
}

func TestParseVecLiteral(t *testing.T) {
	mustParse(t, `let mut v = vec[1, 2, 3]; let w: vec<int> = vec<int>[];`)
}

func TestParseInvalidAssignTarget(t *testing.T) {
	_, err := Parse("<test>", []byte(`fn f() { 1 + 1 = 2; }`))
	if err == nil {
		t.Fatal("expected parse error for invalid assignment target")
	}
}

func TestParseStructLiteralInCondition(t *testing.T) {
	// A bare identifier condition must not be mistaken for a struct literal.
	f := mustParse(t, `fn f(flag: bool) { if flag { } }`)
	fn := f.Decls[0].(*FuncDecl)
	ifs, ok := fn.Body.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("got %T, want *IfStmt", fn.Body.Stmts[0])
	}
	if _, ok := ifs.Cond.(*Ident); !ok {
		t.Fatalf("got %T, want *Ident condition", ifs.Cond)
	}
}

// ignorePositions drops Position fields (and the File.Path filename) from
// go-cmp's comparison, since re-parsing printed source naturally produces
// different spans than the original.
var ignorePositions = cmp.Options{
	cmpopts.IgnoreTypes(Position{}),
	cmpopts.IgnoreFields(File{}, "Path"),
	cmpopts.IgnoreFields(Ident{}, "Binding"),
}

func TestPrintRoundTrip(t *testing.T) {
	srcs := []string{
		`fn add(a: int, b: int) -> int { return a + b; }`,
		`struct P { pub x: int }`,
		`enum E { A, B, C }`,
		`const N = 3;`,
	}
	for _, src := range srcs {
		f1 := mustParse(t, src)
		printed := Fprint(f1)
		f2, err := Parse("<test>", []byte(printed))
		if err != nil {
			t.Fatalf("re-parse of printed output failed: %v\nprinted:\n%s", err, printed)
		}
		if diff := cmp.Diff(f1, f2, ignorePositions); diff != "" {
			t.Fatalf("round-trip tree mismatch (-orig +reparsed):\n%s", diff)
		}
		printed2 := Fprint(f2)
		if strings.TrimSpace(printed) != strings.TrimSpace(printed2) {
			t.Fatalf("print not idempotent:\n%s\n----\n%s", printed, printed2)
		}
	}
}
