package oxide_test

import (
	"bytes"
	"strings"
	"testing"

	"oxide-lang.dev/oxide"
	"oxide-lang.dev/oxide/lib/host"
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

// run parses, resolves, and executes src, returning everything written to
// stdout and any error from execution.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	f, err := syntax.Parse("<test>", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := resolve.Resolve(f)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var out, errOut bytes.Buffer
	universe := host.Universe(&out, &errOut, strings.NewReader("")).ToUniverse()
	interp := oxide.NewInterp(prog, universe)
	thread := &oxide.Thread{Name: "test"}
	err = interp.ExecFile(thread)
	return out.String(), err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `println("" + (1 + 2 * 3));`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("got %q, want %q", out, "7\n")
	}
}

func TestFloatStringification(t *testing.T) {
	out, err := run(t, `println("" + 1.0); println("" + 3.5);`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "1.0\n3.5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
fn add(a: int, b: int) -> int {
    return a + b;
}
println("" + add(2, 3));
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "5\n" {
		t.Fatalf("got %q", out)
	}
}

func TestClosureCapturesLexicalScope(t *testing.T) {
	out, err := run(t, `
fn makeAdder(n: int) -> fn {
    let adder = fn (x: int) -> int { return x + n; };
    return adder;
}
let add5 = makeAdder(5);
println("" + add5(10));
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "15\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStructMethodDispatch(t *testing.T) {
	out, err := run(t, `
struct Point {
    x: int,
    y: int,
}

impl Point {
    pub fn sum(self) -> int {
        return self.x + self.y;
    }
}

let p = Point { x: 3, y: 4 };
println("" + p.sum());
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("got %q", out)
	}
}

func TestStructInstanceStringification(t *testing.T) {
	out, err := run(t, `
struct Point {
    x: int,
}
let p = Point { x: 1 };
println("" + p);
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "<Point>\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVectorPushIndexStringification(t *testing.T) {
	out, err := run(t, `
let mut v: vec<int> = vec[1, 2, 3];
v.push(4);
println("" + v);
println("" + v.len());
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "[vec] [1, 2, 3, 4]\n4\n" {
		t.Fatalf("got %q", out)
	}
}

func TestVectorOutOfRangeReadIsUninit(t *testing.T) {
	out, err := run(t, `
let v: vec<int> = vec[1];
println(typeof(v[5]));
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "uninit\n" {
		t.Fatalf("got %q", out)
	}
}

func TestImmutableReassignmentIsError(t *testing.T) {
	src := `
let x: int = 1;
x = 2;
`
	f, err := syntax.Parse("<test>", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := resolve.Resolve(f); err == nil {
		t.Fatal("want error reassigning immutable variable, got nil")
	}
}

func TestCrossTypeEqualityIsError(t *testing.T) {
	_, err := run(t, `
let x: any = 1;
let y: any = "1";
println("" + (x == y));
`)
	if err == nil {
		t.Fatal("want error comparing int with str, got nil")
	}
}

func TestMatchNoArmMatchesYieldsNil(t *testing.T) {
	out, err := run(t, `
let x: any = 5;
let r: any = match x {
    "hello" => 1,
};
println(typeof(r));
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "nil\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := run(t, `let x: int = 1 / 0;`)
	if err == nil {
		t.Fatal("want division by zero error")
	}
}

func TestEnumVariantEquality(t *testing.T) {
	out, err := run(t, `
enum Color {
    Red,
    Green,
    Blue,
}
let c: Color = Color::Green;
println("" + (c == Color::Green));
println("" + (c == Color::Red));
`)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "true\nfalse\n" {
		t.Fatalf("got %q", out)
	}
}
