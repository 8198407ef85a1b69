package resolve_test

import (
	"path/filepath"
	"testing"

	"oxide-lang.dev/oxide/internal/chunkedfile"
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

// TestResolve runs every chunk of testdata/resolve.ox through the parser
// and resolver, checking that the errors produced (if any) land on the
// lines and match the patterns the chunk's "### " comments declare.
func TestResolve(t *testing.T) {
	filename := filepath.Join("testdata", "resolve.ox")
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, []byte(chunk.Source))
		if err != nil {
			if se, ok := err.(*syntax.Error); ok {
				chunk.GotError(int(se.Pos.Line), se.Msg)
				chunk.Done()
				continue
			}
			t.Error(err)
			continue
		}
		if _, err := resolve.Resolve(f); err != nil {
			if se, ok := err.(*syntax.Error); ok {
				chunk.GotError(int(se.Pos.Line), se.Msg)
			} else {
				t.Errorf("%s: %v", filename, err)
			}
		}
		chunk.Done()
	}
}

// TestResolveSequentialLet checks that a later top-level statement sees an
// earlier let binding's declared type, the property the REPL depends on to
// resolve its whole accumulated session on every input line.
func TestResolveSequentialLet(t *testing.T) {
	src := "let x: int = 1;\nlet y: int = x + 1;\n"
	f, err := syntax.Parse("t.ox", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolve.Resolve(f); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

// TestResolveStructImpl checks that a struct's methods and constants
// resolve against the struct's own fields and Self type.
func TestResolveStructImpl(t *testing.T) {
	src := `
struct Point {
    x: int,
    y: int,
}

impl Point {
    const ORIGIN = 0;

    pub fn sum(self) -> int {
        return self.x + self.y;
    }
}

let p: Point = Point { x: 1, y: 2 };
let total: int = p.sum();
`
	f, err := syntax.Parse("t.ox", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolve.Resolve(f); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestResolveUndefinedType(t *testing.T) {
	src := "let x: Bogus = 1;\n"
	f, err := syntax.Parse("t.ox", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolve.Resolve(f); err == nil {
		t.Fatal("want error for undefined type, got nil")
	}
}
