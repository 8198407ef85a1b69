package host_test

import (
	"bytes"
	"strings"
	"testing"

	"oxide-lang.dev/oxide"
	"oxide-lang.dev/oxide/lib/host"
)

func call(t *testing.T, name string, out, errOut *bytes.Buffer, in *strings.Reader, args ...oxide.Value) (oxide.Value, error) {
	t.Helper()
	u := host.Universe(out, errOut, in)
	fn, ok := u[name].(oxide.Callable)
	if !ok {
		t.Fatalf("no builtin named %q", name)
	}
	return fn.CallOxide(&oxide.Thread{Name: "test"}, args)
}

func TestPrintWritesWithoutNewline(t *testing.T) {
	var out, errOut bytes.Buffer
	if _, err := call(t, "print", &out, &errOut, strings.NewReader(""), oxide.String("hi")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi" {
		t.Fatalf("got %q", out.String())
	}
}

func TestPrintlnAppendsNewline(t *testing.T) {
	var out, errOut bytes.Buffer
	if _, err := call(t, "println", &out, &errOut, strings.NewReader(""), oxide.String("hi")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestEprintlnWritesToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	if _, err := call(t, "eprintln", &out, &errOut, strings.NewReader(""), oxide.String("oops")); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 || errOut.String() != "oops\n" {
		t.Fatalf("out=%q errOut=%q", out.String(), errOut.String())
	}
}

func TestReadLineStripsNewline(t *testing.T) {
	var out, errOut bytes.Buffer
	v, err := call(t, "read_line", &out, &errOut, strings.NewReader("hello world\nmore\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v != oxide.String("hello world") {
		t.Fatalf("got %v", v)
	}
}

func TestTimestampReturnsInt(t *testing.T) {
	var out, errOut bytes.Buffer
	v, err := call(t, "timestamp", &out, &errOut, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(oxide.Int); !ok {
		t.Fatalf("got %T, want oxide.Int", v)
	}
}

func TestFileWriteReturnsFilename(t *testing.T) {
	var out, errOut bytes.Buffer
	dir := t.TempDir()
	path := dir + "/greeting.txt"
	v, err := call(t, "file_write", &out, &errOut, strings.NewReader(""), oxide.String(path), oxide.String("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if v != oxide.String(path) {
		t.Fatalf("got %v", v)
	}
}

func TestTypeofReportsRuntimeType(t *testing.T) {
	var out, errOut bytes.Buffer
	cases := []struct {
		v    oxide.Value
		want string
	}{
		{oxide.Int(1), "int"},
		{oxide.Float(1.5), "float"},
		{oxide.Bool(true), "bool"},
		{oxide.String("s"), "str"},
		{oxide.None, "nil"},
	}
	for _, c := range cases {
		v, err := call(t, "typeof", &out, &errOut, strings.NewReader(""), c.v)
		if err != nil {
			t.Fatal(err)
		}
		if v != oxide.String(c.want) {
			t.Fatalf("typeof(%v) = %v, want %v", c.v, v, c.want)
		}
	}
}

func TestPrintWrongArgCountIsError(t *testing.T) {
	var out, errOut bytes.Buffer
	if _, err := call(t, "print", &out, &errOut, strings.NewReader(""), oxide.String("a"), oxide.String("b")); err == nil {
		t.Fatal("want error for wrong argument count")
	}
}
