// Package host implements the built-in host functions available in every
// program's initial environment: I/O primitives and small runtime
// introspection, each wrapped as an oxide.Builtin the way the language's
// own functions are wrapped as oxide.Function values.
package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"oxide-lang.dev/oxide"
)

// Universe returns the standard set of host builtins bound to the given
// I/O streams: print/println to out, eprint/eprintln to errOut, and
// read_line reading from in.
func Universe(out, errOut io.Writer, in io.Reader) oxide.StringDict {
	reader := bufio.NewReader(in)
	return oxide.StringDict{
		"print":      oxide.NewBuiltin("print", printTo(out)),
		"println":    oxide.NewBuiltin("println", printlnTo(out)),
		"eprint":     oxide.NewBuiltin("eprint", printTo(errOut)),
		"eprintln":   oxide.NewBuiltin("eprintln", printlnTo(errOut)),
		"timestamp":  oxide.NewBuiltin("timestamp", timestamp),
		"read_line":  oxide.NewBuiltin("read_line", readLine(reader)),
		"file_write": oxide.NewBuiltin("file_write", fileWrite),
		"typeof":     oxide.NewBuiltin("typeof", typeOf),
	}
}

func requireArgs(name string, args []oxide.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func requireString(name string, v oxide.Value) (string, error) {
	s, ok := v.(oxide.String)
	if !ok {
		return "", fmt.Errorf("%s: expected str, got %s", name, v.Type())
	}
	return string(s), nil
}

func printTo(w io.Writer) oxide.BuiltinFunc {
	return func(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
		if err := requireArgs("print", args, 1); err != nil {
			return nil, err
		}
		msg, err := requireString("print", args[0])
		if err != nil {
			return nil, err
		}
		fmt.Fprint(w, msg)
		return oxide.None, nil
	}
}

func printlnTo(w io.Writer) oxide.BuiltinFunc {
	return func(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
		if err := requireArgs("println", args, 1); err != nil {
			return nil, err
		}
		msg, err := requireString("println", args[0])
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(w, msg)
		return oxide.None, nil
	}
}

func timestamp(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
	if err := requireArgs("timestamp", args, 0); err != nil {
		return nil, err
	}
	return oxide.Int(time.Now().Unix()), nil
}

func readLine(r *bufio.Reader) oxide.BuiltinFunc {
	return func(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
		if err := requireArgs("read_line", args, 0); err != nil {
			return nil, err
		}
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read_line: %w", err)
		}
		return oxide.String(strings.TrimRight(line, "\r\n")), nil
	}
}

func fileWrite(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
	if err := requireArgs("file_write", args, 2); err != nil {
		return nil, err
	}
	file, err := requireString("file_write", args[0])
	if err != nil {
		return nil, err
	}
	content, err := requireString("file_write", args[1])
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("file_write: %w", err)
	}
	return oxide.String(file), nil
}

func typeOf(t *oxide.Thread, args []oxide.Value) (oxide.Value, error) {
	if err := requireArgs("typeof", args, 1); err != nil {
		return nil, err
	}
	return oxide.String(args[0].Type()), nil
}
