package oxide

import (
	"bytes"
	"fmt"

	"oxide-lang.dev/oxide/syntax"
)

// errf builds a plain runtime error. Positional detail is added by the
// caller via Frame.errorf once a call stack exists; bare runtime helpers
// (Environment, Vector) use errf since they have no frame of their own.
func errf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Thread carries the state of one evaluation: a name, the currently
// executing call stack, and a bag of caller-defined locals
// (used, for instance, to thread a cancellation context into the REPL).
type Thread struct {
	Name string

	frame *Frame

	locals map[string]interface{}
}

// SetLocal associates a value with a key in the thread's local storage.
func (t *Thread) SetLocal(key string, value interface{}) {
	if t.locals == nil {
		t.locals = make(map[string]interface{})
	}
	t.locals[key] = value
}

// Local returns the value associated with key, or nil if unset.
func (t *Thread) Local(key string) interface{} {
	return t.locals[key]
}

// Caller returns the frame of the function that called into the thread's
// currently executing function, or nil at the top of the stack.
func (t *Thread) Caller() *Frame { return t.frame }

// pushFrame returns a new Frame linked to the thread's current top and
// installs it as the new top; the caller must call popFrame when done.
func (t *Thread) pushFrame(pos syntax.Position, fnName string) *Frame {
	fr := &Frame{thread: t, parent: t.frame, posn: pos, fnName: fnName}
	t.frame = fr
	return fr
}

func (t *Thread) popFrame() { t.frame = t.frame.parent }

// Frame records one call's position and function name for error backtraces.
type Frame struct {
	thread *Thread
	parent *Frame
	posn   syntax.Position
	fnName string
}

// Position returns the current source position within this frame.
func (fr *Frame) Position() syntax.Position { return fr.posn }

// SetPosition updates the frame's current source position as evaluation
// proceeds through the function body; used so an error raised deep inside
// an expression reports the innermost position, not the call site.
func (fr *Frame) SetPosition(pos syntax.Position) { fr.posn = pos }

// Parent returns the caller's frame, or nil at the top of the stack.
func (fr *Frame) Parent() *Frame { return fr.parent }

// Function returns the name of the function executing in this frame, or
// "<toplevel>" for the outermost frame.
func (fr *Frame) Function() string {
	if fr.fnName == "" {
		return "<toplevel>"
	}
	return fr.fnName
}

// errorf raises an EvalError positioned at fr with the current call stack
// attached for Backtrace.
func (fr *Frame) errorf(pos syntax.Position, format string, args ...interface{}) *EvalError {
	fr.posn = pos
	return &EvalError{Msg: fmt.Sprintf(format, args...), Frame: fr}
}

// EvalError is a runtime error raised during execution, carrying the call
// stack active at the point of failure.
type EvalError struct {
	Msg   string
	Frame *Frame
}

func (e *EvalError) Error() string { return e.Msg }

// Backtrace renders the call stack active when e was raised, outermost
// frame first, e.g.:
//
//	Traceback (most recent call last):
//	  program.ox:3:10: in <toplevel>
//	  program.ox:1:1: in fib
//	error: division by zero
func (e *EvalError) Backtrace() string {
	var buf bytes.Buffer
	buf.WriteString("Traceback (most recent call last):\n")
	e.Frame.writeBacktrace(&buf)
	fmt.Fprintf(&buf, "error: %s", e.Msg)
	return buf.String()
}

func (fr *Frame) writeBacktrace(buf *bytes.Buffer) {
	if fr == nil {
		return
	}
	fr.parent.writeBacktrace(buf)
	fmt.Fprintf(buf, "  %s: in %s\n", fr.posn, fr.Function())
}

// Stack returns the active frames, innermost first.
func (e *EvalError) Stack() []*Frame {
	var stack []*Frame
	for fr := e.Frame; fr != nil; fr = fr.parent {
		stack = append(stack, fr)
	}
	return stack
}
