// Package repl provides a read/eval/print loop for oxide.
//
// It supports readline-style command editing and interrupts through
// Control-C. Each line is parsed as either a bare expression, which is
// evaluated and printed, or a sequence of declarations/statements, which
// are executed for effect; the top-level environment persists between
// inputs. Every input re-resolves the whole session's accumulated
// declarations, so that later lines see earlier functions, structs, and
// constants, but executes only the declarations that input added.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"oxide-lang.dev/oxide"
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

// lineReader abstracts over readline's interactive editor and a plain
// scanner, so piping a script into "oxide" on stdin (as CI and tests do)
// works without readline's raw-mode terminal requirements.
type lineReader interface {
	Readline() (string, error)
}

// scannerReader adapts a bufio.Scanner to the lineReader interface for
// non-interactive input.
type scannerReader struct{ sc *bufio.Scanner }

func (r *scannerReader) Readline() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

var interrupted = make(chan os.Signal, 1)

// session holds the state that persists across REPL lines: the growing
// list of parsed top-level declarations (re-resolved as a whole on every
// line, since the resolver has no incremental mode) and the runtime
// environment they execute against.
type session struct {
	decls []syntax.Decl
	env   *oxide.Environment
}

// REPL runs a read-eval-print loop against thread, whose global
// environment is seeded with universe and persists across every line.
func REPL(thread *oxide.Thread, universe map[string]oxide.Value) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	var rl lineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		editor, err := readline.New(">>> ")
		if err != nil {
			PrintError(err)
			return
		}
		defer editor.Close()
		rl = editor
	} else {
		rl = &scannerReader{sc: bufio.NewScanner(os.Stdin)}
	}

	env := oxide.NewEnvironment(nil)
	for name, v := range universe {
		env.Define(name, &oxide.Cell{Mut: false, Value: v, Type: nil})
	}
	sess := &session{env: env}

	for {
		if err := rep(rl, thread, sess); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break // EOF
		}
	}
	fmt.Println()
}

// rep reads, evaluates, and prints one REPL line. It returns a non-nil
// error only when readline itself fails (EOF or Ctrl-C); errors raised by
// resolving or executing the input are printed and swallowed so the
// session continues.
func rep(rl lineReader, thread *oxide.Thread, sess *session) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()
	thread.SetLocal("context", ctx)

	line, err := rl.Readline()
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}

	expr, newDecls, err := syntax.ParseExprOrStmts("<stdin>", []byte(line))
	if err != nil {
		PrintError(err)
		return nil
	}
	if expr == nil && newDecls == nil {
		return nil
	}
	if expr != nil {
		newDecls = []syntax.Decl{&syntax.StmtDecl{Stmt: &syntax.ExprStmt{X: expr}}}
	}

	candidate := append(append([]syntax.Decl{}, sess.decls...), newDecls...)
	prog, err := resolve.Resolve(&syntax.File{Path: "<stdin>", Decls: candidate})
	if err != nil {
		PrintError(err)
		return nil
	}

	interp := &oxide.Interp{Prog: prog, Global: sess.env}
	if expr != nil {
		v, err := interp.EvalExpr(thread, expr)
		if err != nil {
			PrintError(err)
			return nil
		}
		sess.decls = candidate
		if _, isNil := v.(oxide.Nil); !isNil {
			fmt.Println(v.String())
		}
		return nil
	}

	if err := interp.ExecDecls(thread, newDecls); err != nil {
		PrintError(err)
		return nil
	}
	sess.decls = candidate
	return nil
}

// PrintError prints err to standard error, giving a backtrace for errors
// raised by the evaluator.
func PrintError(err error) {
	if ee, ok := err.(*oxide.EvalError); ok {
		fmt.Fprintln(os.Stderr, ee.Backtrace())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
