// The oxide command interprets an oxide source file.
// With no arguments, it starts a read-eval-print loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"golang.org/x/term"

	"oxide-lang.dev/oxide"
	"oxide-lang.dev/oxide/lib/host"
	"oxide-lang.dev/oxide/repl"
	"oxide-lang.dev/oxide/resolve"
	"oxide-lang.dev/oxide/syntax"
)

const versionString = "oxide 0.1.0"

var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog   = flag.String("c", "", "execute program `prog`")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("oxide: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		check(pprof.StartCPUProfile(f))
		defer pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			check(pprof.Lookup("heap").WriteTo(f, 0))
			check(f.Close())
		}()
	}

	switch {
	case flag.NArg() == 1 && flag.Arg(0) == "version":
		fmt.Println(versionString)
		return 0

	case flag.NArg() == 1 || *execprog != "":
		var (
			filename string
			src      []byte
			err      error
		)
		if *execprog != "" {
			filename = "cmdline"
			src = []byte(*execprog)
		} else {
			filename = flag.Arg(0)
			src, err = os.ReadFile(filename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "oxide: %v\n", err)
				return 2
			}
		}
		return runSource(filename, src)

	case flag.NArg() == 0:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Println(versionString)
		}
		universe := host.Universe(os.Stdout, os.Stderr, os.Stdin).ToUniverse()
		thread := &oxide.Thread{Name: "REPL"}
		repl.REPL(thread, universe)
		return 0

	default:
		log.Print("want at most one file name")
		return 1
	}
}

// runSource parses, resolves, and executes one file, returning the process
// exit code: 0 on normal termination, 2 on a compile-time (lex/parse/
// resolve/type) error, 1 on a runtime error.
func runSource(filename string, src []byte) int {
	f, err := syntax.Parse(filename, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	prog, err := resolve.Resolve(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	universe := host.Universe(os.Stdout, os.Stderr, os.Stdin).ToUniverse()
	interp := oxide.NewInterp(prog, universe)
	thread := &oxide.Thread{Name: "exec " + filename}
	if err := interp.ExecFile(thread); err != nil {
		if ee, ok := err.(*oxide.EvalError); ok {
			fmt.Fprintln(os.Stderr, ee.Backtrace())
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return 1
	}
	return 0
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
