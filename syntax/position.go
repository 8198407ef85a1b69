// Package syntax provides a scanner, parser, and abstract syntax tree for
// the oxide language.
package syntax

import "fmt"

// A Position describes the location of a rune of input.
type Position struct {
	file string // filename (indirected to save space)
	Line int32  // 1-based line number; 0 if line unknown
	Col  int32  // 1-based column (byte offset in the line); 0 if column unknown
}

// MakePosition returns a new position with the specified components.
func MakePosition(file string, line, col int32) Position {
	return Position{file, line, col}
}

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != "" {
		return p.file
	}
	return "<unknown>"
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != "" }

func (p Position) String() string {
	filename := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", filename, p.Line)
	}
	return filename
}

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := countNewlines(s); n > 0 {
		p.Line += int32(n)
		p.Col = 1 + int32(len(s)-lastNewline(s)-1)
	} else {
		p.Col += int32(len(s))
	}
	return p
}

func countNewlines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

func lastNewline(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			return i
		}
	}
	return -1
}

// Error is a static error (lex, parse, resolve, or type) reported with a
// source position.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// A Node is a node in an oxide syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of a node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of a node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}
