package resolve

import (
	"strings"

	"oxide-lang.dev/oxide/syntax"
)

// Error is a resolve-time or type-time static error.
type Error = syntax.Error

// ErrorList is a list of static errors. Resolve does not build one: it
// stops at the first error it finds and returns that single *Error.
type ErrorList []*Error

func (e ErrorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// First returns the first error, or nil if the list is empty.
func (e ErrorList) First() *Error {
	if len(e) == 0 {
		return nil
	}
	return e[0]
}
