package ftd

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAlias            = errors.New("unknown alias")
	ErrNoSuchContainer         = errors.New("no such container")
	ErrMissingDefault          = errors.New("missing default")
	ErrInvalidInstructionShape = errors.New("invalid instruction shape")
	ErrNotFound                = errors.New("not found")
	ErrWrongKind               = errors.New("wrong kind")
	ErrInvalidInstruction      = errors.New("invalid instruction")
	ErrInvalidValue            = errors.New("invalid value")
)

// Error is a compile failure positioned at a line of a document.
// It unwraps to one of the sentinel errors above.
type Error struct {
	Phase  string
	Doc    string
	Line   int
	Err    error
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("phase=%s doc=%s line=%d: %v", e.Phase, e.Doc, e.Line, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Position is the document and line the error points at.
func (e *Error) Position() (string, int) { return e.Doc, e.Line }

func newError(phase, doc string, line int, err error, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Doc:    doc,
		Line:   line,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
