package parser

import (
	"errors"
	"fmt"
)

var (
	ErrTerminatorNotFound = errors.New("terminator not found")
	ErrNotAtEndOfLine     = errors.New("terminator not at end of line")
	ErrUnbalanced         = errors.New("unbalanced braces")
	ErrUnrecognised       = errors.New("unrecognised construct")
	ErrInvalidEmbedded    = errors.New("invalid embedded item")
	ErrMalformedDoWhile   = errors.New("malformed do-while")
)

// ParseError locates a fatal structural error in a source file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MultiStatementError flags a construct header holding several
// comma-separated statements where one condition was expected. It is
// recorded as a problem of the file and does not stop parsing.
type MultiStatementError struct {
	File      string
	Line      int
	Construct Kind
	Condition string
}

func (e *MultiStatementError) Error() string {
	return fmt.Sprintf("%s:%d: multi-statement %s condition: %s", e.File, e.Line, e.Construct, e.Condition)
}
