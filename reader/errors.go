package reader

import (
	"errors"
	"fmt"
)

var ErrExhausted = errors.New("source exhausted")
var ErrClosed = errors.New("reader closed")

// SetupError is a configuration-time failure: unopenable source,
// missing required column, wrong geometry kind. There is no valid
// reader behind one of these; an embedding caller decides whether to
// surface it or terminate, and the CLI terminates.
type SetupError struct {
	Source string
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("reader setup %s: %v", e.Source, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// FieldError is a per-record failure: a field that would not parse.
// It fails the one read call that hit it; the reader is positioned
// past the bad record and remains usable and closable.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: field %s=%q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
