package graph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrDecoderPanic is returned when the RDF decoder panics on its input.
var ErrDecoderPanic = errors.New("rdf decoder panicked")

// ErrNoRootElement is returned for RDF/XML input that holds no XML element.
var ErrNoRootElement = errors.New("XML syntax error: no root element")

// DecodeError is a rejection of the input by the RDF decoder.
type DecodeError struct {
	// Line and Column are 1-based, or zero when the decoder gave no position.
	Line   int
	Column int
	Err    error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ReadError is a failure of the reader feeding the decoder.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// positionPattern matches the "line:col" prefix used in decoder messages.
var positionPattern = regexp.MustCompile(`^(\d+):(\d+)`)

func newDecodeError(err error) *DecodeError {
	de := &DecodeError{Err: err}
	var xe *xml.SyntaxError
	if errors.As(err, &xe) {
		de.Line = xe.Line
		return de
	}
	if m := positionPattern.FindStringSubmatch(err.Error()); m != nil {
		de.Line, _ = strconv.Atoi(m[1])
		de.Column, _ = strconv.Atoi(m[2])
	}
	return de
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("%w: %w", ErrDecoderPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrDecoderPanic, rec)
}
