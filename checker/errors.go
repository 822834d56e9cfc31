package checker

import (
	"errors"
	"fmt"

	"github.com/c360studio/ontocheck/format"
)

// Failure kinds. Every failed Outcome carries an error matching exactly one
// of these with errors.Is.
var (
	// ErrNotFound is returned when the target does not exist, cannot be read,
	// or is a directory.
	ErrNotFound = errors.New("ontology file not found")

	// ErrSyntax is returned when the decoder rejects the input.
	ErrSyntax = errors.New("syntax error")

	// ErrEmptyResult is returned when the input parsed but held no triples.
	ErrEmptyResult = errors.New("no triples found in the ontology")

	// ErrUnexpected covers encoding errors, I/O errors and decoder panics.
	ErrUnexpected = errors.New("unexpected error")
)

// SyntaxError describes input the decoder rejected.
type SyntaxError struct {
	Path   string
	Format format.Format

	// Line and Column are 1-based, or zero when the decoder gave no position.
	Line   int
	Column int

	Err error
}

func (e *SyntaxError) Error() string {
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is reports ErrSyntax as a match so callers need not know the concrete type.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func notFound(err error) error {
	return fmt.Errorf("%w: %w", ErrNotFound, err)
}

func unexpected(err error) error {
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}
