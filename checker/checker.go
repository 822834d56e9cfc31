// Package checker runs the ontology syntax check: read a file, decode it with
// the RDF library, count what it declares, and report the outcome.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/c360studio/ontocheck/format"
	"github.com/c360studio/ontocheck/graph"
	"github.com/c360studio/ontocheck/vocabulary/owl"
)

// State is the position of a single check in its lifecycle.
type State string

const (
	StateNotStarted       State = "not_started"
	StateFileMissing      State = "file_missing"
	StateParseError       State = "parse_error"
	StateUnexpected       State = "unexpected"
	StateSuccessEmpty     State = "success_empty"
	StateSuccessPopulated State = "success_populated"
)

// Parsed reports whether the decoder accepted the input.
func (s State) Parsed() bool {
	return s == StateSuccessEmpty || s == StateSuccessPopulated
}

// Report holds the statistics of a successfully parsed ontology.
type Report struct {
	Path               string        `json:"path"`
	Format             format.Format `json:"format"`
	Triples            int           `json:"triples"`
	Classes            int           `json:"classes"`
	DatatypeProperties int           `json:"datatype_properties"`
	ObjectProperties   int           `json:"object_properties"`
	HasTriples         bool          `json:"has_triples"`
	ParseDuration      time.Duration `json:"-"`
}

// Count returns the number of subjects declared as the given kind.
func (r *Report) Count(kind owl.DeclarationKind) int {
	switch kind {
	case owl.KindClass:
		return r.Classes
	case owl.KindDatatypeProperty:
		return r.DatatypeProperties
	case owl.KindObjectProperty:
		return r.ObjectProperties
	default:
		return 0
	}
}

// Outcome is the result of checking one file.
type Outcome struct {
	Path   string
	Format format.Format
	State  State

	// Report is set whenever parsing succeeded, including the empty case.
	Report *Report

	// Err is nil only for StateSuccessPopulated.
	Err error

	RunID string
}

// Passed reports whether the check succeeded.
func (o Outcome) Passed() bool {
	return o.State == StateSuccessPopulated
}

// Options configures a Checker.
type Options struct {
	// Format forces a serialization; empty means detect from the extension.
	Format format.Format

	// Reporter receives progress and results. Defaults to a text reporter on stdout.
	Reporter Reporter

	Logger *slog.Logger
}

// Checker runs syntax checks. It holds no state between checks.
type Checker struct {
	format   format.Format
	reporter Reporter
	logger   *slog.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NewTextReporter(os.Stdout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		format:   opts.Format,
		reporter: reporter,
		logger:   logger,
	}
}

// Check parses path and reports the outcome. It makes a single attempt.
func (c *Checker) Check(ctx context.Context, path string) Outcome {
	f := format.Resolve(c.format, path)
	out := Outcome{
		Path:   path,
		Format: f,
		State:  StateNotStarted,
		RunID:  uuid.NewString(),
	}
	logger := c.logger.With("run_id", out.RunID, "path", path, "format", string(f))

	c.reporter.Start(path)
	c.run(ctx, &out, logger)
	c.reporter.Finish(out)

	if out.Passed() {
		logger.Info("Ontology check passed",
			"triples", out.Report.Triples,
			"classes", out.Report.Classes,
			"datatype_properties", out.Report.DatatypeProperties,
			"object_properties", out.Report.ObjectProperties)
	} else {
		logger.Info("Ontology check failed", "state", string(out.State), "error", out.Err)
	}
	return out
}

// CheckAll checks every path in order and prints the summary. It returns the
// outcomes and whether all of them passed. A summary that cannot be written
// fails the round.
func (c *Checker) CheckAll(ctx context.Context, paths []string) ([]Outcome, bool) {
	outcomes := make([]Outcome, 0, len(paths))
	passed := len(paths) > 0
	for _, p := range paths {
		o := c.Check(ctx, p)
		outcomes = append(outcomes, o)
		if !o.Passed() {
			passed = false
		}
	}
	if err := c.reporter.Summary(outcomes); err != nil {
		c.logger.Error("Failed to write report", "error", err)
		passed = false
	}
	return outcomes, passed
}

func (c *Checker) run(ctx context.Context, out *Outcome, logger *slog.Logger) {
	info, ok := format.Lookup(out.Format)
	if !ok {
		c.fail(out, StateUnexpected, unexpected(fmt.Errorf("unsupported format %q", out.Format)))
		return
	}

	if err := ctx.Err(); err != nil {
		c.fail(out, StateUnexpected, unexpected(err))
		return
	}

	data, err := readTarget(out.Path)
	if err != nil {
		state := StateUnexpected
		if errors.Is(err, ErrNotFound) {
			state = StateFileMissing
		}
		c.fail(out, state, err)
		return
	}

	// Turtle and N-Triples are UTF-8 only; RDF/XML declares its own encoding.
	if out.Format != format.RDFXML && !utf8.Valid(data) {
		c.fail(out, StateUnexpected, unexpected(fmt.Errorf("%s is not valid UTF-8", out.Path)))
		return
	}

	logger.Debug("Parsing ontology", "bytes", len(data))
	start := time.Now()
	g, err := graph.Parse(bytes.NewReader(data), info.Decoder)
	elapsed := time.Since(start)
	if err != nil {
		var de *graph.DecodeError
		if errors.As(err, &de) {
			c.fail(out, StateParseError, &SyntaxError{
				Path:   out.Path,
				Format: out.Format,
				Line:   de.Line,
				Column: de.Column,
				Err:    de.Err,
			})
			return
		}
		c.fail(out, StateUnexpected, unexpected(err))
		return
	}

	report := &Report{
		Path:          out.Path,
		Format:        out.Format,
		Triples:       g.Len(),
		HasTriples:    g.Len() > 0,
		ParseDuration: elapsed,
	}
	out.Report = report
	logger.Debug("Ontology parsed", "triples", report.Triples, "duration", elapsed)

	if !report.HasTriples {
		out.State = StateSuccessEmpty
		out.Err = ErrEmptyResult
		return
	}

	report.Classes = g.CountSubjects(owl.TypeIRI, owl.ClassIRI)
	report.DatatypeProperties = g.CountSubjects(owl.TypeIRI, owl.DatatypePropertyIRI)
	report.ObjectProperties = g.CountSubjects(owl.TypeIRI, owl.ObjectPropertyIRI)
	out.State = StateSuccessPopulated
}

func (c *Checker) fail(out *Outcome, state State, err error) {
	out.State = state
	out.Err = err
}

var utf8BOM = []byte("\xef\xbb\xbf")

// readTarget loads the whole file. Missing, unreadable and directory paths
// map to ErrNotFound; anything else to ErrUnexpected.
func readTarget(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, notFound(err)
		}
		return nil, unexpected(fmt.Errorf("stat %s: %w", path, err))
	}
	if st.IsDir() {
		return nil, notFound(fmt.Errorf("%s is a directory", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, notFound(err)
		}
		return nil, unexpected(fmt.Errorf("read %s: %w", path, err))
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}
