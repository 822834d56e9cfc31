package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/ontocheck/vocabulary/owl"
)

// Reporter renders check progress and results.
type Reporter interface {
	// Begin is called once per process before any check.
	Begin()
	// Start is called before a file is parsed.
	Start(path string)
	// Finish is called with the outcome of a single file.
	Finish(o Outcome)
	// Summary is called after a round of checks.
	Summary(outcomes []Outcome) error
}

const bannerTitle = "🧪 Ontology Syntax Checker"

// TextReporter writes the human-oriented console report.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Begin() {
	fmt.Fprintln(r.w, bannerTitle)
	fmt.Fprintln(r.w, strings.Repeat("=", 55))
}

func (r *TextReporter) Start(path string) {
	fmt.Fprintf(r.w, "🔍 Parsing %s...\n", path)
}

func (r *TextReporter) Finish(o Outcome) {
	if o.Report != nil {
		fmt.Fprintf(r.w, "✅ Successfully parsed %d triples\n", o.Report.Triples)
	}

	switch o.State {
	case StateSuccessPopulated:
		fmt.Fprintln(r.w, "📊 Ontology statistics:")
		fmt.Fprintf(r.w, "   - Total triples: %d\n", o.Report.Triples)
		for _, kind := range owl.DeclarationKinds() {
			fmt.Fprintf(r.w, "   - %s: %d\n", kind.Label(), o.Report.Count(kind))
		}
	case StateSuccessEmpty:
		fmt.Fprintln(r.w, "⚠️  Warning: No triples found in the ontology")
	case StateParseError:
		fmt.Fprintf(r.w, "❌ %s syntax error: %v\n", o.Format, o.Err)
	case StateFileMissing:
		fmt.Fprintf(r.w, "❌ File not found: %s\n", o.Path)
	default:
		fmt.Fprintf(r.w, "❌ Unexpected error: %s\n", detail(o.Err, ErrUnexpected))
	}
}

func (r *TextReporter) Summary(outcomes []Outcome) error {
	failed := 0
	for _, o := range outcomes {
		if !o.Passed() {
			failed++
		}
	}

	fmt.Fprintln(r.w)
	switch {
	case len(outcomes) == 0:
		fmt.Fprintln(r.w, "💥 Checks failed! No ontology files were checked.")
	case failed == 0 && len(outcomes) == 1:
		fmt.Fprintf(r.w, "🎉 All checks passed! The ontology has valid %s syntax.\n", outcomes[0].Format)
	case failed == 0:
		fmt.Fprintf(r.w, "🎉 All checks passed! %d ontologies have valid syntax.\n", len(outcomes))
	case len(outcomes) == 1:
		fmt.Fprintln(r.w, "💥 Checks failed! Please check the ontology syntax.")
	default:
		fmt.Fprintf(r.w, "💥 Checks failed! %d of %d ontologies did not pass. Please check the ontology syntax.\n",
			failed, len(outcomes))
	}
	return nil
}

// detail strips the kind prefix from a wrapped failure message.
func detail(err, kind error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

// JSONReporter writes one JSON document per round of checks.
type JSONReporter struct {
	enc *json.Encoder
}

// NewJSONReporter creates a JSONReporter writing to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONReporter{enc: enc}
}

// JSONResult is the per-file entry of a JSON report.
type JSONResult struct {
	Path   string  `json:"path"`
	Format string  `json:"format"`
	State  State   `json:"state"`
	Passed bool    `json:"passed"`
	Error  string  `json:"error,omitempty"`
	Report *Report `json:"report,omitempty"`
}

// JSONSummary is the document written by JSONReporter.
type JSONSummary struct {
	Passed  bool         `json:"passed"`
	Results []JSONResult `json:"results"`
}

func (r *JSONReporter) Begin()            {}
func (r *JSONReporter) Start(path string) {}
func (r *JSONReporter) Finish(o Outcome)  {}

func (r *JSONReporter) Summary(outcomes []Outcome) error {
	doc := JSONSummary{
		Passed:  len(outcomes) > 0,
		Results: make([]JSONResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		res := JSONResult{
			Path:   o.Path,
			Format: string(o.Format),
			State:  o.State,
			Passed: o.Passed(),
			Report: o.Report,
		}
		if o.Err != nil {
			res.Error = o.Err.Error()
		}
		if !res.Passed {
			doc.Passed = false
		}
		doc.Results = append(doc.Results, res)
	}
	if err := r.enc.Encode(doc); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}
