// Package format describes the RDF serializations the checker can decode.
package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Format identifies an RDF serialization.
type Format string

const (
	// Turtle is the Terse RDF Triple Language (.ttl).
	Turtle Format = "turtle"

	// NTriples is the line-based N-Triples format (.nt).
	NTriples Format = "ntriples"

	// RDFXML is the RDF/XML format (.rdf, .owl).
	RDFXML Format = "rdfxml"
)

// Info provides metadata about a format.
type Info struct {
	// Name is the format identifier.
	Name Format

	// DisplayName is used in diagnostics ("Turtle syntax error").
	DisplayName string

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions are the file extensions (with dot) that select the format.
	Extensions []string

	// Decoder is the decoder format passed to the RDF library.
	Decoder rdf.Format
}

// Registry contains metadata for all supported formats.
var Registry = map[Format]Info{
	Turtle: {
		Name:        Turtle,
		DisplayName: "Turtle",
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Decoder:     rdf.Turtle,
	},
	NTriples: {
		Name:        NTriples,
		DisplayName: "N-Triples",
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Decoder:     rdf.NTriples,
	},
	RDFXML: {
		Name:        RDFXML,
		DisplayName: "RDF/XML",
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".rdf", ".owl"},
		Decoder:     rdf.RDFXML,
	},
}

// Lookup returns metadata for a format.
func Lookup(f Format) (Info, bool) {
	info, ok := Registry[f]
	return info, ok
}

// Parse converts a user-supplied name to a Format. Matching is case-insensitive
// and accepts the MIME type as well as the identifier.
func Parse(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, info := range Registry {
		if n == string(f) || n == info.MIMEType {
			return f, nil
		}
	}
	switch n {
	case "ttl":
		return Turtle, nil
	case "nt", "n-triples":
		return NTriples, nil
	case "xml", "rdf/xml":
		return RDFXML, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Detect picks a format from the file extension, falling back to Turtle.
func Detect(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for f, info := range Registry {
		for _, e := range info.Extensions {
			if e == ext {
				return f
			}
		}
	}
	return Turtle
}

// Resolve returns explicit when set, otherwise the format detected from path.
func Resolve(explicit Format, path string) Format {
	if explicit != "" {
		return explicit
	}
	return Detect(path)
}

// Names returns the sorted format identifiers.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for f := range Registry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// String returns the display name, or the identifier for unknown formats.
func (f Format) String() string {
	if info, ok := Registry[f]; ok {
		return info.DisplayName
	}
	return string(f)
}
