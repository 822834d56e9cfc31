// Package graph holds the in-memory RDF graph a check runs its queries against.
//
// Decoding is delegated to github.com/knakk/rdf. The graph only stores the
// decoded statements with set semantics and answers the two questions the
// checker asks: how many distinct triples are there, and which subjects carry
// a given (predicate, object) pair.
package graph

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/knakk/rdf"
)

// Graph is an immutable set of triples.
type Graph struct {
	triples []rdf.Triple

	// byPredObj indexes subject keys by predicate and IRI object.
	byPredObj map[string]map[string]map[string]struct{}
}

// New builds a graph from decoded triples, dropping duplicates.
func New(triples []rdf.Triple) *Graph {
	g := &Graph{
		triples:   make([]rdf.Triple, 0, len(triples)),
		byPredObj: make(map[string]map[string]map[string]struct{}),
	}

	seen := make(map[string]struct{}, len(triples))
	for _, tr := range triples {
		key := tr.Serialize(rdf.NTriples)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.triples = append(g.triples, tr)
		g.index(tr)
	}
	return g
}

func (g *Graph) index(tr rdf.Triple) {
	if tr.Obj.Type() != rdf.TermIRI {
		return
	}
	pred := tr.Pred.String()
	obj := tr.Obj.String()

	objs, ok := g.byPredObj[pred]
	if !ok {
		objs = make(map[string]map[string]struct{})
		g.byPredObj[pred] = objs
	}
	subjects, ok := objs[obj]
	if !ok {
		subjects = make(map[string]struct{})
		objs[obj] = subjects
	}
	subjects[tr.Subj.Serialize(rdf.NTriples)] = struct{}{}
}

// Parse decodes every statement from r in the given serialization.
//
// Decoder rejections are returned as *DecodeError. Failures of r itself are
// returned as *ReadError, and a panic inside the decoder as ErrDecoderPanic.
// RDF/XML input without a root element is rejected with ErrNoRootElement,
// since the decoder treats it as an empty document.
func Parse(r io.Reader, f rdf.Format) (g *Graph, err error) {
	tr := &trackingReader{r: r}

	defer func() {
		if rec := recover(); rec != nil {
			g = nil
			err = panicError(rec)
		}
	}()

	var src io.Reader = tr
	if f == rdf.RDFXML {
		data, rerr := io.ReadAll(tr)
		if rerr != nil {
			return nil, &ReadError{Err: rerr}
		}
		if xerr := findRootElement(data); xerr != nil {
			return nil, newDecodeError(xerr)
		}
		src = bytes.NewReader(data)
	}

	dec := rdf.NewTripleDecoder(src, f)
	var triples []rdf.Triple
	for {
		t, derr := dec.Decode()
		if derr == io.EOF {
			break
		}
		if derr != nil {
			if tr.err != nil {
				return nil, &ReadError{Err: tr.err}
			}
			return nil, newDecodeError(derr)
		}
		triples = append(triples, t)
	}
	if tr.err != nil {
		return nil, &ReadError{Err: tr.err}
	}

	return New(triples), nil
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// CountSubjects returns the number of distinct subjects s for which
// (s, predicate, object) is in the graph. predicate and object are full IRIs.
func (g *Graph) CountSubjects(predicate, object string) int {
	return len(g.byPredObj[predicate][object])
}

// findRootElement scans XML input up to its first element.
func findRootElement(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	// Only element boundaries matter here, so any declared charset is read as-is.
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return ErrNoRootElement
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			return nil
		}
	}
}

// trackingReader remembers the first non-EOF error of the underlying reader so
// I/O failures can be told apart from syntax errors.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
