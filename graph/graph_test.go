package graph

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rdfType  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	owlClass = "http://www.w3.org/2002/07/owl#Class"
)

const sportsTurtle = `@prefix ex: <http://example.org/sports#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:Athlete a owl:Class ;
    rdfs:label "Athlete" .

ex:Team a owl:Class .

ex:memberOf a owl:ObjectProperty ;
    rdfs:domain ex:Athlete ;
    rdfs:range ex:Team .
`

func TestParseTurtle(t *testing.T) {
	g, err := Parse(strings.NewReader(sportsTurtle), rdf.Turtle)
	require.NoError(t, err)

	assert.Equal(t, 6, g.Len())
	assert.Equal(t, 2, g.CountSubjects(rdfType, owlClass))
	assert.Equal(t, 1, g.CountSubjects(rdfType, "http://www.w3.org/2002/07/owl#ObjectProperty"))
	assert.Zero(t, g.CountSubjects(rdfType, "http://www.w3.org/2002/07/owl#DatatypeProperty"))
}

func TestParseDuplicatesCollapse(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:a ex:p ex:b .
ex:a ex:p ex:b .
ex:a ex:p ex:b , ex:c .
`
	g, err := Parse(strings.NewReader(input), rdf.Turtle)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"comments only", "# nothing here\n"},
		{"prefixes only", "@prefix ex: <http://example.org/> .\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(strings.NewReader(tt.input), rdf.Turtle)
			require.NoError(t, err)
			assert.Zero(t, g.Len())
			assert.Zero(t, g.CountSubjects(rdfType, owlClass))
		})
	}
}

func TestParseNTriples(t *testing.T) {
	input := "<http://example.org/A> <" + rdfType + "> <" + owlClass + "> .\n"
	g, err := Parse(strings.NewReader(input), rdf.NTriples)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, g.CountSubjects(rdfType, owlClass))
}

func TestParseSubjectsAreDistinct(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
ex:A a owl:Class .
ex:A a owl:Class , owl:Thing .
_:b a owl:Class .
`
	g, err := Parse(strings.NewReader(input), rdf.Turtle)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.CountSubjects(rdfType, owlClass))
}

const declarationsXML = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
         xmlns:owl="http://www.w3.org/2002/07/owl#">
  <owl:Class rdf:about="http://example.org/sports#Athlete"/>
  <owl:DatatypeProperty rdf:about="http://example.org/sports#name"/>
  <owl:ObjectProperty rdf:about="http://example.org/sports#coaches">
    <rdfs:domain rdf:resource="http://example.org/sports#Athlete"/>
  </owl:ObjectProperty>
</rdf:RDF>
`

func TestParseRDFXML(t *testing.T) {
	g, err := Parse(strings.NewReader(declarationsXML), rdf.RDFXML)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 1, g.CountSubjects(rdfType, owlClass))
	assert.Equal(t, 1, g.CountSubjects(rdfType, "http://www.w3.org/2002/07/owl#DatatypeProperty"))
	assert.Equal(t, 1, g.CountSubjects(rdfType, "http://www.w3.org/2002/07/owl#ObjectProperty"))
}

const truncatedXML = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#">
  <owl:Class rdf:about="http://example.org/sports#Athlete">
`

func TestParseRDFXMLRejected(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		noRoot bool
	}{
		{"plain text", "this is not xml at all\n", true},
		{"empty", "", true},
		{"declaration only", "<?xml version=\"1.0\"?>\n<!-- nothing -->\n", true},
		{"truncated", truncatedXML, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(strings.NewReader(tt.input), rdf.RDFXML)
			require.Error(t, err)
			assert.Nil(t, g)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "expected *DecodeError, got %T", err)
			if tt.noRoot {
				assert.ErrorIs(t, err, ErrNoRootElement)
			} else {
				assert.NotErrorIs(t, err, ErrNoRootElement)
			}
		})
	}
}

func TestParseRDFXMLReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(strings.NewReader("<?xml version=\"1.0\"?>\n"), iotest.ErrReader(boom))

	_, err := Parse(r, rdf.RDFXML)

	var re *ReadError
	require.True(t, errors.As(err, &re), "expected *ReadError, got %T", err)
	assert.ErrorIs(t, err, boom)
}

func TestParseSyntaxError(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:a ex:label "unterminated .
ex:b ex:label "fine" .
`
	g, err := Parse(strings.NewReader(input), rdf.Turtle)
	require.Error(t, err)
	assert.Nil(t, g)

	var de *DecodeError
	require.True(t, errors.As(err, &de), "expected *DecodeError, got %T", err)
	assert.NotEmpty(t, de.Error())
}

func TestParseReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(
		strings.NewReader("@prefix ex: <http://example.org/> .\n"),
		iotest.ErrReader(boom),
	)

	_, err := Parse(r, rdf.Turtle)
	require.Error(t, err)

	var re *ReadError
	require.True(t, errors.As(err, &re), "expected *ReadError, got %T", err)
	assert.ErrorIs(t, err, boom)
}

func TestLiteralObjectsNotIndexed(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:a ex:p "http://example.org/b" .
`
	g, err := Parse(strings.NewReader(input), rdf.Turtle)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Zero(t, g.CountSubjects("http://example.org/p", "http://example.org/b"))
}

func TestNewDecodeErrorPosition(t *testing.T) {
	de := newDecodeError(errors.New("12:7: unexpected token"))
	assert.Equal(t, 12, de.Line)
	assert.Equal(t, 7, de.Column)

	de = newDecodeError(fmt.Errorf("decode: %w", &xml.SyntaxError{Msg: "unexpected EOF", Line: 4}))
	assert.Equal(t, 4, de.Line)
	assert.Zero(t, de.Column)

	de = newDecodeError(errors.New("unexpected EOF"))
	assert.Zero(t, de.Line)
	assert.Zero(t, de.Column)
}

func TestPanicError(t *testing.T) {
	err := panicError("index out of range")
	assert.ErrorIs(t, err, ErrDecoderPanic)
	assert.Contains(t, err.Error(), "index out of range")

	inner := errors.New("nil map")
	err = panicError(inner)
	assert.ErrorIs(t, err, ErrDecoderPanic)
	assert.ErrorIs(t, err, inner)
}
