package ontology

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

// RDF, RDFS and OWL terms used to express axioms.
var (
	RDFType  = mustIRI(ccf.RDFNamespace + "type")
	RDFFirst = mustIRI(ccf.RDFNamespace + "first")
	RDFRest  = mustIRI(ccf.RDFNamespace + "rest")
	RDFNil   = mustIRI(ccf.RDFNamespace + "nil")

	RDFSLabel         = mustIRI(ccf.RDFSNamespace + "label")
	RDFSSubClassOf    = mustIRI(ccf.RDFSNamespace + "subClassOf")
	RDFSSubPropertyOf = mustIRI(ccf.RDFSNamespace + "subPropertyOf")

	OWLOntology           = mustIRI(ccf.OWLNamespace + "Ontology")
	OWLClass              = mustIRI(ccf.OWLNamespace + "Class")
	OWLObjectProperty     = mustIRI(ccf.OWLNamespace + "ObjectProperty")
	OWLAnnotationProperty = mustIRI(ccf.OWLNamespace + "AnnotationProperty")
	OWLRestriction        = mustIRI(ccf.OWLNamespace + "Restriction")
	OWLOnProperty         = mustIRI(ccf.OWLNamespace + "onProperty")
	OWLSomeValuesFrom     = mustIRI(ccf.OWLNamespace + "someValuesFrom")
	OWLEquivalentClass    = mustIRI(ccf.OWLNamespace + "equivalentClass")
	OWLIntersectionOf     = mustIRI(ccf.OWLNamespace + "intersectionOf")
)

// iriExcluded holds the characters, besides controls and space, that may
// not appear in an N-Triples or Turtle IRIREF.
const iriExcluded = "<>\"{}|^`\\"

// IRI returns the RDF term for iri. IRIs that could not be written as an
// IRIREF are rejected with ErrInvalidIRI.
func IRI(iri string) (rdf.Term, error) {
	if i := strings.IndexFunc(iri, func(r rune) bool {
		return r <= 0x20 || strings.ContainsRune(iriExcluded, r)
	}); i >= 0 {
		r, _ := utf8.DecodeRuneInString(iri[i:])
		return rdf.Term{}, fmt.Errorf("%w: %q at offset %d", ErrInvalidIRI, r, i)
	}
	return rdf.NewIRITerm(iri)
}

// Literal returns a plain string literal term.
func Literal(text string) (rdf.Term, error) {
	return rdf.NewLiteralTerm(text, "")
}

func mustIRI(iri string) rdf.Term {
	t, err := rdf.NewIRITerm(iri)
	if err != nil {
		panic("ontology: invalid vocabulary IRI " + iri + ": " + err.Error())
	}
	return t
}

func mustLiteral(text string) rdf.Term {
	t, err := rdf.NewLiteralTerm(text, "")
	if err != nil {
		panic("ontology: invalid vocabulary label " + text + ": " + err.Error())
	}
	return t
}
