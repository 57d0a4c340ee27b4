package ontology

import (
	"github.com/c360studio/semstreams/vocabulary"
	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

// Symbolic term names known to the Registry.
const (
	TermCharacterizingBiomarkerSet             = "characterizing_biomarker_set"
	TermHasMember                              = "has_member"
	TermLocatedIn                              = "located_in"
	TermCellTypeHasGeneMarker                  = "cell_type_has_gene_marker"
	TermCellTypeHasProteinMarker               = "cell_type_has_protein_marker"
	TermIsBiomarkerOfCellType                  = "is_biomarker_of_cell_type"
	TermIsGeneMarkerOfCellType                 = "is_gene_marker_of_cell_type"
	TermIsProteinMarkerOfCellType              = "is_protein_marker_of_cell_type"
	TermCellTypeHasCharacterizingBiomarkerSet  = "cell_type_has_characterizing_biomarker_set"
	TermIsCharacterizingBiomarkerSetOfCellType = "is_characterizing_biomarker_set_of_cell_type"
	TermSource                                 = "source"
	TermAnatomicalStructure                    = "anatomical_structure"
	TermCell                                   = "cell"
)

// TermKind is the OWL entity type a term is declared as.
type TermKind int

const (
	KindClass TermKind = iota
	KindObjectProperty
	KindAnnotationProperty
)

func (k TermKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindObjectProperty:
		return "object_property"
	case KindAnnotationProperty:
		return "annotation_property"
	default:
		return "unknown"
	}
}

// Term is a named vocabulary entry.
type Term struct {
	Name  string
	IRI   string
	Label string
	Kind  TermKind

	// SubPropertyOf names the parent property, if any.
	SubPropertyOf string

	// External terms belong to another ontology. They are referenced by
	// axioms but not declared in the header.
	External bool

	node rdf.Term
}

// Node returns the term as an RDF IRI node.
func (t Term) Node() rdf.Term { return t.node }

// Registry resolves symbolic term names to IRIs for a single ontology build.
type Registry struct {
	ontologyIRI string
	ontology    rdf.Term
	terms       map[string]Term
	order       []string
}

// NewRegistry resolves the fixed CCF vocabulary for the ontology identified by
// ontologyIRI. Property IRIs and labels come from the predicates registered by
// package ccf.
func NewRegistry(ontologyIRI string) *Registry {
	r := &Registry{
		ontologyIRI: ontologyIRI,
		terms:       make(map[string]Term),
	}
	if t, err := rdf.NewIRITerm(ontologyIRI); err == nil {
		r.ontology = t
	}

	r.add(Term{
		Name:  TermCharacterizingBiomarkerSet,
		IRI:   ccf.ClassCharacterizingBiomarkerSet,
		Label: "characterizing biomarker set",
		Kind:  KindClass,
	})
	r.add(predicateTerm(TermHasMember, ccf.HasMember, KindObjectProperty, ""))
	r.add(predicateTerm(TermLocatedIn, ccf.LocatedIn, KindObjectProperty, ""))
	r.add(predicateTerm(TermCellTypeHasGeneMarker, ccf.CellTypeHasGeneMarker, KindObjectProperty, ""))
	r.add(predicateTerm(TermCellTypeHasProteinMarker, ccf.CellTypeHasProteinMarker, KindObjectProperty, ""))
	r.add(predicateTerm(TermIsBiomarkerOfCellType, ccf.IsBiomarkerOfCellType, KindObjectProperty, ""))
	r.add(predicateTerm(TermIsGeneMarkerOfCellType, ccf.IsGeneMarkerOfCellType, KindObjectProperty, TermIsBiomarkerOfCellType))
	r.add(predicateTerm(TermIsProteinMarkerOfCellType, ccf.IsProteinMarkerOfCellType, KindObjectProperty, TermIsBiomarkerOfCellType))
	r.add(predicateTerm(TermCellTypeHasCharacterizingBiomarkerSet, ccf.CellTypeHasCharacterizingBiomarkerSet, KindObjectProperty, ""))
	r.add(predicateTerm(TermIsCharacterizingBiomarkerSetOfCellType, ccf.IsCharacterizingBiomarkerSetOfCellType, KindObjectProperty, ""))
	r.add(predicateTerm(TermSource, ccf.Source, KindAnnotationProperty, ""))

	r.add(Term{Name: TermAnatomicalStructure, IRI: ccf.ClassAnatomicalStructure, Kind: KindClass, External: true})
	r.add(Term{Name: TermCell, IRI: ccf.ClassCell, Kind: KindClass, External: true})

	return r
}

func predicateTerm(name, predicate string, kind TermKind, parent string) Term {
	t := Term{Name: name, Kind: kind, SubPropertyOf: parent}
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil {
		t.IRI = meta.StandardIRI
		t.Label = meta.Description
	}
	if t.IRI == "" {
		t.IRI = ccf.Namespace + name
	}
	return t
}

func (r *Registry) add(t Term) {
	t.node = mustIRI(t.IRI)
	r.terms[t.Name] = t
	r.order = append(r.order, t.Name)
}

// OntologyIRI returns the IRI of the ontology document.
func (r *Registry) OntologyIRI() string {
	return r.ontologyIRI
}

// Term looks up a term by symbolic name.
func (r *Registry) Term(name string) (Term, bool) {
	t, ok := r.terms[name]
	return t, ok
}

// Terms returns all terms in declaration order.
func (r *Registry) Terms() []Term {
	out := make([]Term, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.terms[name])
	}
	return out
}

// node returns the IRI node of a known term.
func (r *Registry) node(name string) rdf.Term {
	t, ok := r.terms[name]
	if !ok {
		panic("ontology: unknown term " + name)
	}
	return t.node
}

// Declare writes the ontology header and the declaration of every
// non-external term, with its label and parent property, into g.
// An ontology IRI that is not a valid IRI is left out of the header.
func (r *Registry) Declare(g *Graph) {
	if r.ontology.Value != "" {
		g.Add(r.ontology, RDFType, OWLOntology)
	}
	for _, name := range r.order {
		t := r.terms[name]
		if t.External {
			continue
		}
		switch t.Kind {
		case KindClass:
			g.Add(t.node, RDFType, OWLClass)
		case KindObjectProperty:
			g.Add(t.node, RDFType, OWLObjectProperty)
		case KindAnnotationProperty:
			g.Add(t.node, RDFType, OWLAnnotationProperty)
		}
		if t.Label != "" {
			g.Add(t.node, RDFSLabel, mustLiteral(t.Label))
		}
		if t.SubPropertyOf != "" {
			g.Add(t.node, RDFSSubPropertyOf, r.node(t.SubPropertyOf))
		}
	}
}
