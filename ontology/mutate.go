package ontology

import (
	"fmt"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

// Ontology is a CCF Biological Structure Ontology under construction.
type Ontology struct {
	graph    *Graph
	registry *Registry
}

// New returns an ontology whose graph holds the header and vocabulary
// declarations for ontologyIRI.
func New(ontologyIRI string) (*Ontology, error) {
	if _, err := IRI(ontologyIRI); err != nil || ontologyIRI == "" {
		return nil, fmt.Errorf("invalid ontology IRI %q", ontologyIRI)
	}
	g := NewGraph()
	for prefix, ns := range ccf.Prefixes() {
		g.Bind(prefix, ns)
	}
	reg := NewRegistry(ontologyIRI)
	reg.Declare(g)
	return &Ontology{graph: g, registry: reg}, nil
}

// Graph returns the graph owned by the ontology.
func (o *Ontology) Graph() *Graph { return o.graph }

// Registry returns the vocabulary the ontology was declared with.
func (o *Ontology) Registry() *Registry { return o.registry }

// Mutate appends the axioms for records to the ontology's graph.
func (o *Ontology) Mutate(records []Record) error {
	return Mutate(o.graph, o.registry, records)
}

// Mutate appends the axioms for records to g, in record order.
//
// All records are validated first. If any record is malformed, Mutate
// returns a *RecordError for the first one and g is not modified.
func Mutate(g *Graph, reg *Registry, records []Record) error {
	resolved := make([]resolvedRecord, len(records))
	for i, r := range records {
		rr, err := r.resolve()
		if err != nil {
			return atIndex(err, i)
		}
		resolved[i] = rr
	}

	m := &mutator{g: g, reg: reg}
	for _, rr := range resolved {
		m.apply(rr)
	}
	return nil
}

type mutator struct {
	g   *Graph
	reg *Registry
}

func (m *mutator) apply(r resolvedRecord) {
	m.entity(r.anatomical, r.anatomicalLabel, r.anatomicalLocal, TermAnatomicalStructure)
	m.entity(r.cellType, r.cellTypeLabel, r.cellTypeLocal, TermCell)

	m.subClassOf(r.cellType, m.someValuesFrom(TermLocatedIn, r.anatomical))

	m.class(r.set)
	m.g.Add(r.set, RDFSLabel, r.setLabel)
	m.subClassOf(r.set, m.reg.node(TermCharacterizingBiomarkerSet))
	source := m.reg.node(TermSource)
	for _, src := range r.sources {
		m.g.Add(r.set, source, src)
	}

	members := make([]rdf.Term, 0, len(r.genes)+len(r.proteins))
	for _, marker := range r.genes {
		m.marker(r.cellType, marker, TermCellTypeHasGeneMarker, TermIsGeneMarkerOfCellType)
		members = append(members, marker)
	}
	for _, marker := range r.proteins {
		m.marker(r.cellType, marker, TermCellTypeHasProteinMarker, TermIsProteinMarkerOfCellType)
		members = append(members, marker)
	}

	conjuncts := make([]rdf.Term, len(members))
	for i, marker := range members {
		conjuncts[i] = m.someValuesFrom(TermHasMember, marker)
	}
	m.g.Add(r.set, OWLEquivalentClass, m.intersectionOf(conjuncts))

	m.subClassOf(r.cellType, m.someValuesFrom(TermCellTypeHasCharacterizingBiomarkerSet, r.set))
}

// entity declares a class. Locally minted classes also get their label and
// are placed under the named root.
func (m *mutator) entity(node, label rdf.Term, local bool, root string) {
	m.class(node)
	if !local {
		return
	}
	m.g.Add(node, RDFSLabel, label)
	rootNode := m.reg.node(root)
	m.class(rootNode)
	m.subClassOf(node, rootNode)
}

func (m *mutator) marker(cellType, marker rdf.Term, forward, inverse string) {
	m.class(marker)
	m.subClassOf(cellType, m.someValuesFrom(forward, marker))
	m.subClassOf(marker, m.someValuesFrom(inverse, cellType))
}

func (m *mutator) class(node rdf.Term) {
	m.g.Add(node, RDFType, OWLClass)
}

func (m *mutator) subClassOf(sub, super rdf.Term) {
	m.g.Add(sub, RDFSSubClassOf, super)
}

// someValuesFrom mints the restriction "property some filler".
func (m *mutator) someValuesFrom(property string, filler rdf.Term) rdf.Term {
	r := m.g.Blank()
	m.g.Add(r, RDFType, OWLRestriction)
	m.g.Add(r, OWLOnProperty, m.reg.node(property))
	m.g.Add(r, OWLSomeValuesFrom, filler)
	return r
}

// intersectionOf mints an anonymous class equal to the conjunction of members.
func (m *mutator) intersectionOf(members []rdf.Term) rdf.Term {
	c := m.g.Blank()
	m.g.Add(c, RDFType, OWLClass)
	m.g.Add(c, OWLIntersectionOf, m.g.List(members))
	return c
}
