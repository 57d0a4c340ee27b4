package ontology

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

func newOntology(t *testing.T) *Ontology {
	t.Helper()
	onto, err := New(ccf.DefaultOntologyIRI)
	require.NoError(t, err)
	return onto
}

func record(cellIRI, cellLabel string, genes, proteins []string, dois ...string) Record {
	r := Record{
		AnatomicalStructure: Entity{IRI: "http://purl.obolibrary.org/obo/UBERON_0002113", Label: "kidney"},
		CellType:            Entity{IRI: cellIRI, Label: cellLabel},
	}
	for _, g := range genes {
		r.GeneBiomarkers = append(r.GeneBiomarkers, Marker{IRI: g})
	}
	for _, p := range proteins {
		r.ProteinBiomarkers = append(r.ProteinBiomarkers, Marker{IRI: p})
	}
	for _, d := range dois {
		r.DOIs = append(r.DOIs, DOI{Value: d})
	}
	return r
}

// restrictionFillers returns the fillers of "property some X" superclasses of sub.
func restrictionFillers(g *Graph, sub rdf.Term, property string) []rdf.Term {
	var out []rdf.Term
	prop := mustIRI(property)
	for _, super := range g.Objects(sub, RDFSSubClassOf) {
		if g.Has(super, RDFType, OWLRestriction) && g.Has(super, OWLOnProperty, prop) {
			out = append(out, g.Objects(super, OWLSomeValuesFrom)...)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	onto := newOntology(t)
	assert.Equal(t, ccf.DefaultOntologyIRI, onto.Registry().OntologyIRI())
	assert.True(t, onto.Graph().Has(mustTerm(t, ccf.DefaultOntologyIRI), RDFType, OWLOntology))
	assert.Equal(t, ccf.Prefixes(), onto.Graph().Prefixes())

	_, err := New("")
	assert.Error(t, err)
	_, err = New("relative/path")
	assert.Error(t, err)
}

func TestMutate_ExternalEntitiesAreNotSubclassed(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://purl.obolibrary.org/obo/CL_0002306", "epithelial cell of proximal tubule", nil, nil)
	require.NoError(t, onto.Mutate([]Record{rec}))
	g := onto.Graph()

	anatomical := mustTerm(t, rec.AnatomicalStructure.IRI)
	cell := mustTerm(t, rec.CellType.IRI)
	assert.True(t, g.Has(anatomical, RDFType, OWLClass))
	assert.True(t, g.Has(cell, RDFType, OWLClass))
	assert.Empty(t, g.Objects(anatomical, RDFSLabel))
	assert.Empty(t, g.Objects(cell, RDFSLabel))
	assert.False(t, g.Has(anatomical, RDFSSubClassOf, mustTerm(t, ccf.ClassAnatomicalStructure)))
	assert.False(t, g.Has(cell, RDFSSubClassOf, mustTerm(t, ccf.ClassCell)))

	assert.Equal(t, []rdf.Term{anatomical}, restrictionFillers(g, cell, ccf.PropLocatedIn))
}

func TestMutate_LocalEntitiesAreLabelledAndSubclassed(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://purl.org/ccf/loop_of_henle_cell", "loop of Henle cell", nil, nil)
	rec.AnatomicalStructure = Entity{IRI: "http://purl.org/ccf/renal_medulla_region", Label: "renal medulla region"}
	require.NoError(t, onto.Mutate([]Record{rec}))
	g := onto.Graph()

	anatomical := mustTerm(t, rec.AnatomicalStructure.IRI)
	cell := mustTerm(t, rec.CellType.IRI)
	assert.True(t, g.Has(anatomical, RDFSSubClassOf, mustTerm(t, ccf.ClassAnatomicalStructure)))
	assert.True(t, g.Has(cell, RDFSSubClassOf, mustTerm(t, ccf.ClassCell)))
	assert.True(t, g.Has(cell, RDFSLabel, mustLiteral("loop of Henle cell")))
	assert.True(t, g.Has(anatomical, RDFSLabel, mustLiteral("renal medulla region")))
	assert.True(t, g.Has(mustTerm(t, ccf.ClassCell), RDFType, OWLClass))
}

func TestMutate_NamespaceCheckIsPrefixMatch(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://example.org/mirror/http://purl.org/ccf/x", "mirrored", nil, nil)
	require.NoError(t, onto.Mutate([]Record{rec}))

	g := onto.Graph()
	cell := mustTerm(t, rec.CellType.IRI)
	assert.False(t, g.Has(cell, RDFSSubClassOf, mustTerm(t, ccf.ClassCell)))
	assert.Empty(t, g.Objects(cell, RDFSLabel))
}

func TestMutate_BiomarkerSet(t *testing.T) {
	onto := newOntology(t)
	genes := []string{ccf.HGNCNamespace + "HGNC_11000", ccf.HGNCNamespace + "HGNC_6524"}
	proteins := []string{"http://purl.obolibrary.org/obo/PR_000001004"}
	rec := record("http://purl.obolibrary.org/obo/CL_0000624", "T-Cell, CD4+", genes, proteins,
		"doi:10.1038/s41586-020-2941-1", "PMID:123", "doi:10.1101/2021.07.28.454201")
	require.NoError(t, onto.Mutate([]Record{rec}))
	g := onto.Graph()

	set := mustTerm(t, "http://purl.org/ccf/characterizing_biomarker_set_of_t-cell_cd4")
	cell := mustTerm(t, rec.CellType.IRI)

	assert.True(t, g.Has(set, RDFType, OWLClass))
	assert.True(t, g.Has(set, RDFSLabel, mustLiteral("characterizing biomarker set of T-Cell, CD4+")))
	assert.True(t, g.Has(set, RDFSSubClassOf, mustTerm(t, ccf.ClassCharacterizingBiomarkerSet)))

	assert.Equal(t, []rdf.Term{
		mustTerm(t, "http://doi.org/10.1038/s41586-020-2941-1"),
		mustTerm(t, "http://doi.org/10.1101/2021.07.28.454201"),
	}, g.Objects(set, mustTerm(t, ccf.PropSource)))

	geneNodes := []rdf.Term{mustTerm(t, genes[0]), mustTerm(t, genes[1])}
	proteinNodes := []rdf.Term{mustTerm(t, proteins[0])}
	assert.Equal(t, geneNodes, restrictionFillers(g, cell, ccf.PropCellTypeHasGeneMarker))
	assert.Equal(t, proteinNodes, restrictionFillers(g, cell, ccf.PropCellTypeHasProteinMarker))
	for _, gene := range geneNodes {
		assert.Equal(t, []rdf.Term{cell}, restrictionFillers(g, gene, ccf.PropIsGeneMarkerOfCellType))
	}
	assert.Equal(t, []rdf.Term{cell}, restrictionFillers(g, proteinNodes[0], ccf.PropIsProteinMarkerOfCellType))
	assert.Equal(t, []rdf.Term{set}, restrictionFillers(g, cell, ccf.PropCellTypeHasCharacterizingBiomarkerSet))

	equivalents := g.Objects(set, OWLEquivalentClass)
	require.Len(t, equivalents, 1)
	intersection := equivalents[0]
	assert.True(t, g.Has(intersection, RDFType, OWLClass))
	lists := g.Objects(intersection, OWLIntersectionOf)
	require.Len(t, lists, 1)

	var members []rdf.Term
	hasMember := mustTerm(t, ccf.PropHasMember)
	for _, conjunct := range g.Collection(lists[0]) {
		require.True(t, g.Has(conjunct, OWLOnProperty, hasMember))
		members = append(members, g.Objects(conjunct, OWLSomeValuesFrom)...)
	}
	assert.Equal(t, append(geneNodes, proteinNodes...), members)
}

func TestMutate_EmptyMarkersAreSkipped(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://purl.obolibrary.org/obo/CL_0000084", "T cell", []string{"", ccf.HGNCNamespace + "HGNC_1678"}, []string{""})
	require.NoError(t, onto.Mutate([]Record{rec}))

	cell := mustTerm(t, rec.CellType.IRI)
	assert.Len(t, restrictionFillers(onto.Graph(), cell, ccf.PropCellTypeHasGeneMarker), 1)
	assert.Empty(t, restrictionFillers(onto.Graph(), cell, ccf.PropCellTypeHasProteinMarker))
}

func TestMutate_EmptyIntersection(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://purl.obolibrary.org/obo/CL_0000084", "T cell", nil, nil)
	require.NoError(t, onto.Mutate([]Record{rec}))
	g := onto.Graph()

	set := mustTerm(t, rec.BiomarkerSetIRI())
	equivalents := g.Objects(set, OWLEquivalentClass)
	require.Len(t, equivalents, 1)
	assert.Equal(t, []rdf.Term{RDFNil}, g.Objects(equivalents[0], OWLIntersectionOf))
}

func TestMutate_ClosedFormCounts(t *testing.T) {
	onto := newOntology(t)
	var records []Record
	var wantRestrictions, wantSources int
	for i := 0; i < 5; i++ {
		var genes, proteins []string
		for j := 0; j < i; j++ {
			genes = append(genes, fmt.Sprintf("%sHGNC_%d", ccf.HGNCNamespace, 100*i+j))
		}
		for j := 0; j < i%3; j++ {
			proteins = append(proteins, fmt.Sprintf("http://purl.obolibrary.org/obo/PR_%09d", 100*i+j))
		}
		dois := []string{fmt.Sprintf("doi:10.1000/%d", i), "not-a-doi"}
		records = append(records, record(
			fmt.Sprintf("http://purl.obolibrary.org/obo/CL_%07d", i),
			fmt.Sprintf("cell type %d", i),
			genes, proteins, dois...))
		wantRestrictions += 2 + 3*(len(genes)+len(proteins))
		wantSources++
	}
	require.NoError(t, onto.Mutate(records))
	g := onto.Graph()

	assert.Len(t, g.Subjects(RDFType, OWLRestriction), wantRestrictions)

	source := mustTerm(t, ccf.PropSource)
	var intersections, sources int
	for _, st := range g.Statements() {
		switch st.Predicate.Value {
		case OWLIntersectionOf.Value:
			intersections++
		case source.Value:
			sources++
		}
	}
	assert.Equal(t, len(records), intersections)
	assert.Equal(t, wantSources, sources)
}

func TestMutate_IdenticalCellTypesCollapseDeclarationsOnly(t *testing.T) {
	onto := newOntology(t)
	rec := record("http://purl.obolibrary.org/obo/CL_0000084", "T cell", []string{ccf.HGNCNamespace + "HGNC_1678"}, nil)
	require.NoError(t, onto.Mutate([]Record{rec, rec}))
	g := onto.Graph()

	set := mustTerm(t, rec.BiomarkerSetIRI())
	assert.Len(t, g.Objects(set, RDFSLabel), 1)
	assert.Len(t, g.Objects(set, OWLEquivalentClass), 2)
	assert.Len(t, g.Subjects(RDFType, OWLRestriction), 2*(2+3*1))
}

func TestMutate_MalformedRecordLeavesGraphUntouched(t *testing.T) {
	onto := newOntology(t)
	good := record("http://purl.obolibrary.org/obo/CL_0000084", "T cell", nil, nil)
	bad := record("http://purl.obolibrary.org/obo/CL_0000236", "", nil, nil)
	bad.ID = "https://repo.metadatacenter.org/template-instances/bad"

	before := onto.Graph().Statements()
	err := onto.Mutate([]Record{good, bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, bad.ID, re.ID)
	assert.Equal(t, "cell_type.rdfs:label", re.Field)

	assert.Empty(t, cmp.Diff(before, onto.Graph().Statements()))
}

func TestMutate_Deterministic(t *testing.T) {
	rec, err := ParseRecord([]byte(kidneyInstance))
	require.NoError(t, err)
	second := record("http://purl.org/ccf/podocyte_variant", "podocyte variant", []string{ccf.HGNCNamespace + "HGNC_7808"}, nil, "doi:10.1/abc")

	build := func() []*rdf.Statement {
		onto := newOntology(t)
		require.NoError(t, onto.Mutate([]Record{rec}))
		require.NoError(t, onto.Mutate([]Record{second}))
		return onto.Graph().Statements()
	}
	assert.Empty(t, cmp.Diff(build(), build()))
}
