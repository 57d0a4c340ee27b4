package ccf

import (
	"strings"
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	predicates := []string{
		LocatedIn,
		CellTypeHasGeneMarker,
		CellTypeHasProteinMarker,
		CellTypeHasCharacterizingBiomarkerSet,
		IsBiomarkerOfCellType,
		IsGeneMarkerOfCellType,
		IsProteinMarkerOfCellType,
		HasMember,
		IsCharacterizingBiomarkerSetOfCellType,
		Source,
	}

	for _, pred := range predicates {
		t.Run(pred, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(pred)
			if meta == nil {
				t.Fatalf("predicate %q not registered", pred)
			}
			if meta.Description == "" {
				t.Errorf("predicate %q has no description", pred)
			}
			if meta.DataType == "" {
				t.Errorf("predicate %q has no data type", pred)
			}
		})
	}
}

func TestPredicateIRIMappings(t *testing.T) {
	tests := []struct {
		predicate   string
		expectedIRI string
	}{
		{LocatedIn, "http://purl.obolibrary.org/obo/RO_0001025"},
		{HasMember, "http://purl.org/ccf/has_member"},
		{CellTypeHasGeneMarker, "http://purl.org/ccf/cell_type_has_gene_marker"},
		{CellTypeHasProteinMarker, "http://purl.org/ccf/cell_type_has_protein_marker"},
		{IsGeneMarkerOfCellType, "http://purl.org/ccf/is_gene_marker_of_cell_type"},
		{IsProteinMarkerOfCellType, "http://purl.org/ccf/is_protein_marker_of_cell_type"},
		{CellTypeHasCharacterizingBiomarkerSet, "http://purl.org/ccf/cell_type_has_characterizing_biomarker_set"},
		{Source, "http://purl.org/dc/terms/source"},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(tt.predicate)
			if meta == nil {
				t.Fatalf("predicate %s not registered", tt.predicate)
			}
			if meta.StandardIRI != tt.expectedIRI {
				t.Errorf("predicate %s: expected IRI %s, got %s", tt.predicate, tt.expectedIRI, meta.StandardIRI)
			}
		})
	}
}

func TestPredicateNaming(t *testing.T) {
	for _, pred := range []string{LocatedIn, HasMember, Source, IsGeneMarkerOfCellType} {
		if !strings.HasPrefix(pred, "ccf.") {
			t.Errorf("predicate %q should be in the ccf domain", pred)
		}
		if got := len(strings.Split(pred, ".")); got != 3 {
			t.Errorf("predicate %q should have three dotted levels, got %d", pred, got)
		}
	}
}

func TestPrefixes(t *testing.T) {
	prefixes := Prefixes()
	if prefixes["ccf"] != Namespace {
		t.Errorf("ccf prefix = %q, want %q", prefixes["ccf"], Namespace)
	}
	if prefixes["dcterms"] != "http://purl.org/dc/terms/" {
		t.Errorf("dcterms prefix = %q", prefixes["dcterms"])
	}
	for prefix, ns := range prefixes {
		if !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") {
			t.Errorf("namespace for %s should end in / or #: %s", prefix, ns)
		}
	}
}
