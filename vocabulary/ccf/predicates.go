package ccf

import "github.com/c360studio/semstreams/vocabulary"

// Cell type predicates relate a cell type to its location, markers and
// characterizing biomarker set.
const (
	// LocatedIn links a cell type to the anatomical structure it is found in.
	LocatedIn = "ccf.celltype.located_in"

	// CellTypeHasGeneMarker links a cell type to a gene biomarker.
	CellTypeHasGeneMarker = "ccf.celltype.has_gene_marker"

	// CellTypeHasProteinMarker links a cell type to a protein biomarker.
	CellTypeHasProteinMarker = "ccf.celltype.has_protein_marker"

	// CellTypeHasCharacterizingBiomarkerSet links a cell type to its biomarker set.
	CellTypeHasCharacterizingBiomarkerSet = "ccf.celltype.has_characterizing_biomarker_set"
)

// Biomarker predicates relate a marker back to the cell types it characterizes.
const (
	// IsBiomarkerOfCellType is the generic marker-to-cell-type relation.
	IsBiomarkerOfCellType = "ccf.biomarker.is_biomarker_of"

	// IsGeneMarkerOfCellType links a gene biomarker to a cell type.
	IsGeneMarkerOfCellType = "ccf.biomarker.is_gene_marker_of"

	// IsProteinMarkerOfCellType links a protein biomarker to a cell type.
	IsProteinMarkerOfCellType = "ccf.biomarker.is_protein_marker_of"
)

// Biomarker set predicates.
const (
	// HasMember links a characterizing biomarker set to each member biomarker.
	HasMember = "ccf.biomarkerset.has_member"

	// IsCharacterizingBiomarkerSetOfCellType links a biomarker set to its cell type.
	IsCharacterizingBiomarkerSetOfCellType = "ccf.biomarkerset.characterizes"
)

// Provenance predicates.
const (
	// Source is the publication (DOI) a biomarker set was curated from.
	Source = "ccf.provenance.source"
)

func init() {
	registerCellTypePredicates()
	registerBiomarkerPredicates()
	registerProvenancePredicates()
}

func registerCellTypePredicates() {
	vocabulary.Register(LocatedIn,
		vocabulary.WithDescription("located in"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropLocatedIn))

	vocabulary.Register(CellTypeHasGeneMarker,
		vocabulary.WithDescription("cell type has gene marker"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropCellTypeHasGeneMarker))

	vocabulary.Register(CellTypeHasProteinMarker,
		vocabulary.WithDescription("cell type has protein marker"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropCellTypeHasProteinMarker))

	vocabulary.Register(CellTypeHasCharacterizingBiomarkerSet,
		vocabulary.WithDescription("cell type has characterizing biomarker set"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropCellTypeHasCharacterizingBiomarkerSet))
}

func registerBiomarkerPredicates() {
	vocabulary.Register(IsBiomarkerOfCellType,
		vocabulary.WithDescription("is biomarker of cell type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsBiomarkerOfCellType))

	vocabulary.Register(IsGeneMarkerOfCellType,
		vocabulary.WithDescription("is gene marker of cell type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsGeneMarkerOfCellType))

	vocabulary.Register(IsProteinMarkerOfCellType,
		vocabulary.WithDescription("is protein marker of cell type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsProteinMarkerOfCellType))

	vocabulary.Register(HasMember,
		vocabulary.WithDescription("has member"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasMember))

	vocabulary.Register(IsCharacterizingBiomarkerSetOfCellType,
		vocabulary.WithDescription("is characterizing biomarkers of cell type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsCharacterizingBiomarkerSetOfCellType))
}

func registerProvenancePredicates() {
	vocabulary.Register(Source,
		vocabulary.WithDescription("source"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropSource))
}
