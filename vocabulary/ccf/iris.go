package ccf

// Namespace is the base IRI for all CCF ontology terms. Entities synthesized
// during conversion are minted under this namespace.
const Namespace = "http://purl.org/ccf/"

// External namespaces bound in every exported document.
const (
	// OBONamespace is the OBO Foundry PURL namespace (UBERON, CL, RO).
	OBONamespace = "http://purl.obolibrary.org/obo/"

	// HGNCNamespace is the NCI EVS rendering of the HGNC gene nomenclature.
	HGNCNamespace = "http://ncicb.nci.nih.gov/xml/owl/EVS/Hugo.owl#"

	// DctermsNamespace is the Dublin Core terms namespace.
	DctermsNamespace = "http://purl.org/dc/terms/"

	// DOIResolver is the resolver prefix DOI references are rewritten onto.
	DOIResolver = "http://doi.org/"
)

// W3C namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// DefaultOntologyIRI identifies the Biological Structure Ontology document.
const DefaultOntologyIRI = Namespace + "ccf-bso"

// Class IRIs.
const (
	// ClassCharacterizingBiomarkerSet is the parent of every synthesized
	// biomarker set.
	ClassCharacterizingBiomarkerSet = Namespace + "characterizing_biomarker_set"

	// ClassAnatomicalStructure is the upper anatomy root (UBERON "anatomical entity").
	// Locally minted anatomical structures are subclassed under it.
	ClassAnatomicalStructure = OBONamespace + "UBERON_0001062"

	// ClassCell is the upper cell-type root (CL "cell").
	// Locally minted cell types are subclassed under it.
	ClassCell = OBONamespace + "CL_0000000"
)

// Object property IRIs.
const (
	// PropLocatedIn links a cell type to its anatomical location (RO "located in").
	// Domain: cell type, Range: anatomical structure
	PropLocatedIn = OBONamespace + "RO_0001025"

	// PropHasMember links a biomarker set to its members.
	// Domain: ClassCharacterizingBiomarkerSet, Range: biomarker
	PropHasMember = Namespace + "has_member"

	// PropCellTypeHasGeneMarker links a cell type to a gene marker.
	PropCellTypeHasGeneMarker = Namespace + "cell_type_has_gene_marker"

	// PropCellTypeHasProteinMarker links a cell type to a protein marker.
	PropCellTypeHasProteinMarker = Namespace + "cell_type_has_protein_marker"

	// PropIsBiomarkerOfCellType is the parent of the marker-to-cell-type properties.
	PropIsBiomarkerOfCellType = Namespace + "is_biomarker_of_cell_type"

	// PropIsGeneMarkerOfCellType is the inverse direction of PropCellTypeHasGeneMarker.
	// Sub-property of PropIsBiomarkerOfCellType.
	PropIsGeneMarkerOfCellType = Namespace + "is_gene_marker_of_cell_type"

	// PropIsProteinMarkerOfCellType is the inverse direction of PropCellTypeHasProteinMarker.
	// Sub-property of PropIsBiomarkerOfCellType.
	PropIsProteinMarkerOfCellType = Namespace + "is_protein_marker_of_cell_type"

	// PropCellTypeHasCharacterizingBiomarkerSet links a cell type to its biomarker set.
	PropCellTypeHasCharacterizingBiomarkerSet = Namespace + "cell_type_has_characterizing_biomarker_set"

	// PropIsCharacterizingBiomarkerSetOfCellType links a biomarker set back to its cell type.
	PropIsCharacterizingBiomarkerSetOfCellType = Namespace + "is_characterizing_biomarker_set_of_cell_type"
)

// Annotation property IRIs.
const (
	// PropSource attaches a resolvable publication reference to a biomarker set.
	PropSource = DctermsNamespace + "source"
)

// Prefixes returns the namespace bindings every exported document declares.
func Prefixes() map[string]string {
	return map[string]string{
		"ccf":     Namespace,
		"obo":     OBONamespace,
		"hgnc":    HGNCNamespace,
		"dcterms": DctermsNamespace,
		"rdf":     RDFNamespace,
		"rdfs":    RDFSNamespace,
		"owl":     OWLNamespace,
		"xsd":     XSDNamespace,
	}
}
