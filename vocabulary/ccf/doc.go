// Package ccf provides the vocabulary of the CCF Biological Structure Ontology.
//
// The package defines the namespaces, class IRIs and property IRIs used when
// converting CEDAR metadata instances into OWL, and registers the relation
// predicates with the semstreams vocabulary registry so that their standard
// IRIs and labels can be resolved at the export boundary.
//
// # Predicates
//
// Predicates follow the semstreams dotted notation (domain.category.property):
//
//	ccf.celltype.located_in          → obo:RO_0001025
//	ccf.celltype.has_gene_marker     → ccf:cell_type_has_gene_marker
//	ccf.biomarker.is_gene_marker_of  → ccf:is_gene_marker_of_cell_type
//	ccf.biomarkerset.has_member      → ccf:has_member
//	ccf.provenance.source            → dcterms:source
//
// The registered description doubles as the rdfs:label written for the
// property declaration:
//
//	meta := vocabulary.GetPredicateMetadata(ccf.LocatedIn)
//	meta.StandardIRI // "http://purl.obolibrary.org/obo/RO_0001025"
//	meta.Description // "located in"
//
// # Namespaces
//
//	ccf     http://purl.org/ccf/
//	obo     http://purl.obolibrary.org/obo/
//	hgnc    http://ncicb.nci.nih.gov/xml/owl/EVS/Hugo.owl#
//	dcterms http://purl.org/dc/terms/
package ccf
