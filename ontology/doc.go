// Package ontology builds the CCF Biological Structure Ontology from CEDAR
// metadata instance records.
//
// An Ontology owns a single append-only Graph. Each call to Mutate validates a
// batch of Records and then appends, for every record in order, the OWL class
// declarations, existential restrictions and intersection axioms that link an
// anatomical structure, a cell type and its gene/protein biomarkers:
//
//	onto, err := ontology.New(ccf.DefaultOntologyIRI)
//	if err != nil {
//	    return err
//	}
//	if err := onto.Mutate(records); err != nil {
//	    return err // *RecordError, errors.Is(err, ontology.ErrMalformedRecord)
//	}
//	statements := onto.Graph().Statements()
//
// Identifiers for synthesized entities are derived from labels with
// Normalize, so the same input always yields the same IRIs. Blank nodes are
// labelled in creation order, so the same input always yields the same graph.
//
// The package performs no I/O and no logging; serialization lives in the
// export package.
package ontology
