// Package export serializes an ontology graph to RDF documents.
//
// Supported formats are Turtle, RDF/XML, N-Triples and JSON-LD. Every writer
// emits prefix declarations in sorted order and subjects in the order they
// were first added to the graph, and keeps blank node labels, so exporting
// the same graph twice yields identical bytes.
package export
