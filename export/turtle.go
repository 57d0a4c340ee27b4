package export

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// turtleWriter writes RDF in Turtle format.
type turtleWriter struct {
	ns *namespaces
	sb strings.Builder
}

func writeTurtle(w io.Writer, prefixes map[string]string, statements []*rdf.Statement) error {
	tw := &turtleWriter{ns: newNamespaces(prefixes)}
	tw.writePrefixes()
	for _, grp := range groupBySubject(statements) {
		if err := tw.writeSubject(grp); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, tw.sb.String())
	return err
}

// writePrefixes writes prefix declarations.
func (w *turtleWriter) writePrefixes() {
	for _, prefix := range w.ns.prefixes {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.ns.iris[prefix]))
	}
	w.sb.WriteString("\n")
}

// writeSubject writes one subject block. Objects sharing a predicate are
// joined with commas.
func (w *turtleWriter) writeSubject(grp *subjectGroup) error {
	subject, err := w.term(grp.subject)
	if err != nil {
		return err
	}
	w.sb.WriteString(subject)

	var predicates []string
	objects := make(map[string][]string)
	for _, st := range grp.statements {
		obj, err := w.term(st.Object)
		if err != nil {
			return err
		}
		key := st.Predicate.Value
		if _, ok := objects[key]; !ok {
			predicates = append(predicates, key)
		}
		objects[key] = append(objects[key], obj)
	}

	for i, key := range predicates {
		pred, err := w.predicate(rdf.Term{Value: key})
		if err != nil {
			return err
		}
		if i == 0 {
			w.sb.WriteString(" ")
		} else {
			w.sb.WriteString(" ;\n    ")
		}
		w.sb.WriteString(pred)
		w.sb.WriteString(" ")
		w.sb.WriteString(strings.Join(objects[key], ", "))
	}
	w.sb.WriteString(" .\n\n")
	return nil
}

func (w *turtleWriter) predicate(t rdf.Term) (string, error) {
	iri, err := iriText(t)
	if err != nil {
		return "", err
	}
	if iri == rdfType {
		return "a", nil
	}
	return w.term(t)
}

// term renders a term as a prefixed name where possible. Other terms keep
// their N-Triples form, which is valid Turtle.
func (w *turtleWriter) term(t rdf.Term) (string, error) {
	text, _, kind, err := t.Parts()
	if err != nil {
		return "", fmt.Errorf("invalid term %s: %w", t.Value, err)
	}
	if kind == rdf.IRI {
		if prefix, local, ok := w.ns.compact(text); ok {
			return prefix + ":" + local, nil
		}
	}
	return t.Value, nil
}
