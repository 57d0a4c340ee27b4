package export

import (
	"bytes"
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/ontology"
)

// Write serializes g to w in the given format.
func Write(w io.Writer, g *ontology.Graph, format Format) error {
	prefixes := g.Prefixes()
	statements := g.Statements()

	var err error
	switch format {
	case FormatTurtle:
		err = writeTurtle(w, prefixes, statements)
	case FormatRDFXML:
		err = writeRDFXML(w, prefixes, statements)
	case FormatNTriples:
		err = writeNTriples(w, statements)
	case FormatJSONLD:
		err = writeJSONLD(w, prefixes, statements)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

// Marshal returns the serialization of g in the given format.
func Marshal(g *ontology.Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// subjectGroup holds the statements of one subject in insertion order.
type subjectGroup struct {
	subject    rdf.Term
	statements []*rdf.Statement
}

// groupBySubject groups statements by subject, in first-seen subject order.
func groupBySubject(statements []*rdf.Statement) []*subjectGroup {
	index := make(map[string]*subjectGroup)
	var groups []*subjectGroup
	for _, st := range statements {
		grp, ok := index[st.Subject.Value]
		if !ok {
			grp = &subjectGroup{subject: st.Subject}
			index[st.Subject.Value] = grp
			groups = append(groups, grp)
		}
		grp.statements = append(grp.statements, st)
	}
	return groups
}
