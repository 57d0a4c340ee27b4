package export

import (
	"bufio"
	"io"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// writeNTriples writes one statement per line. Terms are already held in
// their N-Triples lexical form.
func writeNTriples(w io.Writer, statements []*rdf.Statement) error {
	bw := bufio.NewWriter(w)
	for _, st := range statements {
		if _, err := bw.WriteString(st.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
