package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// jsonldDocument represents a flattened JSON-LD document.
type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []*jsonldNode     `json:"@graph"`
}

// jsonldNode represents a node in a JSON-LD graph. Properties are keyed by
// full predicate IRI.
type jsonldNode struct {
	ID         string
	Type       []string
	Properties map[string][]map[string]string
}

// MarshalJSON implements custom JSON marshaling for jsonldNode.
func (n *jsonldNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

func writeJSONLD(w io.Writer, prefixes map[string]string, statements []*rdf.Statement) error {
	doc := jsonldDocument{Context: prefixes, Graph: []*jsonldNode{}}
	for _, grp := range groupBySubject(statements) {
		node, err := newJSONLDNode(grp)
		if err != nil {
			return err
		}
		doc.Graph = append(doc.Graph, node)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func newJSONLDNode(grp *subjectGroup) (*jsonldNode, error) {
	id, err := jsonldID(grp.subject)
	if err != nil {
		return nil, err
	}
	node := &jsonldNode{ID: id, Properties: make(map[string][]map[string]string)}
	for _, st := range grp.statements {
		pred, err := iriText(st.Predicate)
		if err != nil {
			return nil, err
		}
		text, qual, kind, err := st.Object.Parts()
		if err != nil {
			return nil, fmt.Errorf("invalid term %s: %w", st.Object.Value, err)
		}
		if pred == rdfType && kind == rdf.IRI {
			node.Type = append(node.Type, text)
			continue
		}

		var value map[string]string
		switch kind {
		case rdf.IRI:
			value = map[string]string{"@id": text}
		case rdf.Blank:
			value = map[string]string{"@id": "_:" + text}
		case rdf.Literal:
			value = map[string]string{"@value": text}
			switch {
			case strings.HasPrefix(qual, "@"):
				value["@language"] = qual[1:]
			case qual != "":
				value["@type"] = qual
			}
		default:
			return nil, fmt.Errorf("invalid object term %s", st.Object.Value)
		}
		node.Properties[pred] = append(node.Properties[pred], value)
	}
	return node, nil
}

func jsonldID(t rdf.Term) (string, error) {
	text, _, kind, err := t.Parts()
	if err != nil {
		return "", fmt.Errorf("invalid term %s: %w", t.Value, err)
	}
	switch kind {
	case rdf.IRI:
		return text, nil
	case rdf.Blank:
		return "_:" + text, nil
	default:
		return "", fmt.Errorf("term %s cannot be a subject", t.Value)
	}
}
