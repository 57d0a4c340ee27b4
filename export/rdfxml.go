package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

const rdfNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// rdfXMLWriter writes one rdf:Description element per subject.
type rdfXMLWriter struct {
	enc *xml.Encoder
	ns  *namespaces
}

func writeRDFXML(w io.Writer, prefixes map[string]string, statements []*rdf.Statement) error {
	ns := newNamespaces(prefixes)
	if _, ok := ns.prefixFor(rdfNamespace); !ok {
		ns.bind("rdf", rdfNamespace)
	}
	if err := bindPredicateNamespaces(ns, statements); err != nil {
		return err
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	rw := &rdfXMLWriter{enc: xml.NewEncoder(w), ns: ns}
	rw.enc.Indent("", "  ")

	root := xml.StartElement{Name: rw.qname(rdfNamespace, "RDF")}
	for _, prefix := range ns.prefixes {
		root.Attr = append(root.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:" + prefix}, Value: ns.iris[prefix]})
	}
	if err := rw.enc.EncodeToken(root); err != nil {
		return err
	}
	for _, grp := range groupBySubject(statements) {
		if err := rw.writeDescription(grp); err != nil {
			return err
		}
	}
	if err := rw.enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := rw.enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// bindPredicateNamespaces makes sure every predicate can be written as an
// element name, binding ns1, ns2, ... for namespaces that have no prefix.
func bindPredicateNamespaces(ns *namespaces, statements []*rdf.Statement) error {
	generated := 0
	for _, st := range statements {
		iri, err := iriText(st.Predicate)
		if err != nil {
			return err
		}
		if _, _, ok := ns.compact(iri); ok {
			continue
		}
		base, local, ok := splitIRI(iri)
		if !ok {
			return fmt.Errorf("predicate %s cannot be written as an XML element name", iri)
		}
		if _, bound := ns.prefixFor(base); bound {
			return fmt.Errorf("predicate %s has an invalid local name %q", iri, local)
		}
		for {
			generated++
			prefix := "ns" + strconv.Itoa(generated)
			if _, taken := ns.iris[prefix]; !taken {
				ns.bind(prefix, base)
				break
			}
		}
	}
	return nil
}

// splitIRI splits an IRI after its last '#' or '/'.
func splitIRI(iri string) (base, local string, ok bool) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || i == len(iri)-1 {
		return "", "", false
	}
	base, local = iri[:i+1], iri[i+1:]
	return base, local, localName.MatchString(local)
}

func (w *rdfXMLWriter) qname(namespace, local string) xml.Name {
	prefix, _ := w.ns.prefixFor(namespace)
	return xml.Name{Local: prefix + ":" + local}
}

func (w *rdfXMLWriter) writeDescription(grp *subjectGroup) error {
	start := xml.StartElement{Name: w.qname(rdfNamespace, "Description")}
	attr, err := w.nodeAttr(grp.subject, "about")
	if err != nil {
		return err
	}
	start.Attr = []xml.Attr{attr}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	for _, st := range grp.statements {
		if err := w.writeProperty(st); err != nil {
			return err
		}
	}
	return w.enc.EncodeToken(start.End())
}

func (w *rdfXMLWriter) writeProperty(st *rdf.Statement) error {
	iri, err := iriText(st.Predicate)
	if err != nil {
		return err
	}
	prefix, local, ok := w.ns.compact(iri)
	if !ok {
		return fmt.Errorf("predicate %s has no bound namespace", iri)
	}
	el := xml.StartElement{Name: xml.Name{Local: prefix + ":" + local}}

	text, qual, kind, err := st.Object.Parts()
	if err != nil {
		return fmt.Errorf("invalid term %s: %w", st.Object.Value, err)
	}
	switch kind {
	case rdf.IRI, rdf.Blank:
		attr, err := w.nodeAttr(st.Object, "resource")
		if err != nil {
			return err
		}
		el.Attr = append(el.Attr, attr)
		if err := w.enc.EncodeToken(el); err != nil {
			return err
		}
	case rdf.Literal:
		switch {
		case strings.HasPrefix(qual, "@"):
			el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "xml:lang"}, Value: qual[1:]})
		case qual != "":
			el.Attr = append(el.Attr, xml.Attr{Name: w.qname(rdfNamespace, "datatype"), Value: qual})
		}
		if err := w.enc.EncodeToken(el); err != nil {
			return err
		}
		if err := w.enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid object term %s", st.Object.Value)
	}
	return w.enc.EncodeToken(el.End())
}

// nodeAttr returns rdf:<iriAttr> for IRIs and rdf:nodeID for blank nodes.
func (w *rdfXMLWriter) nodeAttr(t rdf.Term, iriAttr string) (xml.Attr, error) {
	text, _, kind, err := t.Parts()
	if err != nil {
		return xml.Attr{}, fmt.Errorf("invalid term %s: %w", t.Value, err)
	}
	switch kind {
	case rdf.IRI:
		return xml.Attr{Name: w.qname(rdfNamespace, iriAttr), Value: text}, nil
	case rdf.Blank:
		return xml.Attr{Name: w.qname(rdfNamespace, "nodeID"), Value: text}, nil
	default:
		return xml.Attr{}, fmt.Errorf("term %s cannot be a node", t.Value)
	}
}
