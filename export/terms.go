package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// localName matches local parts that can be written as a prefixed name in
// both Turtle and XML.
var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*[A-Za-z0-9_-]$|^[A-Za-z_]$`)

// namespaces maps IRIs to prefixed names using the longest bound namespace.
type namespaces struct {
	prefixes []string
	iris     map[string]string
}

func newNamespaces(prefixes map[string]string) *namespaces {
	ns := &namespaces{iris: make(map[string]string, len(prefixes))}
	for p, iri := range prefixes {
		ns.prefixes = append(ns.prefixes, p)
		ns.iris[p] = iri
	}
	sort.Strings(ns.prefixes)
	return ns
}

// bind adds a prefix unless it is already bound.
func (ns *namespaces) bind(prefix, iri string) {
	if _, ok := ns.iris[prefix]; ok {
		return
	}
	ns.iris[prefix] = iri
	ns.prefixes = append(ns.prefixes, prefix)
	sort.Strings(ns.prefixes)
}

// prefixFor returns the prefix bound to iri.
func (ns *namespaces) prefixFor(iri string) (string, bool) {
	for _, p := range ns.prefixes {
		if ns.iris[p] == iri {
			return p, true
		}
	}
	return "", false
}

// compact splits iri into a bound prefix and a valid local name.
func (ns *namespaces) compact(iri string) (prefix, local string, ok bool) {
	best := -1
	for _, p := range ns.prefixes {
		base := ns.iris[p]
		if !strings.HasPrefix(iri, base) || len(base) <= best {
			continue
		}
		l := iri[len(base):]
		if !localName.MatchString(l) {
			continue
		}
		prefix, local, best = p, l, len(base)
	}
	return prefix, local, best >= 0
}

// iriText returns the unescaped IRI of an IRI term.
func iriText(t rdf.Term) (string, error) {
	text, _, kind, err := t.Parts()
	if err != nil {
		return "", err
	}
	if kind != rdf.IRI {
		return "", fmt.Errorf("term %s is not an IRI", t.Value)
	}
	return text, nil
}
