package ontology

import (
	"maps"
	"strconv"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Graph is an append-only set of RDF statements with namespace bindings.
//
// Adding a statement that is already present is a no-op. Statements are never
// removed or rewritten. Iteration order is insertion order. A Graph has a
// single writer and is not safe for concurrent use.
type Graph struct {
	statements []*rdf.Statement
	index      map[string]struct{}
	prefixes   map[string]string
	blanks     int
}

// NewGraph returns an empty graph with no namespace bindings.
func NewGraph() *Graph {
	return &Graph{
		index:    make(map[string]struct{}),
		prefixes: make(map[string]string),
	}
}

// Bind associates a prefix with a namespace IRI for serialization.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Prefixes returns a copy of the namespace bindings.
func (g *Graph) Prefixes() map[string]string {
	return maps.Clone(g.prefixes)
}

// Add appends the statement (s, p, o) and reports whether it was new.
func (g *Graph) Add(s, p, o rdf.Term) bool {
	key := statementKey(s, p, o)
	if _, ok := g.index[key]; ok {
		return false
	}
	g.index[key] = struct{}{}
	g.statements = append(g.statements, &rdf.Statement{
		Subject:   rdf.Term{Value: s.Value},
		Predicate: rdf.Term{Value: p.Value},
		Object:    rdf.Term{Value: o.Value},
	})
	return true
}

// Has reports whether the statement (s, p, o) is in the graph.
func (g *Graph) Has(s, p, o rdf.Term) bool {
	_, ok := g.index[statementKey(s, p, o)]
	return ok
}

// Len returns the number of statements in the graph.
func (g *Graph) Len() int {
	return len(g.statements)
}

// Blank mints a fresh blank node. Labels are b1, b2, ... in creation order.
func (g *Graph) Blank() rdf.Term {
	g.blanks++
	t, err := rdf.NewBlankTerm("b" + strconv.Itoa(g.blanks))
	if err != nil {
		// The label alphabet is fixed; this cannot fail.
		panic("ontology: invalid blank node label: " + err.Error())
	}
	return t
}

// List appends an RDF collection holding items and returns its head.
// An empty list is rdf:nil.
func (g *Graph) List(items []rdf.Term) rdf.Term {
	if len(items) == 0 {
		return RDFNil
	}
	head := g.Blank()
	node := head
	for i, item := range items {
		g.Add(node, RDFFirst, item)
		if i == len(items)-1 {
			g.Add(node, RDFRest, RDFNil)
			break
		}
		next := g.Blank()
		g.Add(node, RDFRest, next)
		node = next
	}
	return head
}

// Statements returns a copy of the statements in insertion order.
func (g *Graph) Statements() []*rdf.Statement {
	out := make([]*rdf.Statement, len(g.statements))
	for i, s := range g.statements {
		c := *s
		out[i] = &c
	}
	return out
}

// Objects returns the objects of all statements matching (s, p, *).
func (g *Graph) Objects(s, p rdf.Term) []rdf.Term {
	var out []rdf.Term
	for _, st := range g.statements {
		if st.Subject.Value == s.Value && st.Predicate.Value == p.Value {
			out = append(out, st.Object)
		}
	}
	return out
}

// Subjects returns the subjects of all statements matching (*, p, o).
func (g *Graph) Subjects(p, o rdf.Term) []rdf.Term {
	var out []rdf.Term
	for _, st := range g.statements {
		if st.Predicate.Value == p.Value && st.Object.Value == o.Value {
			out = append(out, st.Subject)
		}
	}
	return out
}

// Collection returns the members of the RDF list starting at head.
func (g *Graph) Collection(head rdf.Term) []rdf.Term {
	var items []rdf.Term
	seen := make(map[string]bool)
	for head.Value != RDFNil.Value && !seen[head.Value] {
		seen[head.Value] = true
		first := g.Objects(head, RDFFirst)
		if len(first) == 0 {
			break
		}
		items = append(items, first[0])
		rest := g.Objects(head, RDFRest)
		if len(rest) == 0 {
			break
		}
		head = rest[0]
	}
	return items
}

func statementKey(s, p, o rdf.Term) string {
	return s.Value + " " + p.Value + " " + o.Value
}
