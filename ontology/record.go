package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/c360studio/cedar2ccf/vocabulary/ccf"
)

// doiPrefix marks DOI values that are rewritten onto ccf.DOIResolver.
const doiPrefix = "doi:"

// Entity is an IRI-identified term with a human-readable label.
type Entity struct {
	IRI   string
	Label string
}

// Local reports whether the entity is minted in the CCF namespace.
func (e Entity) Local() bool {
	return strings.HasPrefix(e.IRI, ccf.Namespace)
}

// Marker is a gene or protein biomarker reference. An empty IRI marks a null
// or blank entry, which is kept in order but contributes no axioms.
type Marker struct {
	IRI string
}

// Empty reports whether the marker carries no IRI.
func (m Marker) Empty() bool {
	return m.IRI == ""
}

// DOI is a publication reference as entered in CEDAR.
type DOI struct {
	Value string
}

// IRI returns the resolvable form of a "doi:"-prefixed value. Other values
// report false and are not attached to the graph.
//
// Characters of the DOI that cannot appear in an IRI, or that would end the
// resolver path, are percent-encoded:
//
//	doi:10.1002/(SICI)1097-4636(199812)43:4<404::AID-JBM8>3.0.CO;2-Q
//	http://doi.org/10.1002/(SICI)1097-4636(199812)43:4%3C404::AID-JBM8%3E3.0.CO;2-Q
func (d DOI) IRI() (string, bool) {
	rest, ok := strings.CutPrefix(d.Value, doiPrefix)
	if !ok {
		return "", false
	}
	return ccf.DOIResolver + escapeDOI(rest), true
}

// doiEscaped are the printable ASCII characters escapeDOI encodes.
const doiEscaped = "<>\"{}|^`\\%#?"

func escapeDOI(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || c == 0x7f || strings.IndexByte(doiEscaped, c) >= 0 {
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0f])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Record is one CEDAR metadata instance.
type Record struct {
	// ID is the instance @id, kept for error reporting.
	ID string

	AnatomicalStructure Entity
	CellType            Entity
	GeneBiomarkers      []Marker
	ProteinBiomarkers   []Marker
	DOIs                []DOI
}

// BiomarkerSetLabel is the label of the record's characterizing biomarker set.
func (r Record) BiomarkerSetLabel() string {
	return "characterizing biomarker set of " + r.CellType.Label
}

// BiomarkerSetIRI is the IRI of the record's characterizing biomarker set.
func (r Record) BiomarkerSetIRI() string {
	return ccf.Namespace + Normalize(r.BiomarkerSetLabel())
}

type rawRecord struct {
	ID                  string          `json:"@id"`
	AnatomicalStructure json.RawMessage `json:"anatomical_structure"`
	CellType            json.RawMessage `json:"cell_type"`
	GeneBiomarker       json.RawMessage `json:"gene_biomarker"`
	ProteinBiomarker    json.RawMessage `json:"protein_biomarker"`
	DOI                 json.RawMessage `json:"doi"`
}

type rawTerm struct {
	ID    *string `json:"@id"`
	Label *string `json:"rdfs:label"`
}

type rawValue struct {
	Value *string `json:"@value"`
}

// ParseRecord decodes a CEDAR instance document and validates it.
//
// anatomical_structure, cell_type, gene_biomarker and protein_biomarker are
// required keys; doi is optional. Null biomarker or DOI entries are kept as
// empty values. Every failure is a *RecordError.
func ParseRecord(data []byte) (Record, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fieldError("", "", fmt.Errorf("decode instance: %w", err))
	}

	rec := Record{ID: raw.ID}
	var err error
	if rec.AnatomicalStructure, err = parseEntity(raw.ID, "anatomical_structure", raw.AnatomicalStructure); err != nil {
		return Record{}, err
	}
	if rec.CellType, err = parseEntity(raw.ID, "cell_type", raw.CellType); err != nil {
		return Record{}, err
	}
	if rec.GeneBiomarkers, err = parseMarkers(raw.ID, "gene_biomarker", raw.GeneBiomarker); err != nil {
		return Record{}, err
	}
	if rec.ProteinBiomarkers, err = parseMarkers(raw.ID, "protein_biomarker", raw.ProteinBiomarker); err != nil {
		return Record{}, err
	}
	if rec.DOIs, err = parseDOIs(raw.ID, raw.DOI); err != nil {
		return Record{}, err
	}

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ParseRecords parses a batch of instance documents. The first failure
// aborts and carries the document index.
func ParseRecords(docs []json.RawMessage) ([]Record, error) {
	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		rec, err := ParseRecord(doc)
		if err != nil {
			return nil, atIndex(err, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseEntity(id, field string, raw json.RawMessage) (Entity, error) {
	if raw == nil || isNull(raw) {
		return Entity{}, fieldError(id, field, errMissing)
	}
	var t rawTerm
	if err := json.Unmarshal(raw, &t); err != nil {
		return Entity{}, fieldError(id, field, errBadShape)
	}
	if t.ID == nil {
		return Entity{}, fieldError(id, field+".@id", errMissing)
	}
	if t.Label == nil {
		return Entity{}, fieldError(id, field+".rdfs:label", errMissing)
	}
	return Entity{IRI: *t.ID, Label: *t.Label}, nil
}

// parseMarkers keeps null and {} entries as empty markers. Any other entry
// must carry an @id.
func parseMarkers(id, field string, raw json.RawMessage) ([]Marker, error) {
	if raw == nil {
		return nil, fieldError(id, field, errMissing)
	}
	if isNull(raw) {
		return nil, nil
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fieldError(id, field, errBadShape)
	}
	markers := make([]Marker, len(entries))
	for i, e := range entries {
		if len(e) == 0 {
			continue
		}
		path := fmt.Sprintf("%s[%d].@id", field, i)
		v, ok := e["@id"]
		if !ok {
			return nil, fieldError(id, path, errMissing)
		}
		if err := json.Unmarshal(v, &markers[i].IRI); err != nil {
			return nil, fieldError(id, path, errBadShape)
		}
	}
	return markers, nil
}

func parseDOIs(id string, raw json.RawMessage) ([]DOI, error) {
	if raw == nil || isNull(raw) {
		return nil, nil
	}
	var entries []*rawValue
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fieldError(id, "doi", errBadShape)
	}
	dois := make([]DOI, len(entries))
	for i, e := range entries {
		if e != nil && e.Value != nil {
			dois[i].Value = *e.Value
		}
	}
	return dois, nil
}

// Validate checks that every term the mutator would mint is well formed.
func (r Record) Validate() error {
	_, err := r.resolve()
	return err
}

// resolvedRecord holds the RDF nodes for one record.
type resolvedRecord struct {
	anatomical      rdf.Term
	anatomicalLabel rdf.Term
	anatomicalLocal bool

	cellType      rdf.Term
	cellTypeLabel rdf.Term
	cellTypeLocal bool

	set      rdf.Term
	setLabel rdf.Term
	sources  []rdf.Term

	genes    []rdf.Term
	proteins []rdf.Term
}

func (r Record) resolve() (resolvedRecord, error) {
	var out resolvedRecord
	var err error

	if out.anatomical, err = entityNode(r.ID, "anatomical_structure", r.AnatomicalStructure); err != nil {
		return out, err
	}
	if out.anatomicalLocal = r.AnatomicalStructure.Local(); out.anatomicalLocal {
		if out.anatomicalLabel, err = labelNode(r.ID, "anatomical_structure", r.AnatomicalStructure.Label); err != nil {
			return out, err
		}
	}

	if out.cellType, err = entityNode(r.ID, "cell_type", r.CellType); err != nil {
		return out, err
	}
	// The cell type label names the biomarker set, so it is always required.
	if out.cellTypeLabel, err = labelNode(r.ID, "cell_type", r.CellType.Label); err != nil {
		return out, err
	}
	out.cellTypeLocal = r.CellType.Local()

	if out.set, err = IRI(r.BiomarkerSetIRI()); err != nil {
		return out, fieldError(r.ID, "cell_type.rdfs:label", fmt.Errorf("biomarker set IRI: %w", err))
	}
	if out.setLabel, err = Literal(r.BiomarkerSetLabel()); err != nil {
		return out, fieldError(r.ID, "cell_type.rdfs:label", err)
	}

	for i, d := range r.DOIs {
		iri, ok := d.IRI()
		if !ok {
			continue
		}
		node, err := IRI(iri)
		if err != nil {
			return out, fieldError(r.ID, fmt.Sprintf("doi[%d].@value", i), err)
		}
		out.sources = append(out.sources, node)
	}

	if out.genes, err = markerNodes(r.ID, "gene_biomarker", r.GeneBiomarkers); err != nil {
		return out, err
	}
	if out.proteins, err = markerNodes(r.ID, "protein_biomarker", r.ProteinBiomarkers); err != nil {
		return out, err
	}
	return out, nil
}

func entityNode(id, field string, e Entity) (rdf.Term, error) {
	if e.IRI == "" {
		return rdf.Term{}, fieldError(id, field+".@id", errEmpty)
	}
	node, err := IRI(e.IRI)
	if err != nil {
		return rdf.Term{}, fieldError(id, field+".@id", err)
	}
	return node, nil
}

func labelNode(id, field, label string) (rdf.Term, error) {
	if label == "" {
		return rdf.Term{}, fieldError(id, field+".rdfs:label", errEmpty)
	}
	node, err := Literal(label)
	if err != nil {
		return rdf.Term{}, fieldError(id, field+".rdfs:label", err)
	}
	return node, nil
}

func markerNodes(id, field string, markers []Marker) ([]rdf.Term, error) {
	var nodes []rdf.Term
	for i, m := range markers {
		if m.Empty() {
			continue
		}
		node, err := IRI(m.IRI)
		if err != nil {
			return nil, fieldError(id, fmt.Sprintf("%s[%d].@id", field, i), err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
