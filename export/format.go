package export

import (
	"fmt"
	"slices"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatRDFXML produces RDF/XML (.owl) output.
	FormatRDFXML Format = "rdfxml"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Aliases are alternative names accepted by ParseFormat.
	Aliases []string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Aliases:     []string{"ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extension:   ".owl",
		Aliases:     []string{"xml", "owl", "rdf", "rdf/xml"},
		Description: "RDF/XML - the OWL exchange syntax",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Aliases:     []string{"nt", "n-triples"},
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Aliases:     []string{"json-ld"},
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats returns the supported format names in sorted order.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ParseFormat resolves a format name, alias or file extension.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for f, info := range FormatRegistry {
		if name == string(f) || slices.Contains(info.Aliases, name) || "."+name == info.Extension {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %q", s)
}

// FormatForPath guesses the format from a file name's extension.
func FormatForPath(path string) (Format, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || strings.ContainsAny(path[i:], "/\\") {
		return "", false
	}
	ext := strings.ToLower(path[i:])
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, true
		}
	}
	return "", false
}
