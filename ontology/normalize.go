package ontology

import "strings"

// punctuation is the ASCII punctuation set minus the dash.
const punctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

// Normalize derives an identifier fragment from a free-text label.
//
// ASCII punctuation other than '-' is removed, the label is lowercased, and
// whitespace-separated words are joined with '_':
//
//	Normalize("Proximal Tubule Cell") == "proximal_tubule_cell"
//	Normalize("T-Cell, CD4+")         == "t-cell_cd4"
//
// Labels that reduce to an empty or purely numeric fragment are returned as
// is; callers that mint IRIs from them may collide.
func Normalize(label string) string {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(label))
	return strings.Join(strings.Fields(stripped), "_")
}
