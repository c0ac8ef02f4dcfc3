package domain

// Keyword is a search term ranked by how often it appears in the source text.
type Keyword struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}

// Terms returns the bare terms of a ranked keyword set, preserving order.
func Terms(keywords []Keyword) []string {
	terms := make([]string, len(keywords))
	for i, k := range keywords {
		terms[i] = k.Term
	}
	return terms
}
