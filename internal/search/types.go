package search

// fieldHit is a document matched within one field during query processing.
type fieldHit struct {
	docID         uint32
	score         float64
	matchedTokens int // Query tokens matched; always all of them outside suggest mode
}

// mergedHit accumulates the fields a document matched, in field priority order.
type mergedHit struct {
	docID  uint32
	fields []string
	score  float64 // Score in the first field that matched
}
