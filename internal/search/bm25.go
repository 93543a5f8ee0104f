package search

import (
	"math"

	"github.com/gcbaptista/go-site-index/index"
)

// BM25 parameters
const (
	bm25K1 = 1.2  // Controls term frequency saturation
	bm25B  = 0.75 // Controls how much effect document length has

	// prefixMatchWeight scales the term frequency of postings generated from prefix n-grams,
	// so a whole-word match outranks a prefix match with the same frequency.
	prefixMatchWeight = 0.5
)

// BM25Calculator scores postings of a single field.
type BM25Calculator struct {
	field     *index.FieldIndex
	totalDocs int
}

// NewBM25Calculator creates a calculator for field over a corpus of totalDocs documents.
func NewBM25Calculator(field *index.FieldIndex, totalDocs int) *BM25Calculator {
	return &BM25Calculator{field: field, totalDocs: totalDocs}
}

// IDF returns the inverse document frequency of term within the field.
// IDF = log(1 + (N - df + 0.5) / (df + 0.5)), which stays positive when every document matches.
func (calc *BM25Calculator) IDF(term string) float64 {
	if calc.totalDocs == 0 {
		return 0.0
	}
	docFreq := len(calc.field.Postings(term))
	if docFreq == 0 {
		return 0.0
	}
	n := float64(calc.totalDocs)
	df := float64(docFreq)
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Score calculates the BM25 contribution of one posting of term.
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (calc *BM25Calculator) Score(term string, entry index.PostingEntry) float64 {
	tf := entry.Score
	if !entry.IsFullWord {
		tf *= prefixMatchWeight
	}
	if tf <= 0 {
		return 0.0
	}

	docLength := float64(calc.field.DocLengths[entry.DocID])
	avgDocLength := calc.field.AverageLength()
	if avgDocLength == 0 {
		avgDocLength = 1
	}

	bm25TF := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(docLength/avgDocLength)))
	return calc.IDF(term) * bm25TF
}
