package index

// PostingEntry represents a document that contains a term within one field.
type PostingEntry struct {
	DocID      uint32  // Internal numeric ID for efficiency
	Score      float64 // Term frequency within this field for this document
	IsFullWord bool    // False when the term is a generated prefix n-gram of a longer word
}

// PostingList is a slice of PostingEntry sorted by Score descending, then DocID ascending.
type PostingList []PostingEntry

// insert adds or replaces the entry for entry.DocID keeping the list order.
func (pl PostingList) insert(entry PostingEntry) PostingList {
	pl = pl.remove(entry.DocID)

	insertionIdx := 0
	for insertionIdx < len(pl) {
		current := pl[insertionIdx]
		if current.Score < entry.Score || (current.Score == entry.Score && current.DocID > entry.DocID) {
			break
		}
		insertionIdx++
	}

	pl = append(pl, PostingEntry{})              // Allocate space
	copy(pl[insertionIdx+1:], pl[insertionIdx:]) // Shift elements
	pl[insertionIdx] = entry                     // Insert
	return pl
}

// remove drops the entry for docID, if present.
func (pl PostingList) remove(docID uint32) PostingList {
	for i, entry := range pl {
		if entry.DocID == docID {
			return append(pl[:i], pl[i+1:]...)
		}
	}
	return pl
}
