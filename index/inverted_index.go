package index

import (
	"github.com/gcbaptista/go-site-index/internal/tokenizer"
)

// FieldIndex maps the terms of one document field to the documents containing them.
// Fields are exported so the structure can be gob-encoded as an opaque chunk.
type FieldIndex struct {
	Field       string
	Terms       map[string]PostingList
	DocLengths  map[uint32]int // Whole-word token count of the field per document
	TotalLength int
}

// NewFieldIndex creates an empty index for field.
func NewFieldIndex(field string) *FieldIndex {
	return &FieldIndex{
		Field:      field,
		Terms:      make(map[string]PostingList),
		DocLengths: make(map[uint32]int),
	}
}

// ensureMaps initializes maps that may be nil after decoding an empty chunk.
func (fi *FieldIndex) ensureMaps() {
	if fi.Terms == nil {
		fi.Terms = make(map[string]PostingList)
	}
	if fi.DocLengths == nil {
		fi.DocLengths = make(map[uint32]int)
	}
}

// Add indexes the terms of one document. Any previous entries of docID must have been removed.
func (fi *FieldIndex) Add(docID uint32, terms []tokenizer.Term) {
	fi.ensureMaps()
	if len(terms) == 0 {
		return
	}

	termFrequencies := make(map[string]int)
	fullWords := make(map[string]bool)
	wordCount := 0
	for _, term := range terms {
		termFrequencies[term.Text]++
		if !term.IsPrefix {
			fullWords[term.Text] = true
			wordCount++
		}
	}

	for term, freq := range termFrequencies {
		fi.Terms[term] = fi.Terms[term].insert(PostingEntry{
			DocID:      docID,
			Score:      float64(freq),
			IsFullWord: fullWords[term],
		})
	}

	fi.DocLengths[docID] = wordCount
	fi.TotalLength += wordCount
}

// Remove drops every posting of docID for the given terms (the terms it was indexed with).
func (fi *FieldIndex) Remove(docID uint32, terms []tokenizer.Term) {
	fi.ensureMaps()
	for _, term := range terms {
		postingList, ok := fi.Terms[term.Text]
		if !ok {
			continue
		}
		newList := postingList.remove(docID)
		if len(newList) == 0 {
			delete(fi.Terms, term.Text)
		} else {
			fi.Terms[term.Text] = newList
		}
	}
	if length, ok := fi.DocLengths[docID]; ok {
		fi.TotalLength -= length
		delete(fi.DocLengths, docID)
	}
}

// Retain drops every posting and length entry of documents for which keep returns false.
// It returns the number of documents dropped.
func (fi *FieldIndex) Retain(keep func(docID uint32) bool) int {
	fi.ensureMaps()
	dropped := 0
	for docID, length := range fi.DocLengths {
		if keep(docID) {
			continue
		}
		fi.TotalLength -= length
		delete(fi.DocLengths, docID)
		dropped++
	}
	for term, postings := range fi.Terms {
		kept := postings[:0]
		for _, entry := range postings {
			if keep(entry.DocID) {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(fi.Terms, term)
		} else {
			fi.Terms[term] = kept
		}
	}
	return dropped
}

// Postings returns the posting list of term, or nil.
func (fi *FieldIndex) Postings(term string) PostingList {
	return fi.Terms[term]
}

// DocCount returns the number of documents with a non-empty value for this field.
func (fi *FieldIndex) DocCount() int {
	return len(fi.DocLengths)
}

// AverageLength returns the mean whole-word length of the field across its documents.
func (fi *FieldIndex) AverageLength() float64 {
	if len(fi.DocLengths) == 0 {
		return 0
	}
	return float64(fi.TotalLength) / float64(len(fi.DocLengths))
}

// TermList returns every indexed whole-word term of the field.
func (fi *FieldIndex) TermList() []string {
	terms := make([]string, 0, len(fi.Terms))
	for term, postings := range fi.Terms {
		for _, entry := range postings {
			if entry.IsFullWord {
				terms = append(terms, term)
				break
			}
		}
	}
	return terms
}

// InvertedIndex is a multi-field inverted index: one FieldIndex per searchable field.
type InvertedIndex struct {
	fields map[string]*FieldIndex
	order  []string
}

// NewInvertedIndex creates an index for the given fields, in priority order.
func NewInvertedIndex(fields []string) *InvertedIndex {
	ii := &InvertedIndex{
		fields: make(map[string]*FieldIndex, len(fields)),
		order:  append([]string(nil), fields...),
	}
	for _, field := range fields {
		ii.fields[field] = NewFieldIndex(field)
	}
	return ii
}

// Fields returns the indexed field names in priority order.
func (ii *InvertedIndex) Fields() []string {
	return ii.order
}

// Field returns the index of a field, or nil for unknown fields.
func (ii *InvertedIndex) Field(name string) *FieldIndex {
	return ii.fields[name]
}

// ReplaceField installs a decoded field index. Unknown fields are ignored and reported false.
func (ii *InvertedIndex) ReplaceField(fi *FieldIndex) bool {
	if fi == nil {
		return false
	}
	if _, known := ii.fields[fi.Field]; !known {
		return false
	}
	fi.ensureMaps()
	ii.fields[fi.Field] = fi
	return true
}

// Reset drops every posting while keeping the field layout.
func (ii *InvertedIndex) Reset() {
	for _, field := range ii.order {
		ii.fields[field] = NewFieldIndex(field)
	}
}
