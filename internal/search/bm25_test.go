package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/tokenizer"
)

func TestBM25_IDFFavorsRareTerms(t *testing.T) {
	fi := index.NewFieldIndex("content")
	fi.Add(1, tokenizer.TokenizeWholeWords("common rare"))
	fi.Add(2, tokenizer.TokenizeWholeWords("common"))
	fi.Add(3, tokenizer.TokenizeWholeWords("common"))

	calc := NewBM25Calculator(fi, 3)
	assert.Greater(t, calc.IDF("rare"), calc.IDF("common"))
	assert.Greater(t, calc.IDF("common"), 0.0, "a term in every document still scores")
	assert.Equal(t, 0.0, calc.IDF("missing"))
	assert.Equal(t, 0.0, NewBM25Calculator(fi, 0).IDF("rare"))
}

func TestBM25_ShorterDocumentsScoreHigher(t *testing.T) {
	fi := index.NewFieldIndex("content")
	fi.Add(1, tokenizer.TokenizeWholeWords("golang"))
	fi.Add(2, tokenizer.TokenizeWholeWords("golang with many other words around it"))

	calc := NewBM25Calculator(fi, 2)
	postings := fi.Postings("golang")
	scores := map[uint32]float64{}
	for _, entry := range postings {
		scores[entry.DocID] = calc.Score("golang", entry)
	}
	assert.Greater(t, scores[1], scores[2])
}

func TestBM25_PrefixMatchesWeighLess(t *testing.T) {
	calc := NewBM25Calculator(index.NewFieldIndex("title"), 1)
	fi := calc.field
	fi.Add(1, tokenizer.TokenizeWholeWords("word"))

	full := calc.Score("word", index.PostingEntry{DocID: 1, Score: 1, IsFullWord: true})
	prefix := calc.Score("word", index.PostingEntry{DocID: 1, Score: 1, IsFullWord: false})
	assert.Greater(t, full, prefix)
}
