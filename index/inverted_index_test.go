package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-site-index/internal/tokenizer"
)

func TestFieldIndex_AddAndPostings(t *testing.T) {
	fi := NewFieldIndex("title")
	fi.Add(1, tokenizer.TokenizeWithPrefixNGrams("search search engine"))
	fi.Add(2, tokenizer.TokenizeWithPrefixNGrams("search"))

	postings := fi.Postings("search")
	require.Len(t, postings, 2)
	assert.Equal(t, uint32(1), postings[0].DocID, "higher frequency ranks first")
	assert.Equal(t, 2.0, postings[0].Score)
	assert.True(t, postings[0].IsFullWord)
	assert.Equal(t, uint32(2), postings[1].DocID)

	prefix := fi.Postings("sea")
	require.Len(t, prefix, 2)
	assert.False(t, prefix[0].IsFullWord)

	assert.Equal(t, 3, fi.DocLengths[1])
	assert.Equal(t, 1, fi.DocLengths[2])
	assert.Equal(t, 2, fi.DocCount())
	assert.InDelta(t, 2.0, fi.AverageLength(), 0.0001)
}

func TestFieldIndex_TieBreakByDocID(t *testing.T) {
	fi := NewFieldIndex("title")
	fi.Add(7, tokenizer.TokenizeWholeWords("go"))
	fi.Add(3, tokenizer.TokenizeWholeWords("go"))
	fi.Add(5, tokenizer.TokenizeWholeWords("go"))

	postings := fi.Postings("go")
	require.Len(t, postings, 3)
	assert.Equal(t, []uint32{3, 5, 7}, []uint32{postings[0].DocID, postings[1].DocID, postings[2].DocID})
}

func TestFieldIndex_Remove(t *testing.T) {
	fi := NewFieldIndex("content")
	terms := tokenizer.TokenizeWholeWords("alpha beta")
	fi.Add(1, terms)
	fi.Add(2, tokenizer.TokenizeWholeWords("alpha"))

	fi.Remove(1, terms)

	assert.Nil(t, fi.Postings("beta"))
	require.Len(t, fi.Postings("alpha"), 1)
	assert.Equal(t, uint32(2), fi.Postings("alpha")[0].DocID)
	assert.Equal(t, 1, fi.TotalLength)
	_, ok := fi.DocLengths[1]
	assert.False(t, ok)
}

func TestFieldIndex_Retain(t *testing.T) {
	fi := NewFieldIndex("title")
	fi.Add(0, tokenizer.TokenizeWithPrefixNGrams("zebra handbook"))
	fi.Add(1, tokenizer.TokenizeWithPrefixNGrams("zebra"))

	dropped := fi.Retain(func(docID uint32) bool { return docID == 1 })

	assert.Equal(t, 1, dropped)
	assert.Nil(t, fi.Postings("handbook"))
	assert.Nil(t, fi.Postings("hand"))
	require.Len(t, fi.Postings("zebra"), 1)
	assert.Equal(t, uint32(1), fi.Postings("zebra")[0].DocID)
	assert.Equal(t, 1, fi.DocCount())
	assert.Equal(t, 1, fi.TotalLength)
}

func TestFieldIndex_TermListSkipsPrefixOnlyTerms(t *testing.T) {
	fi := NewFieldIndex("title")
	fi.Add(1, tokenizer.TokenizeWithPrefixNGrams("docs"))

	assert.ElementsMatch(t, []string{"docs"}, fi.TermList())
}

func TestInvertedIndex_ReplaceField(t *testing.T) {
	ii := NewInvertedIndex([]string{"title", "content"})
	assert.Equal(t, []string{"title", "content"}, ii.Fields())

	replacement := &FieldIndex{Field: "title"}
	assert.True(t, ii.ReplaceField(replacement))
	assert.Same(t, replacement, ii.Field("title"))
	assert.NotNil(t, replacement.Terms, "maps are initialized after replacement")

	assert.False(t, ii.ReplaceField(&FieldIndex{Field: "unknown"}))
	assert.False(t, ii.ReplaceField(nil))

	ii.Field("content").Add(1, tokenizer.TokenizeWholeWords("x"))
	ii.Reset()
	assert.Equal(t, 0, ii.Field("content").DocCount())
}
