package tokenizer

import (
	"regexp"
	"strings"
)

// nonWordRegex matches sequences of characters that are neither letters nor digits in any script.
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// MinPrefixLength is the shortest prefix n-gram generated for a token.
const MinPrefixLength = 2

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	lowerText := strings.ToLower(text)
	split := nonWordRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// UniqueTokens tokenizes text and drops repeated tokens, keeping first-occurrence order.
func UniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}

// GeneratePrefixNGrams creates the proper prefixes of a token from MinPrefixLength runes up to,
// but excluding, the full token. For "search" it produces "se", "sea", "sear", "searc".
func GeneratePrefixNGrams(token string) []string {
	runes := []rune(token)
	if len(runes) <= MinPrefixLength {
		return make([]string, 0) // Return empty slice instead of nil
	}

	ngrams := make([]string, 0, len(runes)-MinPrefixLength)
	for i := MinPrefixLength; i < len(runes); i++ {
		ngrams = append(ngrams, string(runes[:i]))
	}
	return ngrams
}

// Term is a token emitted for indexing. Prefix terms were generated from a longer word.
type Term struct {
	Text     string
	IsPrefix bool
}

// TokenizeWithPrefixNGrams returns every token of text as a full-word term, followed by its prefix
// n-grams. Repeated tokens are kept so callers can count term frequencies; a prefix that is also a
// full word elsewhere in the text is reported only as the full word.
func TokenizeWithPrefixNGrams(text string) []Term {
	tokens := Tokenize(text)

	fullWords := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		fullWords[token] = struct{}{}
	}

	result := make([]Term, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, Term{Text: token})
		for _, ngram := range GeneratePrefixNGrams(token) {
			if _, isWord := fullWords[ngram]; isWord {
				continue
			}
			result = append(result, Term{Text: ngram, IsPrefix: true})
		}
	}
	return result
}

// TokenizeWholeWords returns every token of text as a full-word term.
func TokenizeWholeWords(text string) []Term {
	tokens := Tokenize(text)
	result := make([]Term, len(tokens))
	for i, token := range tokens {
		result[i] = Term{Text: token}
	}
	return result
}
