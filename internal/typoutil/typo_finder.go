package typoutil

import (
	"strconv"
	"sync"
	"time"

	"github.com/gcbaptista/go-site-index/internal/logger"
)

// DefaultTimeLimit bounds a single typo lookup.
const DefaultTimeLimit = 50 * time.Millisecond

// TypoFinder looks up indexed terms close to a query term, with caching and a time limit.
type TypoFinder struct {
	mu           sync.RWMutex
	indexedTerms []string

	cache        map[string][]string // term + distance -> typos
	cacheMu      sync.Mutex
	maxCacheSize int
}

// NewTypoFinder creates a finder over indexedTerms.
func NewTypoFinder(indexedTerms []string) *TypoFinder {
	tf := &TypoFinder{maxCacheSize: 1000}
	tf.UpdateIndexedTerms(indexedTerms)
	return tf
}

// UpdateIndexedTerms replaces the term list and clears the cache. Call it when the index changes.
func (tf *TypoFinder) UpdateIndexedTerms(indexedTerms []string) {
	terms := make([]string, len(indexedTerms))
	copy(terms, indexedTerms)

	tf.mu.Lock()
	tf.indexedTerms = terms
	tf.mu.Unlock()

	tf.cacheMu.Lock()
	tf.cache = make(map[string][]string)
	tf.cacheMu.Unlock()
}

// GenerateTypos returns up to maxResults indexed terms within maxDistance of term, term itself excluded.
func (tf *TypoFinder) GenerateTypos(term string, maxDistance int, maxResults int) []string {
	return tf.GenerateTyposWithTimeLimit(term, maxDistance, maxResults, DefaultTimeLimit)
}

// GenerateTyposWithTimeLimit stops at maxResults matches or when timeLimit elapses, whichever comes first.
func (tf *TypoFinder) GenerateTyposWithTimeLimit(term string, maxDistance int, maxResults int, timeLimit time.Duration) []string {
	if maxDistance <= 0 || term == "" {
		return []string{}
	}

	cacheKey := term + "|" + strconv.Itoa(maxDistance)
	tf.cacheMu.Lock()
	cached, ok := tf.cache[cacheKey]
	tf.cacheMu.Unlock()
	if ok {
		if maxResults > 0 && len(cached) > maxResults {
			return cached[:maxResults]
		}
		return cached
	}

	tf.mu.RLock()
	terms := tf.indexedTerms
	tf.mu.RUnlock()

	typos := make([]string, 0)
	complete := true
	start := time.Now()
	for i, candidate := range terms {
		if time.Since(start) >= timeLimit {
			logger.Warn("typo search time limit reached (%s): found %d, %d terms unchecked (term='%s', distance=%d)",
				timeLimit, len(typos), len(terms)-i, term, maxDistance)
			complete = false
			break
		}
		if candidate == term {
			continue
		}
		dist := DamerauLevenshteinDistance(term, candidate, maxDistance)
		if dist > 0 && dist <= maxDistance {
			typos = append(typos, candidate)
			if maxResults > 0 && len(typos) >= maxResults {
				complete = false
				break
			}
		}
	}

	// Only full scans are cached; a truncated list would hide matches from later lookups.
	if !complete {
		return typos
	}
	tf.cacheMu.Lock()
	if len(tf.cache) < tf.maxCacheSize {
		tf.cache[cacheKey] = typos
	}
	tf.cacheMu.Unlock()

	return typos
}
