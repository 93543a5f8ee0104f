package search

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/index"
	"github.com/gcbaptista/go-site-index/internal/tokenizer"
	"github.com/gcbaptista/go-site-index/internal/typoutil"
	"github.com/gcbaptista/go-site-index/services"
	"github.com/gcbaptista/go-site-index/store"
)

const (
	// maxTypoExpansions caps the typo candidates considered per query token.
	maxTypoExpansions = 20
	// typoMatchWeight scales the score of postings reached through a typo candidate.
	typoMatchWeight = 0.5
)

// Service implements the search logic over the per-field inverted index.
// It fulfills the services.Searcher interface. Callers hold the engine read lock.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      config.IndexSettings

	typoMu     sync.Mutex
	typoFinder *typoutil.TypoFinder // Rebuilt lazily after the index changes
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings config.IndexSettings) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
	}, nil
}

// Invalidate discards the typo term list. Call it after the index changes.
func (s *Service) Invalidate() {
	s.typoMu.Lock()
	s.typoFinder = nil
	s.typoMu.Unlock()
}

func (s *Service) finder() *typoutil.TypoFinder {
	s.typoMu.Lock()
	defer s.typoMu.Unlock()

	if s.typoFinder == nil {
		seen := make(map[string]struct{})
		terms := make([]string, 0)
		for _, field := range s.invertedIndex.Fields() {
			for _, term := range s.invertedIndex.Field(field).TermList() {
				if _, ok := seen[term]; ok {
					continue
				}
				seen[term] = struct{}{}
				terms = append(terms, term)
			}
		}
		sort.Strings(terms)
		s.typoFinder = typoutil.NewTypoFinder(terms)
	}
	return s.typoFinder
}

// Search runs query against every searchable field and merges the per-field hit lists.
func (s *Service) Search(query string, opts services.SearchOptions) (services.SearchResult, error) {
	startTime := time.Now()

	limit := opts.Limit
	if limit <= 0 {
		limit = s.settings.DefaultLimit
	}
	if s.settings.MaxLimit > 0 && limit > s.settings.MaxLimit {
		limit = s.settings.MaxLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	result := services.SearchResult{
		Hits:    []services.HitResult{},
		Offset:  offset,
		Limit:   limit,
		QueryID: uuid.New().String(),
	}

	queryTokens := tokenizer.UniqueTokens(query)
	if len(queryTokens) == 0 {
		result.Took = time.Since(startTime).Milliseconds()
		return result, nil
	}

	var expansions map[string][]string
	if opts.Suggest {
		expansions = s.typoExpansions(queryTokens)
	}

	totalDocs := s.documentStore.Count()
	merged := make([]*mergedHit, 0)
	byDoc := make(map[uint32]*mergedHit)

	for _, field := range s.invertedIndex.Fields() {
		fieldIndex := s.invertedIndex.Field(field)
		calc := NewBM25Calculator(fieldIndex, totalDocs)

		var hits []fieldHit
		if opts.Suggest {
			hits = s.matchAny(fieldIndex, calc, queryTokens, expansions)
		} else {
			hits = s.matchAll(fieldIndex, calc, queryTokens)
		}

		for _, hit := range hits {
			if existing, ok := byDoc[hit.docID]; ok {
				existing.fields = append(existing.fields, field)
				continue
			}
			mh := &mergedHit{docID: hit.docID, fields: []string{field}, score: hit.score}
			byDoc[hit.docID] = mh
			merged = append(merged, mh)
		}
	}

	resolved := make([]services.HitResult, 0, len(merged))
	for _, mh := range merged {
		doc, ok := s.documentStore.GetByInternalID(mh.docID)
		if !ok {
			continue // Posting left behind by a chunk that failed to import
		}
		resolved = append(resolved, services.HitResult{Document: doc, Fields: mh.fields, Score: mh.score})
	}

	result.Total = len(resolved)
	if offset < len(resolved) {
		end := offset + limit
		if end > len(resolved) {
			end = len(resolved)
		}
		result.Hits = resolved[offset:end]
	}
	result.Took = time.Since(startTime).Milliseconds()
	return result, nil
}

// matchAll returns the documents whose field contains every query token, best BM25 score first.
func (s *Service) matchAll(fieldIndex *index.FieldIndex, calc *BM25Calculator, queryTokens []string) []fieldHit {
	var scores map[uint32]float64
	for i, token := range queryTokens {
		postings := fieldIndex.Postings(token)
		if len(postings) == 0 {
			return nil
		}

		next := make(map[uint32]float64, len(postings))
		for _, entry := range postings {
			if i > 0 {
				previous, ok := scores[entry.DocID]
				if !ok {
					continue
				}
				next[entry.DocID] = previous + calc.Score(token, entry)
			} else {
				next[entry.DocID] = calc.Score(token, entry)
			}
		}
		if len(next) == 0 {
			return nil
		}
		scores = next
	}

	hits := make([]fieldHit, 0, len(scores))
	for docID, score := range scores {
		hits = append(hits, fieldHit{docID: docID, score: score, matchedTokens: len(queryTokens)})
	}
	sortFieldHits(hits)
	return hits
}

// matchAny returns the documents whose field contains at least one query token or one of its
// typo candidates, ranked by the number of tokens matched and then by score.
func (s *Service) matchAny(fieldIndex *index.FieldIndex, calc *BM25Calculator, queryTokens []string, expansions map[string][]string) []fieldHit {
	byDoc := make(map[uint32]*fieldHit)

	for _, token := range queryTokens {
		tokenScores := make(map[uint32]float64)
		for _, entry := range fieldIndex.Postings(token) {
			tokenScores[entry.DocID] = calc.Score(token, entry)
		}
		for _, typo := range expansions[token] {
			for _, entry := range fieldIndex.Postings(typo) {
				score := calc.Score(typo, entry) * typoMatchWeight
				if score > tokenScores[entry.DocID] {
					tokenScores[entry.DocID] = score
				}
			}
		}

		for docID, score := range tokenScores {
			hit, ok := byDoc[docID]
			if !ok {
				hit = &fieldHit{docID: docID}
				byDoc[docID] = hit
			}
			hit.matchedTokens++
			hit.score += score
		}
	}

	hits := make([]fieldHit, 0, len(byDoc))
	for _, hit := range byDoc {
		hits = append(hits, *hit)
	}
	sortFieldHits(hits)
	return hits
}

// typoExpansions finds typo candidates for every query token that matches nothing as typed.
func (s *Service) typoExpansions(queryTokens []string) map[string][]string {
	expansions := make(map[string][]string)
	for _, token := range queryTokens {
		if s.hasExactMatch(token) {
			continue
		}
		maxDistance := typoutil.MaxDistanceFor(token, s.settings.MinWordSizeFor1Typo, s.settings.MinWordSizeFor2Typos)
		if maxDistance == 0 {
			continue
		}
		if typos := s.finder().GenerateTypos(token, maxDistance, maxTypoExpansions); len(typos) > 0 {
			expansions[token] = typos
		}
	}
	return expansions
}

func (s *Service) hasExactMatch(token string) bool {
	for _, field := range s.invertedIndex.Fields() {
		if len(s.invertedIndex.Field(field).Postings(token)) > 0 {
			return true
		}
	}
	return false
}

// sortFieldHits orders hits by matched token count, then score, then internal ID for stability.
func sortFieldHits(hits []fieldHit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].matchedTokens != hits[j].matchedTokens {
			return hits[i].matchedTokens > hits[j].matchedTokens
		}
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].docID < hits[j].docID
	})
}
