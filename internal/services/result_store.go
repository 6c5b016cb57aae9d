package services

import (
	"sort"

	"github.com/patrickmn/go-cache"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

type storedEntry struct {
	analysis *domain.StoredAnalysis
	original *domain.Table
}

// ResultStore keeps analysis results in memory for the life of the process.
// Entries never expire; the parsed table is kept next to each result so it
// can be exported with the analysis.
type ResultStore struct {
	cache *cache.Cache
}

// NewResultStore creates an empty store
func NewResultStore() *ResultStore {
	return &ResultStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Put stores an analysis and the table it was computed from
func (s *ResultStore) Put(analysis *domain.StoredAnalysis, original *domain.Table) {
	s.cache.Set(analysis.ID, storedEntry{analysis: analysis, original: original}, cache.NoExpiration)
}

// Get returns the analysis stored under id
func (s *ResultStore) Get(id string) (*domain.StoredAnalysis, bool) {
	entry, ok := s.entry(id)
	if !ok {
		return nil, false
	}
	return entry.analysis, true
}

// Original returns the table the analysis was computed from
func (s *ResultStore) Original(id string) (*domain.Table, bool) {
	entry, ok := s.entry(id)
	if !ok || entry.original == nil {
		return nil, false
	}
	return entry.original, true
}

// List returns every stored analysis ordered by creation time
func (s *ResultStore) List() []*domain.StoredAnalysis {
	items := s.cache.Items()
	out := make([]*domain.StoredAnalysis, 0, len(items))
	for _, item := range items {
		if entry, ok := item.Object.(storedEntry); ok {
			out = append(out, entry.analysis)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of stored analyses
func (s *ResultStore) Count() int {
	return s.cache.ItemCount()
}

func (s *ResultStore) entry(id string) (storedEntry, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return storedEntry{}, false
	}
	entry, ok := v.(storedEntry)
	return entry, ok
}
