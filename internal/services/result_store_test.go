package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

func TestResultStore(t *testing.T) {
	store := NewResultStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &domain.AnalysisResult{Success: true, AnalysisType: domain.AnalysisTypeContraidos}

	store.Put(domain.NewStoredAnalysis("b", result, base.Add(time.Hour)), nil)
	store.Put(domain.NewStoredAnalysis("a", result, base.Add(time.Hour)), &domain.Table{Columns: []string{"x"}})
	store.Put(domain.NewStoredAnalysis("c", result, base), nil)

	assert.Equal(t, 3, store.Count())

	var ids []string
	for _, s := range store.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, domain.AnalysisStatusCompleted, got.Status)

	table, ok := store.Original("a")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, table.Columns)

	_, ok = store.Original("b")
	assert.False(t, ok)
	_, ok = store.Get("zzz")
	assert.False(t, ok)
}
