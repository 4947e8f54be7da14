package exporter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timecardcli/internal/errors"
	"timecardcli/pkg/contracts/domain"
)

func openTestStore(t *testing.T) (*HistoryStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "history.db")
	store, err := OpenHistoryStore(context.Background(), path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestHistoryStoreRecordAndList(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := NewRunRecord("run-1", base, base.Add(time.Second), []string{"a.xlsx"}, sampleResult())
	second := NewRunRecord("run-2", base.Add(time.Hour), base.Add(time.Hour+time.Second), []string{"b.xlsx", "c.xlsx"}, &domain.AnalysisResult{})

	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].RunID, "newest first")
	assert.Equal(t, []string{"b.xlsx", "c.xlsx"}, runs[0].Inputs)
	assert.Empty(t, runs[0].Flagged[domain.CategoryConsecutiveDays])

	got := runs[1]
	assert.Equal(t, first.RunID, got.RunID)
	assert.True(t, first.StartedAt.Equal(got.StartedAt))
	assert.True(t, first.FinishedAt.Equal(got.FinishedAt))
	assert.Equal(t, first.Stats, got.Stats)
	assert.Equal(t, []string{"Alice", "Bob"}, got.Flagged[domain.CategoryConsecutiveDays])
	assert.Equal(t, []string{}, got.Flagged[domain.CategoryShortRestGap])
	assert.Equal(t, []string{"Carol"}, got.Flagged[domain.CategoryLongShift])
}

func TestHistoryStoreListLimit(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		start := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Record(ctx, NewRunRecord(id, start, start, nil, &domain.AnalysisResult{})))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Equal(t, "b", runs[1].RunID)
}

func TestHistoryStoreReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)

	now := time.Now()
	require.NoError(t, store.Record(ctx, NewRunRecord("persisted", now, now, []string{"x.xlsx"}, sampleResult())))
	require.NoError(t, store.Close())

	reopened, err := OpenHistoryStore(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "persisted", runs[0].RunID)
}

func TestHistoryStoreDuplicateRun(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	now := time.Now()
	run := NewRunRecord("dup", now, now, nil, sampleResult())
	require.NoError(t, store.Record(ctx, run))

	err := store.Record(ctx, run)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Flagged[domain.CategoryConsecutiveDays], 2, "failed insert leaves no extra flags")
}
