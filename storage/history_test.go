package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagwarden/tagwarden/types"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(score float64, total int) *types.MultiRegionComplianceResult {
	return &types.MultiRegionComplianceResult{
		ComplianceScore:    score,
		TotalResources:     total,
		CompliantResources: int(score * float64(total)),
		ScanTimestamp:      time.Now().UTC(),
		RegionMetadata: types.RegionScanMetadata{
			TotalRegions:      2,
			SuccessfulRegions: []string{"us-east-1", "eu-west-1"},
		},
	}
}

func TestHistoryStore_RecordAndGet(t *testing.T) {
	store := newTestStore(t)

	rev, err := store.RecordScan(sampleResult(0.85, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	record, err := store.GetScan(rev)
	require.NoError(t, err)
	assert.Equal(t, rev, record.Revision)
	assert.InDelta(t, 0.85, record.Result.ComplianceScore, 1e-9)
	assert.Equal(t, 20, record.Result.TotalResources)
}

func TestHistoryStore_RevisionsIncrease(t *testing.T) {
	store := newTestStore(t)

	for i := 1; i <= 3; i++ {
		rev, err := store.RecordScan(sampleResult(1.0, i))
		require.NoError(t, err)
		assert.Equal(t, int64(i), rev)
	}
	assert.Equal(t, int64(3), store.CurrentRevision())
}

func TestHistoryStore_LastScan(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LastScan()
	assert.Error(t, err, "empty store has no last scan")

	_, err = store.RecordScan(sampleResult(0.5, 10))
	require.NoError(t, err)
	_, err = store.RecordScan(sampleResult(0.9, 10))
	require.NoError(t, err)

	record, err := store.LastScan()
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Revision)
	assert.InDelta(t, 0.9, record.Result.ComplianceScore, 1e-9)
}

func TestHistoryStore_ListScansNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for _, score := range []float64{0.5, 0.7, 0.9} {
		_, err := store.RecordScan(sampleResult(score, 10))
		require.NoError(t, err)
	}

	scans := store.ListScans(2)
	require.Len(t, scans, 2)
	assert.Equal(t, int64(3), scans[0].Revision)
	assert.Equal(t, int64(2), scans[1].Revision)
	assert.InDelta(t, 0.9, scans[0].ComplianceScore, 1e-9)
}

func TestHistoryStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewHistoryStore(dir)
	require.NoError(t, err)
	_, err = store.RecordScan(sampleResult(0.75, 8))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewHistoryStore(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.Equal(t, int64(1), reopened.CurrentRevision())
	scans := reopened.ListScans(0)
	require.Len(t, scans, 1)
	assert.InDelta(t, 0.75, scans[0].ComplianceScore, 1e-9)

	rev, err := reopened.RecordScan(sampleResult(0.8, 8))
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev, "revision counter continues after reopen")
}

func TestHistoryStore_Compact(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.RecordScan(sampleResult(1.0, i))
		require.NoError(t, err)
	}

	require.NoError(t, store.Compact(2))

	scans := store.ListScans(0)
	require.Len(t, scans, 2)
	assert.Equal(t, int64(5), scans[0].Revision)
	assert.Equal(t, int64(4), scans[1].Revision)

	_, err := store.GetScan(1)
	assert.Error(t, err)
	_, err = store.GetScan(5)
	assert.NoError(t, err)
}

func TestHistoryStore_PartialFlaggedInSummary(t *testing.T) {
	store := newTestStore(t)

	result := sampleResult(0.6, 10)
	result.RegionMetadata.FailedRegions = []string{"ap-south-1"}

	_, err := store.RecordScan(result)
	require.NoError(t, err)

	scans := store.ListScans(1)
	require.Len(t, scans, 1)
	assert.True(t, scans[0].Partial)
}
