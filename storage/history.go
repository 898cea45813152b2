// Package storage persists scan results so compliance can be tracked
// over time. Results are versioned by a monotonic revision, stored in
// bbolt, with an in-memory btree index over summaries for fast queries.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/btree"
	"go.etcd.io/bbolt"

	"github.com/tagwarden/tagwarden/types"
)

var (
	bucketScans = []byte("scans")
	bucketMeta  = []byte("meta")
)

var keyCurrentRevision = []byte("current_revision")

// ScanRecord is one persisted scan result
type ScanRecord struct {
	Revision int64                             `json:"revision"`
	StoredAt time.Time                         `json:"stored_at"`
	Result   types.MultiRegionComplianceResult `json:"result"`
}

// ScanSummary is the indexed slice of a scan record, kept in memory
// for trend queries without touching disk.
type ScanSummary struct {
	Revision        int64     `json:"revision"`
	Timestamp       time.Time `json:"timestamp"`
	ComplianceScore float64   `json:"compliance_score"`
	TotalResources  int       `json:"total_resources"`
	ViolationCount  int       `json:"violation_count"`
	Partial         bool      `json:"partial"`
}

// HistoryStore persists scan results keyed by revision
type HistoryStore struct {
	mu sync.RWMutex

	index *btree.BTreeG[ScanSummary]
	db    *bbolt.DB

	currentRev int64
	dir        string
}

// NewHistoryStore opens (or creates) the scan history at dir
func NewHistoryStore(dir string) (*HistoryStore, error) {
	dbPath := filepath.Join(dir, "tagwarden.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketScans, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &HistoryStore{
		index: btree.NewG[ScanSummary](32, func(a, b ScanSummary) bool {
			return a.Revision < b.Revision
		}),
		db:  db,
		dir: dir,
	}

	if err := store.loadRevision(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// RecordScan persists a scan result and returns its revision
func (s *HistoryStore) RecordScan(result *types.MultiRegionComplianceResult) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentRev++
	rev := s.currentRev

	record := ScanRecord{
		Revision: rev,
		StoredAt: time.Now().UTC(),
		Result:   *result,
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		value, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketScans).Put(revisionKey(rev), value); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyCurrentRevision, int64ToBytes(rev))
	})
	if err != nil {
		s.currentRev--
		return 0, err
	}

	s.index.ReplaceOrInsert(summarize(record))
	return rev, nil
}

// GetScan returns the record stored at revision
func (s *HistoryStore) GetScan(rev int64) (*ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record *ScanRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketScans).Get(revisionKey(rev))
		if data == nil {
			return nil
		}
		record = &ScanRecord{}
		return json.Unmarshal(data, record)
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("no scan at revision %d", rev)
	}
	return record, nil
}

// LastScan returns the most recent record, or an error when the store
// is empty.
func (s *HistoryStore) LastScan() (*ScanRecord, error) {
	s.mu.RLock()
	rev := s.currentRev
	s.mu.RUnlock()

	if rev == 0 {
		return nil, fmt.Errorf("no scans recorded")
	}
	return s.GetScan(rev)
}

// ListScans returns up to limit summaries, newest first
func (s *HistoryStore) ListScans(limit int) []ScanSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ScanSummary
	s.index.Descend(func(sum ScanSummary) bool {
		out = append(out, sum)
		return limit <= 0 || len(out) < limit
	})
	return out
}

// CurrentRevision returns the latest revision number
func (s *HistoryStore) CurrentRevision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRev
}

// Compact drops all but the newest keepRevisions records
func (s *HistoryStore) Compact(keepRevisions int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.currentRev - keepRevisions
	if cutoff <= 0 {
		return nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketScans)
		c := bucket.Cursor()

		var toDelete [][]byte
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if bytesToInt64(k) <= cutoff {
				toDelete = append(toDelete, k)
			}
		}

		for _, key := range toDelete {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var stale []ScanSummary
	s.index.Ascend(func(sum ScanSummary) bool {
		if sum.Revision <= cutoff {
			stale = append(stale, sum)
			return true
		}
		return false
	})
	for _, sum := range stale {
		s.index.Delete(sum)
	}
	return nil
}

func (s *HistoryStore) loadRevision() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyCurrentRevision)
		if data != nil {
			s.currentRev = bytesToInt64(data)
		}
		return nil
	})
}

func (s *HistoryStore) rebuildIndex() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketScans).ForEach(func(k, v []byte) error {
			var record ScanRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("corrupt scan record at %s: %w", k, err)
			}
			s.index.ReplaceOrInsert(summarize(record))
			return nil
		})
	})
}

func summarize(record ScanRecord) ScanSummary {
	return ScanSummary{
		Revision:        record.Revision,
		Timestamp:       record.Result.ScanTimestamp,
		ComplianceScore: record.Result.ComplianceScore,
		TotalResources:  record.Result.TotalResources,
		ViolationCount:  len(record.Result.Violations),
		Partial:         record.Result.RegionMetadata.Partial(),
	}
}

func revisionKey(rev int64) []byte {
	return []byte(fmt.Sprintf("%016d", rev))
}

func int64ToBytes(n int64) []byte {
	return []byte(fmt.Sprintf("%d", n))
}

func bytesToInt64(b []byte) int64 {
	var n int64
	_, _ = fmt.Sscanf(string(b), "%d", &n)
	return n
}
