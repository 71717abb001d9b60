package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/report"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	scans   []Scan
	records map[string][]Record // keyed by scan ID
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]Record),
	}
}

// SaveReport stores a copy of the scan.
func (m *MemoryStore) SaveReport(meta report.Metadata, agg *findings.Aggregated) (string, error) {
	scanID := uuid.NewString()
	records := flatten(scanID, agg)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans = append(m.scans, Scan{
		ID:        scanID,
		Timestamp: meta.Timestamp.UTC(),
		Types:     append(nonNil(nil), meta.Types...),
		Files:     agg.Len(),
		Matches:   len(records),
	})
	m.records[scanID] = records
	return scanID, nil
}

// Scans lists stored scans, oldest first.
func (m *MemoryStore) Scans() ([]Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Scan, len(m.scans))
	copy(out, m.scans)
	return out, nil
}

// Records returns the findings of one scan.
func (m *MemoryStore) Records(scanID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, len(m.records[scanID]))
	copy(out, m.records[scanID])
	return out, nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
