package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

var scanTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sampleAggregate() *findings.Aggregated {
	agg := findings.New()
	agg.Absorb("a.txt", []types.Finding{
		{Type: types.Phone, Match: types.Match{Value: "(415) 555-2671", Offset: 20, Line: 3, Column: 1}, Locator: types.WholeFile{}},
		{Type: types.Email, Match: types.Match{Value: "x@y.com", Offset: 14, Line: 2, Column: 8}, Locator: types.WholeFile{}},
	})
	agg.Absorb("b.xlsx", []types.Finding{
		{Type: types.CreditCard, Match: types.Match{Value: "4539148803436467", Line: 1, Column: 1}, Locator: types.Cell{Sheet: "Cards", Row: 2, Column: 1}},
	})
	return agg
}

// stores returns one of each implementation, closed at test end.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := New(Config{Path: filepath.Join(t.TempDir(), "piihunter.db")})
	require.NoError(t, err)
	memory, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlite.Close()
		memory.Close()
	})
	return map[string]Store{"sqlite": sqlite, "memory": memory}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_SelectsImplementation(t *testing.T) {
	s := stores(t)
	assert.IsType(t, &SQLiteStore{}, s["sqlite"])
	assert.IsType(t, &MemoryStore{}, s["memory"])
}

func TestStore_SaveReportAndRecords(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			scanID, err := s.SaveReport(report.Metadata{Timestamp: scanTime, Types: []string{"1", "2", "3"}}, sampleAggregate())
			require.NoError(t, err)
			_, err = uuid.Parse(scanID)
			require.NoError(t, err)

			records, err := s.Records(scanID)
			require.NoError(t, err)
			require.Len(t, records, 3)

			assert.Equal(t, Record{
				ScanID: scanID,
				Path:   "a.txt",
				Type:   types.Email,
				Match:  types.Match{Value: "x@y.com", Offset: 14, Line: 2, Column: 8},
			}, records[0])
			assert.Equal(t, types.Phone, records[1].Type)
			assert.Equal(t, "b.xlsx", records[2].Path)
			assert.Equal(t, "Cards!A2", records[2].Location)
		})
	}
}

func TestStore_Scans(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := s.SaveReport(report.Metadata{Timestamp: scanTime, Types: []string{"2"}}, sampleAggregate())
			require.NoError(t, err)
			second, err := s.SaveReport(report.Metadata{Timestamp: scanTime.Add(time.Hour)}, findings.New())
			require.NoError(t, err)

			scans, err := s.Scans()
			require.NoError(t, err)
			require.Len(t, scans, 2)

			assert.Equal(t, first, scans[0].ID)
			assert.True(t, scanTime.Equal(scans[0].Timestamp))
			assert.Equal(t, []string{"2"}, scans[0].Types)
			assert.Equal(t, 2, scans[0].Files)
			assert.Equal(t, 3, scans[0].Matches)

			assert.Equal(t, second, scans[1].ID)
			assert.Equal(t, []string{}, scans[1].Types)
			assert.Equal(t, 0, scans[1].Files)
			assert.Equal(t, 0, scans[1].Matches)
		})
	}
}

func TestStore_UnknownScan(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			records, err := s.Records("no-such-scan")
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	scanID, err := s.SaveReport(report.Metadata{Timestamp: scanTime, Types: []string{"1"}}, sampleAggregate())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	scans, err := s.Scans()
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, scanID, scans[0].ID)

	var version int
	require.NoError(t, s.db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}
