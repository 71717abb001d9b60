// Package store persists scan reports so earlier scans can be listed and
// compared.
package store

import (
	"fmt"
	"time"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// Store provides persistence for scan reports.
type Store interface {
	// SaveReport records one completed scan and returns its ID.
	SaveReport(meta report.Metadata, agg *findings.Aggregated) (string, error)

	// Scans lists stored scans, oldest first.
	Scans() ([]Scan, error)

	// Records returns the findings of one scan in report order.
	Records(scanID string) ([]Record, error)

	// Close releases the underlying resources.
	Close() error
}

// Scan summarizes one stored scan.
type Scan struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Types     []string  `json:"types"`
	Files     int       `json:"files"`
	Matches   int       `json:"matches"`
}

// Record is one stored finding.
type Record struct {
	ScanID   string       `json:"scan_id"`
	Path     string       `json:"path"`
	Type     types.TypeID `json:"type"`
	Match    types.Match  `json:"match"`
	Location string       `json:"location,omitempty"`
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a process-local store (useful for testing).
	Path string
}

// New creates a Store for cfg.Path.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}

// flatten lists the findings of agg in report order.
func flatten(scanID string, agg *findings.Aggregated) []Record {
	var records []Record
	for _, path := range agg.Files() {
		for _, t := range agg.Types(path) {
			for _, f := range agg.Findings(path, t) {
				rec := Record{ScanID: scanID, Path: path, Type: t, Match: f.Match}
				if f.Locator != nil {
					rec.Location = f.Locator.String()
				}
				records = append(records, rec)
			}
		}
	}
	return records
}
