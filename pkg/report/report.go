// Package report renders aggregated findings for people and tools.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/praetorian-inc/piihunter/pkg/findings"
)

// DefaultFile is the report file name used when none is configured.
const DefaultFile = "PII_Report.txt"

// TimestampLayout formats the scan date in the report header.
const TimestampLayout = "2006-01-02 15:04:05"

// Metadata describes the scan a report belongs to.
type Metadata struct {
	Timestamp time.Time
	// Types are the selectors as the user requested them, in request order.
	Types []string
}

// Header returns the report banner.
func Header(meta Metadata) string {
	return fmt.Sprintf("\n=== PII-Hunter ===\nScan Date: %s\nTarget PII Types: %s\n",
		meta.Timestamp.Format(TimestampLayout),
		strings.Join(meta.Types, ", "))
}

// Render produces the plain text report: the banner followed by one
// section per file, types in priority order and matches in match order.
func Render(meta Metadata, agg *findings.Aggregated) string {
	var lines []string
	for _, path := range agg.Files() {
		lines = append(lines, "\nFile: "+path)
		for _, t := range agg.Types(path) {
			lines = append(lines, fmt.Sprintf("  %s found:", t))
			for _, m := range agg.Matches(path, t) {
				lines = append(lines, fmt.Sprintf("    Line %d: %s", m.Line, m.Value))
			}
		}
	}
	return Header(meta) + strings.Join(lines, "\n")
}

// jsonReport is the machine-readable report envelope.
type jsonReport struct {
	Tool      string               `json:"tool"`
	ScanDate  string               `json:"scan_date"`
	Types     []string             `json:"types"`
	FileCount int                  `json:"file_count"`
	Results   *findings.Aggregated `json:"results"`
}

// RenderJSON produces an indented JSON report with the same ordering as
// Render.
func RenderJSON(meta Metadata, agg *findings.Aggregated) ([]byte, error) {
	types := meta.Types
	if types == nil {
		types = []string{}
	}
	data, err := json.MarshalIndent(jsonReport{
		Tool:      ToolName,
		ScanDate:  meta.Timestamp.Format(time.RFC3339),
		Types:     types,
		FileCount: agg.Len(),
		Results:   agg,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}
