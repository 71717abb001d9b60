package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

var scanTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sample() *findings.Aggregated {
	agg := findings.New()
	agg.Absorb("./data/a.txt", []types.Finding{
		{Type: types.Phone, Match: types.Match{Value: "(415) 555-2671", Line: 3, Column: 1}, Locator: types.WholeFile{}},
		{Type: types.Email, Match: types.Match{Value: "x@y.com", Line: 2, Column: 8}, Locator: types.WholeFile{}},
		{Type: types.Email, Match: types.Match{Value: "z@y.com", Line: 5, Column: 1}, Locator: types.WholeFile{}},
	})
	agg.Absorb("./data/b.xlsx", []types.Finding{
		{Type: types.CreditCard, Match: types.Match{Value: "4539148803436467", Line: 1, Column: 1}, Locator: types.Cell{Sheet: "Cards", Row: 2, Column: 1}},
	})
	return agg
}

func TestHeader(t *testing.T) {
	got := Header(Metadata{Timestamp: scanTime, Types: []string{"2", "1"}})
	assert.Equal(t, "\n=== PII-Hunter ===\nScan Date: 2024-03-09 14:05:07\nTarget PII Types: 2, 1\n", got)
}

func TestRender(t *testing.T) {
	got := Render(Metadata{Timestamp: scanTime, Types: []string{"1", "2", "3"}}, sample())

	want := "\n=== PII-Hunter ===\n" +
		"Scan Date: 2024-03-09 14:05:07\n" +
		"Target PII Types: 1, 2, 3\n" +
		"\n" +
		"File: ./data/a.txt\n" +
		"  Email found:\n" +
		"    Line 2: x@y.com\n" +
		"    Line 5: z@y.com\n" +
		"  Phone found:\n" +
		"    Line 3: (415) 555-2671\n" +
		"\n" +
		"File: ./data/b.xlsx\n" +
		"  CreditCard found:\n" +
		"    Line 1: 4539148803436467"
	assert.Equal(t, want, got)
}

func TestRender_NoFindings(t *testing.T) {
	got := Render(Metadata{Timestamp: scanTime, Types: []string{"2"}}, findings.New())
	assert.Equal(t, "\n=== PII-Hunter ===\nScan Date: 2024-03-09 14:05:07\nTarget PII Types: 2\n", got)
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(Metadata{Timestamp: scanTime, Types: []string{"1", "2"}}, sample())
	require.NoError(t, err)

	var decoded struct {
		Tool      string `json:"tool"`
		ScanDate  string `json:"scan_date"`
		Types     []string
		FileCount int `json:"file_count"`
		Results   []struct {
			Path  string `json:"path"`
			Types []struct {
				Type    string `json:"type"`
				Matches []struct {
					Value    string `json:"value"`
					Location string `json:"location"`
				} `json:"matches"`
			} `json:"types"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, ToolName, decoded.Tool)
	assert.Equal(t, "2024-03-09T14:05:07Z", decoded.ScanDate)
	assert.Equal(t, []string{"1", "2"}, decoded.Types)
	assert.Equal(t, 2, decoded.FileCount)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "./data/a.txt", decoded.Results[0].Path)
	assert.Equal(t, "Email", decoded.Results[0].Types[0].Type)
	assert.Equal(t, "Phone", decoded.Results[0].Types[1].Type)
	assert.Equal(t, "Cards!A2", decoded.Results[1].Types[0].Matches[0].Location)
}
