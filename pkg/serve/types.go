package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "scan" | "scan_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ContentItem is one piece of content to scan. Name selects the format by
// extension, so binary documents must be sent base64-encoded in Data.
type ContentItem struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
	Data    []byte `json:"data,omitempty"` // base64 in JSON
}

// ScanBatchPayload is the payload for "scan_batch" requests
type ScanBatchPayload struct {
	Items []ContentItem `json:"items"`
}

// Finding is the wire form of one match.
type Finding struct {
	Type     types.TypeID `json:"type"`
	Value    string       `json:"value"`
	Offset   int          `json:"offset"`
	Line     int          `json:"line"`
	Column   int          `json:"column"`
	Location string       `json:"location,omitempty"`
}

// ScanResult represents scan results for a single item
type ScanResult struct {
	Name     string    `json:"name"`
	BlobID   string    `json:"blob_id"`
	Findings []Finding `json:"findings"`
	Error    string    `json:"error,omitempty"`
}

// BatchScanResult represents batch scan results
type BatchScanResult struct {
	Results []ScanResult `json:"results"`
	Total   int          `json:"total"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "scan" | "scan_batch" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string   `json:"version"`
	Types   []string `json:"types"`
}
