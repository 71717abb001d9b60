// Package serve scans content streamed as NDJSON requests, one response
// line per request.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/praetorian-inc/piihunter/pkg/scanner"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming scanner
type Server struct {
	scanner *scanner.Scanner
	encoder *json.Encoder
	decoder *json.Decoder
}

// NewServer creates a new streaming server
func NewServer(s *scanner.Scanner, in io.Reader, out io.Writer) *Server {
	return &Server{
		scanner: s,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	switch req.Type {
	case "scan":
		s.handleScan(req.Payload)
	case "scan_batch":
		s.handleScanBatch(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	ready := ReadyData{Version: Version, Types: []string{}}
	for _, spec := range s.scanner.Specs() {
		ready.Types = append(ready.Types, string(spec.ID))
	}
	data, _ := json.Marshal(ready)
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleScan(payload json.RawMessage) {
	var item ContentItem
	if err := json.Unmarshal(payload, &item); err != nil {
		s.sendError("scan", err.Error())
		return
	}

	data, _ := json.Marshal(s.scanItem(item))
	s.encoder.Encode(Response{
		Success: true,
		Type:    "scan",
		Data:    data,
	})
}

func (s *Server) handleScanBatch(payload json.RawMessage) {
	var p ScanBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("scan_batch", err.Error())
		return
	}

	result := BatchScanResult{Results: make([]ScanResult, 0, len(p.Items))}
	for _, item := range p.Items {
		r := s.scanItem(item)
		result.Total += len(r.Findings)
		result.Results = append(result.Results, r)
	}

	data, _ := json.Marshal(result)
	s.encoder.Encode(Response{
		Success: true,
		Type:    "scan_batch",
		Data:    data,
	})
}

// scanItem scans one item. Extraction failures are reported in the result
// rather than failing the request.
func (s *Server) scanItem(item ContentItem) ScanResult {
	content := item.Data
	if content == nil {
		content = []byte(item.Content)
	}

	r := s.scanner.ScanContent(item.Name, content)
	out := ScanResult{
		Name:     item.Name,
		BlobID:   r.BlobID.Hex(),
		Findings: make([]Finding, 0, len(r.Findings)),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	for _, f := range r.Findings {
		wf := Finding{
			Type:   f.Type,
			Value:  f.Match.Value,
			Offset: f.Match.Offset,
			Line:   f.Match.Line,
			Column: f.Match.Column,
		}
		if f.Locator != nil {
			wf.Location = f.Locator.String()
		}
		out.Findings = append(out.Findings, wf)
	}
	return out
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
