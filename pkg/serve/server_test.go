package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/piihunter/internal/testutil"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/scanner"
	"github.com/praetorian-inc/piihunter/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanner(t *testing.T, selection ...string) *scanner.Scanner {
	t.Helper()
	reg, err := pattern.Builtin()
	require.NoError(t, err)
	if len(selection) == 0 {
		selection = []string{"1", "2", "3"}
	}
	return scanner.New(reg.Resolve(selection))
}

// run feeds input to a fresh server and returns the decoded response lines.
func run(t *testing.T, s *scanner.Scanner, input string) []Response {
	t.Helper()
	out := &bytes.Buffer{}
	srv := NewServer(s, strings.NewReader(input), out)
	require.NoError(t, srv.Run(context.Background()))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	out := &bytes.Buffer{}
	srv := NewServer(newScanner(t, "2", "1"), strings.NewReader(""), out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var ready ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Equal(t, Version, ready.Version)
	assert.Equal(t, []string{"CreditCard", "Email"}, ready.Types)
}

func TestServer_Scan(t *testing.T) {
	responses := run(t, newScanner(t),
		`{"type":"scan","payload":{"name":"notes.txt","content":"Hello\nContact: x@y.com"}}`+"\n")
	require.Len(t, responses, 2)

	resp := responses[1]
	assert.True(t, resp.Success)
	assert.Equal(t, "scan", resp.Type)

	var result ScanResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "notes.txt", result.Name)
	assert.Equal(t, types.ComputeBlobID([]byte("Hello\nContact: x@y.com")).Hex(), result.BlobID)
	assert.Empty(t, result.Error)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, Finding{
		Type:   types.Email,
		Value:  "x@y.com",
		Offset: 15,
		Line:   2,
		Column: 10,
	}, result.Findings[0])
}

func TestServer_ScanNoFindings(t *testing.T) {
	responses := run(t, newScanner(t),
		`{"type":"scan","payload":{"name":"a.txt","content":"nothing here"}}`+"\n")
	require.Len(t, responses, 2)

	var result ScanResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &result))
	assert.NotNil(t, result.Findings)
	assert.Empty(t, result.Findings)
}

func TestServer_ScanBinaryDocument(t *testing.T) {
	doc := testutil.XLSX(testutil.Sheet{
		Name: "Contacts",
		Rows: [][]any{{"name", "email"}, {"Ann", "ann@example.com"}},
	})
	payload, err := json.Marshal(Request{Type: "scan", Payload: mustJSON(t, ContentItem{Name: "book.xlsx", Data: doc})})
	require.NoError(t, err)

	responses := run(t, newScanner(t, "2"), string(payload)+"\n")
	require.Len(t, responses, 2)

	var result ScanResult
	require.NoError(t, json.Unmarshal(responses[1].Data, &result))
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "ann@example.com", result.Findings[0].Value)
	assert.Equal(t, "Contacts!B2", result.Findings[0].Location)
}

func TestServer_ScanCorruptDocument(t *testing.T) {
	responses := run(t, newScanner(t),
		`{"type":"scan","payload":{"name":"broken.pdf","content":"not a pdf x@y.com"}}`+"\n")
	require.Len(t, responses, 2)

	resp := responses[1]
	assert.True(t, resp.Success)

	var result ScanResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Contains(t, result.Error, "pdf parse error")
	assert.Empty(t, result.Findings)
}

func TestServer_ScanBatch(t *testing.T) {
	responses := run(t, newScanner(t),
		`{"type":"scan_batch","payload":{"items":[{"name":"s1.txt","content":"test1"},{"name":"s2.txt","content":"a@b.org and c@d.net"}]}}`+"\n")
	require.Len(t, responses, 2)

	resp := responses[1]
	assert.True(t, resp.Success)
	assert.Equal(t, "scan_batch", resp.Type)

	var batch BatchScanResult
	require.NoError(t, json.Unmarshal(resp.Data, &batch))
	require.Len(t, batch.Results, 2)
	assert.Equal(t, 2, batch.Total)
	assert.Equal(t, "s1.txt", batch.Results[0].Name)
	assert.Empty(t, batch.Results[0].Findings)
	assert.Len(t, batch.Results[1].Findings, 2)
}

func TestServer_MultipleRequests(t *testing.T) {
	input := `{"type":"scan","payload":{"name":"1.txt","content":"a@b.org"}}` + "\n" +
		`{"type":"scan","payload":{"name":"2.txt","content":"none"}}` + "\n" +
		`{"type":"close","payload":{}}` + "\n" +
		`{"type":"scan","payload":{"name":"3.txt","content":"ignored"}}` + "\n"

	responses := run(t, newScanner(t), input)
	require.Len(t, responses, 3)
	assert.Equal(t, "ready", responses[0].Type)
	assert.Equal(t, "scan", responses[1].Type)
	assert.Equal(t, "scan", responses[2].Type)
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(newScanner(t), pr, out)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_CloseCommand(t *testing.T) {
	responses := run(t, newScanner(t), `{"type":"close","payload":{}}`+"\n")
	require.Len(t, responses, 1)
	assert.Equal(t, "ready", responses[0].Type)
}

func TestServer_RequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
		wantErr  string
	}{
		{
			name:     "unknown request type",
			input:    `{"type":"invalid","payload":{}}`,
			wantType: "unknown",
			wantErr:  "unknown request type: invalid",
		},
		{
			name:     "malformed json",
			input:    `{invalid json}`,
			wantType: "decode",
		},
		{
			name:     "bad scan payload",
			input:    `{"type":"scan","payload":{"content":7}}`,
			wantType: "scan",
		},
		{
			name:     "bad batch payload",
			input:    `{"type":"scan_batch","payload":{"items":"nope"}}`,
			wantType: "scan_batch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := run(t, newScanner(t), tt.input+"\n")
			require.GreaterOrEqual(t, len(responses), 2)

			resp := responses[1]
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantType, resp.Type)
			if tt.wantErr != "" {
				assert.Contains(t, resp.Error, tt.wantErr)
			} else {
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
