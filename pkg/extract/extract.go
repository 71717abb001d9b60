// Package extract turns files of different formats into text blocks for
// pattern matching.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

// Format is the extraction strategy for a file.
type Format int

const (
	// FormatText reads the whole file as one block of text.
	FormatText Format = iota
	// FormatPDF yields one block per page.
	FormatPDF
	// FormatSpreadsheet yields one block per cell of the first sheet.
	FormatSpreadsheet
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// extensionFormats maps lower-case extensions to non-text formats.
var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".xls":  FormatSpreadsheet,
	".xlsx": FormatSpreadsheet,
}

// FormatFor selects the format for path by extension, case-insensitively.
// Unknown extensions are plain text.
func FormatFor(path string) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatText
}

// Adapter extracts text blocks from file content.
type Adapter interface {
	Extract(path string, content []byte) ([]types.TextBlock, error)
}

// AdapterFor returns the adapter implementing f.
func AdapterFor(f Format) Adapter {
	switch f {
	case FormatPDF:
		return PDFAdapter{}
	case FormatSpreadsheet:
		return SpreadsheetAdapter{}
	default:
		return TextAdapter{}
	}
}

// ExtractText selects the adapter for path and extracts its blocks. Panics
// raised by third-party parsers on malformed input are returned as parse
// errors.
func ExtractText(path string, content []byte) (blocks []types.TextBlock, err error) {
	format := FormatFor(path)

	defer func() {
		if r := recover(); r != nil {
			blocks = nil
			err = &Error{Path: path, Format: format, Kind: KindParse, Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	return AdapterFor(format).Extract(path, content)
}
