package extract

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// SpreadsheetAdapter reads the first sheet of a workbook and yields one
// block per cell, rows top to bottom and cells left to right.
type SpreadsheetAdapter struct{}

// Extract sniffs the workbook container and delegates to the xlsx or xls
// reader. The extension decides when the content matches neither.
func (SpreadsheetAdapter) Extract(path string, content []byte) ([]types.TextBlock, error) {
	switch {
	case bytes.HasPrefix(content, zipMagic):
		return extractXLSX(path, content)
	case bytes.HasPrefix(content, oleMagic):
		return extractXLS(path, content)
	case strings.EqualFold(filepath.Ext(path), ".xls"):
		return extractXLS(path, content)
	default:
		return extractXLSX(path, content)
	}
}

// cellBlock builds the block for one spreadsheet cell.
func cellBlock(path, sheet string, row, col int, text string) types.TextBlock {
	return types.TextBlock{
		Source:  path,
		Locator: types.Cell{Sheet: sheet, Row: row, Column: col},
		Text:    normalizeNewlines(text),
	}
}
