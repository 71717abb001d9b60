package types

import "fmt"

// Locator tells where inside a file a text block came from.
type Locator interface {
	Kind() string
	// String returns a displayable position, empty for whole files.
	String() string
}

// WholeFile is the locator of a plain text file's single block.
type WholeFile struct{}

// Kind returns "file".
func (WholeFile) Kind() string { return "file" }

// String returns "".
func (WholeFile) String() string { return "" }

// Page locates a block on a 1-based page of a paginated document.
type Page struct {
	Number int
}

// Kind returns "page".
func (p Page) Kind() string { return "page" }

// String returns e.g. "page 3".
func (p Page) String() string { return fmt.Sprintf("page %d", p.Number) }

// Cell locates a block in a spreadsheet cell. Row and Column are 1-based.
type Cell struct {
	Sheet  string
	Row    int
	Column int
}

// Kind returns "cell".
func (c Cell) Kind() string { return "cell" }

// String returns the A1-style reference, prefixed with the sheet when known.
func (c Cell) String() string {
	ref := fmt.Sprintf("%s%d", ColumnName(c.Column), c.Row)
	if c.Sheet == "" {
		return ref
	}
	return c.Sheet + "!" + ref
}

// ColumnName converts a 1-based column index to its spreadsheet letters.
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}
