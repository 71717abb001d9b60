package types

// ComputeLineColumn computes line and column numbers from a character offset
// in text. Lines and columns are 1-indexed (first line is 1, first column is 1).
func ComputeLineColumn(text []rune, offset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// LineCursor computes line and column for a sequence of increasing offsets
// into the same text without rescanning from the start each time. The zero
// value is ready to use.
type LineCursor struct {
	offset int
	line   int
	column int
}

// Advance returns the line and column of offset. Offsets lower than the
// previous one restart the count from the beginning of text.
func (c *LineCursor) Advance(text []rune, offset int) (line, column int) {
	if c.line == 0 || offset < c.offset {
		c.offset, c.line, c.column = 0, 1, 1
	}
	if offset > len(text) {
		offset = len(text)
	}
	if offset > c.offset {
		dl, dc := ComputeLineColumn(text[c.offset:offset], offset-c.offset)
		if dl == 1 {
			c.column += dc - 1
		} else {
			c.line += dl - 1
			c.column = dc
		}
		c.offset = offset
	}
	return c.line, c.column
}
