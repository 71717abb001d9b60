package types

// Match is a single validated pattern occurrence within a text block.
type Match struct {
	Value  string `json:"value"`  // exact matched text, not normalized
	Offset int    `json:"offset"` // zero-based character offset within the block
	Line   int    `json:"line"`   // 1-based line within the block
	Column int    `json:"column"` // 1-based column within the line
}
