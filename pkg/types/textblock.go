package types

// TextBlock is a unit of extracted text submitted to pattern matching.
type TextBlock struct {
	Source  string  // path of the file the text came from
	Locator Locator // position of the block inside the file
	Text    string
}

// NewFileBlock returns the single block of a plain text file.
func NewFileBlock(path, text string) TextBlock {
	return TextBlock{Source: path, Locator: WholeFile{}, Text: text}
}
