package extract

import (
	"errors"
	"fmt"
)

// Kind categorizes why a file produced no text.
type Kind int

const (
	// KindOpen means the file could not be opened or read.
	KindOpen Kind = iota + 1
	// KindDecode means the bytes could not be decoded as text.
	KindDecode
	// KindParse means the document structure could not be parsed.
	KindParse
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindDecode:
		return "decode"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a whole-file extraction failure.
type Error struct {
	Path   string
	Format Format
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s error for %s: %v", e.Format, e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
