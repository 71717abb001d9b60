package extract

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// TextAdapter reads a whole file as one block of text. Decoding is lossy:
// invalid byte sequences are dropped rather than failing the file.
type TextAdapter struct{}

// Extract decodes content and returns exactly one block.
func (TextAdapter) Extract(path string, content []byte) ([]types.TextBlock, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, &Error{Path: path, Format: FormatText, Kind: KindDecode, Err: err}
	}
	return []types.TextBlock{types.NewFileBlock(path, text)}, nil
}

// decodeText converts content to a string. UTF-16 with a byte order mark is
// transcoded; everything else is treated as UTF-8. Line endings are
// normalized to "\n".
func decodeText(content []byte) (string, error) {
	var text string
	switch {
	case bytes.HasPrefix(content, bomUTF16LE):
		decoded, err := decodeUTF16(content, binary.LittleEndian)
		if err != nil {
			return "", err
		}
		text = decoded
	case bytes.HasPrefix(content, bomUTF16BE):
		decoded, err := decodeUTF16(content, binary.BigEndian)
		if err != nil {
			return "", err
		}
		text = decoded
	default:
		text = strings.ToValidUTF8(string(content), "")
	}
	return normalizeNewlines(text), nil
}

// decodeUTF16 transcodes BOM-prefixed UTF-16 after dropping the code units
// that cannot be decoded, so a U+FFFD written in the file survives.
func decodeUTF16(content []byte, order binary.ByteOrder) (string, error) {
	decoded, _, err := transform.Bytes(
		unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(),
		stripInvalidUTF16(content, order))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// stripInvalidUTF16 removes unpaired surrogates and a trailing odd byte.
// The first code unit is the byte order mark and is kept.
func stripInvalidUTF16(content []byte, order binary.ByteOrder) []byte {
	n := len(content) &^ 1
	out := make([]byte, 0, n)
	for i := 0; i < n; i += 2 {
		u := order.Uint16(content[i:])
		switch {
		case isHighSurrogate(u):
			if i+4 <= n && isLowSurrogate(order.Uint16(content[i+2:])) {
				out = append(out, content[i:i+4]...)
				i += 2
			}
		case isLowSurrogate(u):
		default:
			out = append(out, content[i:i+2]...)
		}
	}
	return out
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u < 0xDC00 }

func isLowSurrogate(u uint16) bool { return u >= 0xDC00 && u < 0xE000 }

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
