package matcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// ErrMatchTimeout reports that a pattern exceeded pattern.MatchTimeout on
// one chunk of a block.
var ErrMatchTimeout = errors.New("match timeout")

// Scan applies spec to text and returns every accepted occurrence in left
// to right order. Occurrences are leftmost and non-overlapping; those
// rejected by the spec's validator are dropped. Long text is matched in
// chunks. A chunk that fails is skipped and reported in the error, and the
// matches from every other chunk are still returned.
func Scan(text string, spec *pattern.Spec) ([]types.Match, error) {
	return ScanChunked(text, spec, DefaultChunkConfig())
}

// ScanChunked is Scan with an explicit chunk configuration.
func ScanChunked(text string, spec *pattern.Spec, config ChunkConfig) ([]types.Match, error) {
	re := spec.Regexp()
	if re == nil {
		return nil, fmt.Errorf("pattern %s is not compiled", spec.ID)
	}

	runes := []rune(text)
	var matches []types.Match
	var errs []error
	var cursor types.LineCursor

	for _, chunk := range ChunkRunes(runes, config) {
		window := runes[chunk.ScanStart:chunk.ScanEnd]

		match, err := re.FindRunesMatch(window)
		for match != nil {
			offset := chunk.ScanStart + match.Index
			if offset >= chunk.End {
				break
			}
			if offset >= chunk.Start {
				value := match.String()
				if spec.Accept(value) {
					line, column := cursor.Advance(runes, offset)
					matches = append(matches, types.Match{
						Value:  value,
						Offset: offset,
						Line:   line,
						Column: column,
					})
				}
			}
			match, err = re.FindNextMatch(match)
		}
		if err != nil {
			errs = append(errs, matchError(spec, chunk, err))
		}
	}

	return matches, errors.Join(errs...)
}

// matchError describes a failed chunk without the engine's message, which
// quotes the whole input.
func matchError(spec *pattern.Spec, chunk Chunk, err error) error {
	if strings.HasPrefix(err.Error(), "match timeout") {
		return fmt.Errorf("pattern %s timed out in runes %d-%d: %w", spec.ID, chunk.Start, chunk.End, ErrMatchTimeout)
	}
	return fmt.Errorf("pattern %s failed in runes %d-%d", spec.ID, chunk.Start, chunk.End)
}
