package matcher

import "unicode"

// ChunkConfig configures how long blocks are split before matching.
type ChunkConfig struct {
	MaxChunkSize int // Maximum runes owned by one chunk (default: 256K)
	Overlap      int // Runes of context scanned on each side of a chunk (default: 512)
}

// DefaultChunkConfig returns production defaults
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize: 256 * 1024,
		Overlap:      512,
	}
}

// Chunk is a span of a block. A chunk owns the matches that start in
// [Start, End) and is scanned over [ScanStart, ScanEnd) so that matches
// near its edges see the same surrounding text as in the whole block.
type Chunk struct {
	Start     int
	End       int
	ScanStart int
	ScanEnd   int
	Index     int
}

// ChunkRunes splits text into consecutive chunks. Chunks end at a line
// break when one falls in the second half of the chunk, otherwise at
// whitespace near the limit. Text no longer than MaxChunkSize is a single
// chunk.
func ChunkRunes(text []rune, config ChunkConfig) []Chunk {
	n := len(text)
	if config.MaxChunkSize <= 0 || n <= config.MaxChunkSize {
		return []Chunk{{Start: 0, End: n, ScanStart: 0, ScanEnd: n}}
	}

	var chunks []Chunk
	for start := 0; start < n; {
		end := start + config.MaxChunkSize
		if end >= n {
			end = n
		} else {
			end = splitPoint(text, start, end, config.Overlap)
		}

		chunks = append(chunks, Chunk{
			Start:     start,
			End:       end,
			ScanStart: maxInt(0, start-config.Overlap),
			ScanEnd:   minInt(n, end+config.Overlap),
			Index:     len(chunks),
		})
		start = end
	}
	return chunks
}

// splitPoint picks the end of a chunk spanning [start, limit).
func splitPoint(text []rune, start, limit, overlap int) int {
	half := start + (limit-start)/2
	for i := limit - 1; i >= half; i-- {
		if text[i] == '\n' {
			return i + 1
		}
	}
	for i := limit - 1; i >= maxInt(start+1, limit-overlap); i-- {
		if unicode.IsSpace(text[i]) {
			return i + 1
		}
	}
	return limit
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
