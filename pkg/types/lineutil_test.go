package types

import "testing"

func TestComputeLineColumn(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		offset     int
		wantLine   int
		wantColumn int
	}{
		{
			name:       "empty text at offset 0",
			text:       "",
			offset:     0,
			wantLine:   1,
			wantColumn: 1,
		},
		{
			name:       "single line at offset 2",
			text:       "hello",
			offset:     2,
			wantLine:   1,
			wantColumn: 3,
		},
		{
			name:       "multi-line at offset 7",
			text:       "hello\nworld",
			offset:     7,
			wantLine:   2,
			wantColumn: 2,
		},
		{
			name:       "offset at newline",
			text:       "hello\nworld",
			offset:     5,
			wantLine:   1,
			wantColumn: 6,
		},
		{
			name:       "offset beyond text length",
			text:       "hello",
			offset:     100,
			wantLine:   1,
			wantColumn: 6,
		},
		{
			name:       "email on second line",
			text:       "no pii\nemail: x@y.com\nend",
			offset:     14,
			wantLine:   2,
			wantColumn: 8,
		},
		{
			name:       "offsets count characters not bytes",
			text:       "héllo\nwörld",
			offset:     7,
			wantLine:   2,
			wantColumn: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLine, gotColumn := ComputeLineColumn([]rune(tt.text), tt.offset)
			if gotLine != tt.wantLine {
				t.Errorf("ComputeLineColumn() line = %v, want %v", gotLine, tt.wantLine)
			}
			if gotColumn != tt.wantColumn {
				t.Errorf("ComputeLineColumn() column = %v, want %v", gotColumn, tt.wantColumn)
			}
		})
	}
}

func TestLineCursor_Advance(t *testing.T) {
	text := []rune("no pii\nemail: x@y.com\n\nphone 4155552671")
	offsets := []int{0, 3, 14, 21, 23, 29}

	var cursor LineCursor
	for _, offset := range offsets {
		wantLine, wantColumn := ComputeLineColumn(text, offset)
		gotLine, gotColumn := cursor.Advance(text, offset)
		if gotLine != wantLine || gotColumn != wantColumn {
			t.Errorf("Advance(%d) = %d:%d, want %d:%d", offset, gotLine, gotColumn, wantLine, wantColumn)
		}
	}
}

func TestLineCursor_Rewind(t *testing.T) {
	text := []rune("a\nb\nc")

	var cursor LineCursor
	line, column := cursor.Advance(text, 4)
	if line != 3 || column != 1 {
		t.Fatalf("Advance(4) = %d:%d, want 3:1", line, column)
	}
	line, column = cursor.Advance(text, 2)
	if line != 2 || column != 1 {
		t.Errorf("Advance(2) after 4 = %d:%d, want 2:1", line, column)
	}
}
