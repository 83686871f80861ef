package document

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name:    "empty text",
			text:    "",
			size:    5,
			overlap: 1,
			want:    nil,
		},
		{
			name:    "whitespace only",
			text:    "  \n\t  ",
			size:    5,
			overlap: 1,
			want:    nil,
		},
		{
			name:    "fewer words than size",
			text:    "check in at three pm",
			size:    10,
			overlap: 2,
			want:    []string{"check in at three pm"},
		},
		{
			name:    "exact window",
			text:    "a b c d",
			size:    4,
			overlap: 0,
			want:    []string{"a b c d"},
		},
		{
			name:    "no overlap",
			text:    "a b c d e f",
			size:    2,
			overlap: 0,
			want:    []string{"a b", "c d", "e f"},
		},
		{
			name:    "overlapping windows",
			text:    "a b c d e f g",
			size:    3,
			overlap: 1,
			want:    []string{"a b c", "c d e", "e f g"},
		},
		{
			name:    "trailing partial window",
			text:    "a b c d e",
			size:    3,
			overlap: 1,
			want:    []string{"a b c", "c d e", "e"},
		},
		{
			name:    "whitespace runs collapse",
			text:    "a   b\n\nc\td",
			size:    2,
			overlap: 0,
			want:    []string{"a b", "c d"},
		},
		{
			name:    "overlap equals size is invalid",
			text:    "a b c",
			size:    2,
			overlap: 2,
			want:    nil,
		},
		{
			name:    "negative overlap is invalid",
			text:    "a b c",
			size:    2,
			overlap: -1,
			want:    nil,
		},
		{
			name:    "zero size is invalid",
			text:    "a b c",
			size:    0,
			overlap: 0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitWords(tt.text, tt.size, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitWords() returned %d chunks, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitWordsDeterministic(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 1200 {
		fmt.Fprintf(&sb, "word%d ", i)
	}
	text := sb.String()

	first := SplitWords(text, 500, 50)
	second := SplitWords(text, 500, 50)

	if len(first) == 0 {
		t.Fatal("expected chunks from 1200-word text")
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}

	// Consecutive chunks share exactly the overlap words.
	firstWords := strings.Fields(first[0])
	secondWords := strings.Fields(first[1])
	if got := firstWords[len(firstWords)-50:]; strings.Join(got, " ") != strings.Join(secondWords[:50], " ") {
		t.Error("consecutive chunks do not share the overlap window")
	}
}
