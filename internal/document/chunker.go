package document

import "strings"

// SplitWords splits text into overlapping word windows.
//
// Words are whitespace-delimited (strings.Fields semantics, so runs of
// whitespace collapse). Each chunk holds up to size words and consecutive
// chunk starts are size-overlap words apart, so adjacent chunks share
// overlap words. Requires 0 <= overlap < size; invalid geometry returns nil.
//
// The split is deterministic: identical input always yields identical
// chunks in identical order. Chunk ordinals derived from this slice are
// therefore stable across runs.
func SplitWords(text string, size, overlap int) []string {
	if size < 1 || overlap < 0 || overlap >= size {
		return nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := size - overlap
	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := min(i+size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
