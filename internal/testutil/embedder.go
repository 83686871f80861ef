// Package testutil provides deterministic test doubles so the suite runs
// without network access or API keys.
package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync/atomic"
)

// hashDim is the dimension of HashEmbedder vectors. Small enough to keep
// tests fast, large enough that unrelated texts rarely collide.
const hashDim = 64

// HashEmbedder is a deterministic bag-of-words embedder. Each lowercased
// word is hashed into one of hashDim buckets and the resulting count
// vector is L2-normalized. Texts sharing words get similar vectors, so
// retrieval tests can assert that the right chunk wins.
//
// Thread-safe for concurrent use.
type HashEmbedder struct {
	calls atomic.Int64
}

// NewHashEmbedder creates a HashEmbedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

// EmbedTexts returns one vector per text, in order.
func (e *HashEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = embedText(text)
	}
	return out, nil
}

// Calls returns how many times EmbedTexts has been invoked.
func (e *HashEmbedder) Calls() int {
	return int(e.calls.Load())
}

func embedText(text string) []float32 {
	vec := make([]float32, hashDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		sum := sha256.Sum256([]byte(word))
		bucket := binary.BigEndian.Uint32(sum[:4]) % hashDim
		vec[bucket]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		// All-zero vectors break cosine similarity; give empty text a
		// fixed direction instead.
		vec[0] = 1
		return vec
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
