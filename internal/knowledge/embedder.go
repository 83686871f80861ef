package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	chromem "github.com/philippgille/chromem-go"
)

// Embedder produces one vector per input text, in input order. All
// vectors from one implementation share a fixed dimension, so batch
// (ingest) and single (query) embeddings live in the same metric space.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// GenkitEmbedder adapts a Genkit ai.Embedder to the Embedder interface.
// Every call is bounded by the configured timeout; a timeout surfaces as
// context.DeadlineExceeded in the wrapped error chain.
type GenkitEmbedder struct {
	embedder ai.Embedder
	timeout  time.Duration
}

// NewGenkitEmbedder wraps embedder with the given per-call timeout.
// A zero timeout disables the bound.
func NewGenkitEmbedder(embedder ai.Embedder, timeout time.Duration) *GenkitEmbedder {
	return &GenkitEmbedder{
		embedder: embedder,
		timeout:  timeout,
	}
}

// EmbedTexts embeds all texts in a single request.
func (g *GenkitEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	docs := make([]*ai.Document, len(texts))
	for i, text := range texts {
		docs[i] = ai.DocumentFromText(text, nil)
	}

	resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Embedding
	}
	return out, nil
}

// NewEmbeddingFunc bridges an Embedder to chromem-go's per-text callback.
//
// Note: chromem-go normalizes vectors itself, so no manual normalization
// is needed here.
func NewEmbeddingFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.EmbedTexts(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, errors.New("no embeddings returned")
		}
		return vecs[0], nil
	}
}
