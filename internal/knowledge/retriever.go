package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Separator joins retrieved chunk texts in the context string handed to
// the model.
const Separator = "\n\n---\n\n"

// Retriever turns a query into a knowledge-base context string.
type Retriever struct {
	embedder Embedder
	store    *Store
	topK     int
	logger   *slog.Logger
}

// NewRetriever creates a Retriever returning up to topK chunks per query.
func NewRetriever(embedder Embedder, store *Store, topK int, logger *slog.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
		logger:   logger,
	}
}

// ContextForQuery embeds the query, fetches the n most similar chunks and
// joins their texts with Separator, most similar first. n <= 0 uses the
// configured default. No relevant chunks yields an empty string and no
// error; any embedding or index failure is returned so the caller can
// degrade to an uncontextualized reply.
func (r *Retriever) ContextForQuery(ctx context.Context, query string, n int) (string, error) {
	if n <= 0 {
		n = r.topK
	}

	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) == 0 {
		return "", errors.New("embedder returned no vector for query")
	}

	results, err := r.store.Query(ctx, vecs[0], n)
	if err != nil {
		return "", fmt.Errorf("querying knowledge index: %w", err)
	}
	if len(results) == 0 {
		r.logger.Debug("no relevant context found", "query_len", len(query))
		return "", nil
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Content
	}

	r.logger.Debug("retrieved context", "chunks", len(results), "top_similarity", results[0].Similarity)
	return strings.Join(texts, Separator), nil
}
