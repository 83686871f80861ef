package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	chromem "github.com/philippgille/chromem-go"
)

var (
	// ErrLengthMismatch indicates Add was called with slices of unequal length.
	ErrLengthMismatch = errors.New("mismatched argument lengths")

	// ErrDuplicateID indicates a chunk id appears more than once in an Add call.
	ErrDuplicateID = errors.New("duplicate chunk id")
)

// Store is the persistent vector index. It wraps one chromem-go
// collection backed by local disk; contents survive process restarts.
// Safe for concurrent readers.
type Store struct {
	db     *chromem.DB
	col    *chromem.Collection
	name   string
	embed  chromem.EmbeddingFunc
	logger *slog.Logger
}

// Result is one retrieved chunk with its similarity to the query.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// NewStore opens (or creates) the persistent collection at path.
func NewStore(path, collection string, embed chromem.EmbeddingFunc, logger *slog.Logger) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database at %s: %w", path, err)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", collection, err)
	}

	logger.Info("vector index opened",
		"path", path,
		"collection", collection,
		"chunks", col.Count())

	return &Store{
		db:     db,
		col:    col,
		name:   collection,
		embed:  embed,
		logger: logger,
	}, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count() int {
	return s.col.Count()
}

// Add indexes the given chunks. ids, embeddings, texts and metadatas are
// parallel slices; ids must be unique within the call. Entries are only
// ever added, never updated or removed.
func (s *Store) Add(ctx context.Context, ids []string, embeddings [][]float32, texts []string, metadatas []map[string]string) error {
	n := len(ids)
	if len(embeddings) != n || len(texts) != n || len(metadatas) != n {
		return fmt.Errorf("%w: ids=%d embeddings=%d texts=%d metadatas=%d",
			ErrLengthMismatch, n, len(embeddings), len(texts), len(metadatas))
	}
	if n == 0 {
		return nil
	}

	seen := make(map[string]struct{}, n)
	docs := make([]chromem.Document, n)
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		docs[i] = chromem.Document{
			ID:        id,
			Embedding: embeddings[i],
			Content:   texts[i],
			Metadata:  metadatas[i],
		}
	}

	if err := s.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding %d chunks to collection %s: %w", n, s.name, err)
	}
	return nil
}

// Query returns up to k chunks nearest to embedding by cosine similarity,
// most similar first. k is clamped to the collection size; an empty
// collection returns no results and no error.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	count := s.col.Count()
	if count == 0 || k < 1 {
		return nil, nil
	}
	k = min(k, count)

	found, err := s.col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", s.name, err)
	}

	results := make([]Result, len(found))
	for i, r := range found {
		results[i] = Result{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	return results, nil
}

// Reset drops and recreates the collection. Used by the manual
// re-ingestion path only.
func (s *Store) Reset() error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.name, err)
	}

	col, err := s.db.GetOrCreateCollection(s.name, nil, s.embed)
	if err != nil {
		return fmt.Errorf("recreating collection %s: %w", s.name, err)
	}
	s.col = col

	s.logger.Info("vector index reset", "collection", s.name)
	return nil
}
