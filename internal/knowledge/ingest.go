package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"github.com/guesthouse-ai/concierge/internal/document"
)

const (
	// lockFileName is the flock taken around ingestion. It lives next to
	// the index so processes sharing a storage path also share the lock.
	lockFileName = "ingest.lock"

	// lockRetryDelay is the poll interval while waiting for the lock.
	lockRetryDelay = 100 * time.Millisecond
)

// Source provides the corpus documents to index.
// *document.Loader is the production implementation.
type Source interface {
	Load(ctx context.Context) ([]document.File, *document.LoadStats, error)
}

// ChunkingConfig is the word-window geometry used during ingestion.
// Chunk ids are derived from it, so it must stay stable for the life of
// an index.
type ChunkingConfig struct {
	Size    int
	Overlap int
}

// Ingestor populates an empty vector index from the PDF corpus.
type Ingestor struct {
	source   Source
	embedder Embedder
	store    *Store
	chunking ChunkingConfig
	lockPath string
	logger   *slog.Logger
}

// NewIngestor creates an Ingestor writing to store. indexDir is the
// index's storage directory, used to place the ingestion lock file.
func NewIngestor(source Source, embedder Embedder, store *Store, indexDir string, chunking ChunkingConfig, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		source:   source,
		embedder: embedder,
		store:    store,
		chunking: chunking,
		lockPath: filepath.Join(indexDir, lockFileName),
		logger:   logger,
	}
}

// Run performs first-run ingestion: when the collection is empty the
// corpus is loaded, chunked, embedded and indexed; otherwise Run logs and
// returns without touching the index. The count check and load happen
// under an exclusive file lock so two processes sharing the storage path
// cannot both observe an empty collection and double-ingest.
func (ing *Ingestor) Run(ctx context.Context) error {
	unlock, err := ing.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if n := ing.store.Count(); n > 0 {
		ing.logger.Info("knowledge index already populated, skipping ingestion", "chunks", n)
		return nil
	}
	return ing.ingest(ctx)
}

// Reingest drops the existing index and rebuilds it from the corpus.
// This is the manual reset path; nothing triggers it automatically.
func (ing *Ingestor) Reingest(ctx context.Context) error {
	unlock, err := ing.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := ing.store.Reset(); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	return ing.ingest(ctx)
}

func (ing *Ingestor) lock(ctx context.Context) (func(), error) {
	lock := flock.New(ing.lockPath)
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("acquiring ingest lock %s: %w", ing.lockPath, err)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			ing.logger.Warn("failed to release ingest lock", "path", ing.lockPath, "error", err)
		}
	}, nil
}

func (ing *Ingestor) ingest(ctx context.Context) error {
	files, stats, err := ing.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(files) == 0 {
		ing.logger.Warn("no usable documents in corpus, knowledge index stays empty",
			"found", statFound(stats),
			"failed", statFailed(stats))
		return nil
	}

	var (
		ids       []string
		texts     []string
		metadatas []map[string]string
	)
	for _, f := range files {
		chunks := document.SplitWords(f.Text, ing.chunking.Size, ing.chunking.Overlap)
		for i, chunk := range chunks {
			ids = append(ids, fmt.Sprintf("%s_chunk_%d", f.Stem, i))
			texts = append(texts, chunk)
			metadatas = append(metadatas, map[string]string{
				"source":   f.Name,
				"chunk_id": strconv.Itoa(i),
			})
		}
		ing.logger.Info("chunked document", "file", f.Name, "chunks", len(chunks))
	}

	embeddings, err := ing.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}

	if err := ing.store.Add(ctx, ids, embeddings, texts, metadatas); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}

	ing.logger.Info("loaded document chunks into knowledge index",
		"documents", len(files),
		"chunks", len(texts),
		"failed", statFailed(stats))
	return nil
}

func statFound(s *document.LoadStats) int {
	if s == nil {
		return 0
	}
	return s.Found
}

func statFailed(s *document.LoadStats) int {
	if s == nil {
		return 0
	}
	return s.Failed + s.Empty
}
