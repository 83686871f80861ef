// Package app provides application initialization and dependency
// injection.
//
// App is the container that wires config, Genkit, the knowledge-base
// pipeline, the conversation store and the responder. Every component is
// constructed explicitly here; nothing is global or lazily initialized,
// and collaborators reach each other only through the interfaces they
// declare.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/guesthouse-ai/concierge/internal/chat"
	"github.com/guesthouse-ai/concierge/internal/config"
	"github.com/guesthouse-ai/concierge/internal/database"
	"github.com/guesthouse-ai/concierge/internal/document"
	"github.com/guesthouse-ai/concierge/internal/knowledge"
	"github.com/guesthouse-ai/concierge/internal/session"
)

// App is the application container.
type App struct {
	Config *config.Config
	Genkit *genkit.Genkit

	Ingestor  *knowledge.Ingestor
	Retriever *knowledge.Retriever
	Sessions  *session.Store
	Responder *chat.Responder

	db     *sql.DB
	logger *slog.Logger
}

// New builds the full application from cfg. The knowledge index is
// opened but not populated; call Ingest for that.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))

	embedder := knowledge.NewGenkitEmbedder(
		googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel),
		cfg.EmbedTimeout,
	)

	store, err := knowledge.NewStore(
		cfg.IndexDir,
		cfg.CollectionName,
		knowledge.NewEmbeddingFunc(embedder),
		logger.With("component", "knowledge"),
	)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge store: %w", err)
	}

	extractor, err := document.NewPDFExtractor(cfg.UnidocLicenseKey)
	if err != nil {
		return nil, fmt.Errorf("creating PDF extractor: %w", err)
	}
	loader := document.NewLoader(cfg.DocsDir, extractor, logger.With("component", "loader"))

	ingestor := knowledge.NewIngestor(
		loader, embedder, store, cfg.IndexDir,
		knowledge.ChunkingConfig{Size: cfg.ChunkSize, Overlap: cfg.ChunkOverlap},
		logger.With("component", "ingest"),
	)
	retriever := knowledge.NewRetriever(embedder, store, cfg.TopResults, logger.With("component", "retriever"))

	db, err := database.Open(cfg.ChatsDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening chats database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating chats database: %w", err)
	}
	sessions := session.NewStore(db, logger.With("component", "session"))

	responder, err := chat.NewResponder(
		retriever, sessions, chat.NewGeminiGenerator(g, cfg),
		chat.Config{
			PropertyName:      cfg.PropertyName,
			TopResults:        cfg.TopResults,
			GenerateTimeout:   cfg.GenerateTimeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
		},
		logger.With("component", "chat"),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating responder: %w", err)
	}

	return &App{
		Config:    cfg,
		Genkit:    g,
		Ingestor:  ingestor,
		Retriever: retriever,
		Sessions:  sessions,
		Responder: responder,
		db:        db,
		logger:    logger,
	}, nil
}

// Ingest populates an empty knowledge index from the PDF corpus. A
// populated index is left as is; pass reset to drop and rebuild it.
func (a *App) Ingest(ctx context.Context, reset bool) error {
	if reset {
		return a.Ingestor.Reingest(ctx)
	}
	return a.Ingestor.Run(ctx)
}

// Close releases all resources.
func (a *App) Close() error {
	a.logger.Info("shutting down")

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("closing chats database: %w", err)
		}
	}
	return nil
}
