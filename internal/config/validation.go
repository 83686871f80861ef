package config

import (
	"fmt"
	"os"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// API key is required for all generation and embedding operations.
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	// Reference: Gemini API documentation
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.TopP < 0.0 || c.TopP > 1.0 {
		return fmt.Errorf("%w: must be between 0.0 and 1.0, got %.2f", ErrInvalidTopP, c.TopP)
	}

	if c.TopK < 1 {
		return fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidTopK, c.TopK)
	}

	// MaxOutputTokens range: 1 to 2097152 (Gemini 2.5 max context window)
	// Reference: https://ai.google.dev/gemini-api/docs/models
	if c.MaxOutputTokens < 1 || c.MaxOutputTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxOutputTokens, c.MaxOutputTokens)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	if c.TopResults < 1 || c.TopResults > 100 {
		return fmt.Errorf("%w: must be between 1 and 100, got %d", ErrInvalidTopResults, c.TopResults)
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1, got %d", ErrInvalidChunking, c.ChunkSize)
	}

	// Overlap must leave a positive stride, or chunking never advances.
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size), got overlap %d with size %d",
			ErrInvalidChunking, c.ChunkOverlap, c.ChunkSize)
	}

	if c.DocsDir == "" {
		return fmt.Errorf("%w: docs_dir cannot be empty", ErrInvalidPath)
	}
	if c.IndexDir == "" {
		return fmt.Errorf("%w: index_dir cannot be empty", ErrInvalidPath)
	}
	if c.CollectionName == "" {
		return fmt.Errorf("%w: collection_name cannot be empty", ErrInvalidPath)
	}
	if c.ChatsDBPath == "" {
		return fmt.Errorf("%w: chats_db_path cannot be empty", ErrInvalidPath)
	}

	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("%w: embed_timeout must be positive, got %v", ErrInvalidTimeout, c.EmbedTimeout)
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("%w: generate_timeout must be positive, got %v", ErrInvalidTimeout, c.GenerateTimeout)
	}

	return nil
}
