// Package document loads the PDF knowledge corpus and splits extracted
// text into overlapping word chunks for embedding.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// File is one successfully extracted corpus document.
type File struct {
	Name string // base file name, e.g. "house_manual.pdf"
	Stem string // file name without extension; namespaces chunk ids
	Text string // extracted plain text
}

// LoadStats counts per-file outcomes of a corpus load.
type LoadStats struct {
	Found     int // files matching *.pdf
	Extracted int // files yielding non-empty text
	Failed    int // extraction errors (skipped)
	Empty     int // parsed but no extractable text (skipped)
}

// Extractor extracts plain text from a document on disk.
type Extractor interface {
	Extract(path string) (string, error)
}

// Loader enumerates PDF files in a directory and extracts their text.
// Source files are never mutated.
type Loader struct {
	dir       string
	extractor Extractor
	logger    *slog.Logger
}

// NewLoader creates a Loader over dir using the given extractor.
func NewLoader(dir string, ex Extractor, logger *slog.Logger) *Loader {
	return &Loader{
		dir:       dir,
		extractor: ex,
		logger:    logger,
	}
}

// Load extracts text from every *.pdf file (case-insensitive, not
// recursive) in the loader's directory. A file that fails extraction or
// yields no text is logged, counted in the stats, and skipped; it never
// fails the load. An empty or PDF-free directory returns an empty slice
// and no error.
//
// File order follows the directory's lexical order, so chunk ids built
// from the result are stable across runs.
func (l *Loader) Load(ctx context.Context) ([]File, *LoadStats, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading corpus directory %s: %w", l.dir, err)
	}

	stats := &LoadStats{}
	var files []File
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("corpus load canceled: %w", err)
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		stats.Found++

		path := filepath.Join(l.dir, entry.Name())
		text, err := l.extractor.Extract(path)
		if err != nil {
			stats.Failed++
			l.logger.Error("failed to extract document, skipping",
				"file", entry.Name(),
				"error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			stats.Empty++
			l.logger.Warn("document contains no extractable text, skipping",
				"file", entry.Name())
			continue
		}

		stats.Extracted++
		name := entry.Name()
		files = append(files, File{
			Name: name,
			Stem: strings.TrimSuffix(name, filepath.Ext(name)),
			Text: text,
		})
		l.logger.Info("extracted document",
			"file", name,
			"chars", len(text))
	}

	return files, stats, nil
}
