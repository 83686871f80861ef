package document

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// licenseOnce guards the process-wide unipdf license registration.
var licenseOnce sync.Once

// PDFExtractor extracts plain text from PDF files using unipdf.
// Safe for concurrent use; each Extract call opens its own reader.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF text extractor. licenseKey is the UniDoc
// metered license key; it may be empty, in which case extraction runs
// unlicensed and per-file failures are left to the caller's skip policy.
func NewPDFExtractor(licenseKey string) (*PDFExtractor, error) {
	var licenseErr error
	if licenseKey != "" {
		licenseOnce.Do(func() {
			licenseErr = license.SetMeteredKey(licenseKey)
		})
	}
	if licenseErr != nil {
		return nil, fmt.Errorf("setting unipdf license key: %w", licenseErr)
	}
	return &PDFExtractor{}, nil
}

// Extract reads the PDF at path and returns its page texts joined by
// newlines. A PDF that parses but contains no extractable text returns
// an empty string and no error.
func (e *PDFExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("counting pages in %s: %w", path, err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, path, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("building extractor for page %d of %s: %w", i, path, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d of %s: %w", i, path, err)
		}

		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
