package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
)

// Rendering resolution limits. Below 72 DPI the column text is too
// degraded for recognition; above 1200 a single gazette page allocates
// hundreds of megabytes of pixels.
const (
	DefaultDPI = 600
	MinDPI     = 72
	MaxDPI     = 1200
)

// Validator provides input validation for source documents.
type Validator struct {
	log *observability.Logger
}

// NewValidator creates a new validator instance.
func NewValidator(log *observability.Logger) *Validator {
	return &Validator{log: log}
}

// ValidatePDFPath validates that a file path is valid and points to a PDF.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	// Large documents are allowed, they just take a while at 600 DPI.
	const maxSize = 100 * 1024 * 1024 // 100MB
	if info.Size() > maxSize {
		v.log.Warn().
			Str("path", path).
			Int64("size_mb", info.Size()/(1024*1024)).
			Msg("PDF file is very large, processing may take a while")
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	file.Close()

	return nil
}

// ValidateDPI validates the rendering resolution.
func (v *Validator) ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return domain.ValidationError(fmt.Sprintf("dpi must be between %d and %d, got %d", MinDPI, MaxDPI, dpi), nil)
	}
	return nil
}
