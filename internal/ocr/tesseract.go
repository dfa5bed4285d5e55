// Package ocr provides optical text recognition backed by Tesseract.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
)

// DefaultLanguages is the recognition language set used when none is
// configured. Gazette pages are English.
var DefaultLanguages = []string{"eng"}

// Recognizer implements domain.Recognizer using the gosseract client.
// Each call uses a fresh client; a column image is recognized exactly
// once and client state never leaks between pages.
type Recognizer struct {
	clientFactory func() *gosseract.Client
	languages     []string
	dpiHint       int
	log           *observability.Logger
}

// NewRecognizer constructs a Tesseract-backed recognizer. languages
// selects the traineddata sets; dpiHint tells the engine the source
// resolution of the column crops (0 leaves it to auto-detection).
func NewRecognizer(languages []string, dpiHint int, log *observability.Logger) *Recognizer {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Recognizer{
		clientFactory: gosseract.NewClient,
		languages:     languages,
		dpiHint:       dpiHint,
		log:           log,
	}
}

// Recognize returns the text found in a PNG-encoded image, surrounding
// whitespace trimmed. An image with no readable text yields an empty
// string, not an error.
func (r *Recognizer) Recognize(ctx context.Context, png []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := r.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(png); err != nil {
		return "", domain.RecognitionError("set image", err)
	}
	if err := c.SetLanguage(r.languages...); err != nil {
		return "", domain.RecognitionError("set languages", err)
	}
	if r.dpiHint > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(r.dpiHint)); err != nil {
			return "", domain.RecognitionError("set dpi", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", domain.RecognitionError("recognize text", err)
	}

	return strings.TrimSpace(text), nil
}

// Close releases engine resources. Clients are closed per call, so
// there is nothing held between calls.
func (r *Recognizer) Close() error {
	return nil
}
