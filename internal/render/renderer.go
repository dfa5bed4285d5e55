// Package render rasterizes PDF pages using MuPDF via go-fitz.
package render

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
)

// Renderer implements domain.Renderer on top of go-fitz.
type Renderer struct {
	validator *Validator
	log       *observability.Logger
}

// NewRenderer creates a new renderer instance.
func NewRenderer(log *observability.Logger) *Renderer {
	return &Renderer{
		validator: NewValidator(log),
		log:       log,
	}
}

// Render rasterizes every page of the document at the given DPI. Any
// failure to decode the document or render a page is fatal; there is no
// partial result. A document with zero pages renders to an empty,
// non-nil slice.
func (r *Renderer) Render(ctx context.Context, pdfPath string, dpi int) ([]domain.RasterPage, error) {
	if err := r.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateDPI(dpi); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.RenderError("failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	r.log.Debug().
		Str("path", pdfPath).
		Int("pages", pageCount).
		Int("dpi", dpi).
		Msg("rendering document")

	pages := make([]domain.RasterPage, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, float64(dpi))
		if err != nil {
			return nil, domain.RenderError(fmt.Sprintf("failed to render page %d", pageNum+1), err)
		}

		pages = append(pages, domain.RasterPage{
			Number: pageNum + 1,
			Image:  img,
		})
	}

	return pages, nil
}

// Close releases engine resources. The MuPDF handle is closed at the
// end of each Render call, so there is nothing held between calls.
func (r *Renderer) Close() error {
	return nil
}
