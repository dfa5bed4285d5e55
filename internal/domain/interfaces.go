package domain

import "context"

// Renderer defines the interface for rasterizing PDF pages
type Renderer interface {
	// Render turns every page of a PDF into a raster image at the given DPI.
	// Pages come back in document order with 1-based contiguous numbers.
	Render(ctx context.Context, pdfPath string, dpi int) ([]RasterPage, error)

	// Close releases resources held by the rendering engine
	Close() error
}

// Recognizer defines the interface for optical text recognition
type Recognizer interface {
	// Recognize returns the plain text found in a PNG-encoded image.
	// An empty string is a valid result; an image with no readable
	// text is not an error.
	Recognize(ctx context.Context, png []byte) (string, error)

	// Close releases resources held by the recognition engine
	Close() error
}

// Pipeline orchestrates rendering, column splitting, recognition and
// metadata extraction
type Pipeline interface {
	// Process handles the complete workflow for one PDF and streams
	// progress events to eventCh. On any failure the run aborts and
	// no results are exposed.
	Process(ctx context.Context, pdfPath string, eventCh chan<- StreamEvent) error
}
