package domain

import (
	"image"
	"time"
)

// Fallback placeholders used when a metadata pattern does not match.
// Downstream consumers treat these as data, not as error signals.
const (
	TitleFallback     = "Title N/A"
	NumberFallback    = "PATENT # N/A"
	DateFallback      = "Date N/A"
	InventorsFallback = "Inventors N/A"
	AbstractFallback  = "Abstract N/A"
)

// RasterPage is a single document page rendered as pixels.
// Page numbers are 1-based and contiguous across a document.
type RasterPage struct {
	Number int
	Image  image.Image
}

// Width returns the pixel width of the rendered page
func (p RasterPage) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the pixel height of the rendered page
func (p RasterPage) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// ColumnSide identifies which half of a page a column crop came from.
// The numeric values match the artifact suffixes (col1, col2).
type ColumnSide int

const (
	ColumnLeft  ColumnSide = 1
	ColumnRight ColumnSide = 2
)

func (s ColumnSide) String() string {
	switch s {
	case ColumnLeft:
		return "left"
	case ColumnRight:
		return "right"
	default:
		return "unknown"
	}
}

// ColumnOrder selects the reading order used when concatenating
// recognized column text into PageText.
type ColumnOrder string

const (
	ColumnOrderLeftRight ColumnOrder = "left-right"
	ColumnOrderRightLeft ColumnOrder = "right-left"
)

// Valid reports whether the order is one of the supported values.
func (o ColumnOrder) Valid() bool {
	return o == ColumnOrderLeftRight || o == ColumnOrderRightLeft
}

// ColumnImage is a half-width crop of a raster page
type ColumnImage struct {
	PageNumber int
	Side       ColumnSide
	Image      image.Image
}

// Width returns the pixel width of the column crop
func (c ColumnImage) Width() int {
	if c.Image == nil {
		return 0
	}
	return c.Image.Bounds().Dx()
}

// PatentMetadata holds the five bibliographic fields extracted from page text
type PatentMetadata struct {
	Title     string `json:"title"`
	Number    string `json:"number"`
	Date      string `json:"date"`
	Inventors string `json:"inventors"`
	Abstract  string `json:"abstract"`
}

// NewPatentMetadata returns a record with every field at its fallback placeholder
func NewPatentMetadata() PatentMetadata {
	return PatentMetadata{
		Title:     TitleFallback,
		Number:    NumberFallback,
		Date:      DateFallback,
		Inventors: InventorsFallback,
		Abstract:  AbstractFallback,
	}
}

// HasMatches reports whether at least one field was extracted from the text
func (m PatentMetadata) HasMatches() bool {
	return m.Title != TitleFallback ||
		m.Number != NumberFallback ||
		m.Date != DateFallback ||
		m.Inventors != InventorsFallback ||
		m.Abstract != AbstractFallback
}

// PageResult is the durable output unit for one processed page.
// Results are exposed in strictly increasing page order; slide generation
// depends on this for its 1:1 page-to-slide mapping.
type PageResult struct {
	PageNumber int            `json:"page_number"`
	ImagePath  string         `json:"image_path"`
	TextPath   string         `json:"text_path"`
	Text       string         `json:"-"` // persisted as the .txt artifact
	Metadata   PatentMetadata `json:"metadata"`
}

// RunStats contains metadata about a pipeline execution
type RunStats struct {
	TotalPages     int           `json:"total_pages"`
	ProcessedPages int           `json:"processed_pages"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
}

// RunResult is the complete outcome of one successful pipeline run
type RunResult struct {
	RunID      string       `json:"run_id"`
	SourcePath string       `json:"source_path"`
	OutputDir  string       `json:"output_dir"`
	Results    []PageResult `json:"results"`
	Stats      RunStats     `json:"stats"`
}

// EventType represents the type of stream event
type EventType string

const (
	EventStart          EventType = "start"
	EventPageProcessing EventType = "page_processing"
	EventPageComplete   EventType = "page_complete"
	EventError          EventType = "error"
	EventComplete       EventType = "complete"
)

// StreamEvent represents an event emitted during processing
type StreamEvent struct {
	Type       EventType   `json:"type"`
	PageNumber int         `json:"page_number,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// StartPayload accompanies EventStart
type StartPayload struct {
	SourcePath string `json:"source_path"`
	TotalPages int    `json:"total_pages"`
}

// PagePayload accompanies EventPageComplete and carries the progress
// counters a caller-side sink needs (pages processed so far, of total)
type PagePayload struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// CompletePayload accompanies EventComplete
type CompletePayload struct {
	Result *RunResult `json:"result"`
}
