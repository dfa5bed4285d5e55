// Package extractor is the public entry point for the patent extraction
// pipeline. It wires configuration, rendering, recognition and artifact
// storage into a single client.
package extractor

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/patentdeck/patent-extractor/internal/config"
	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/extract"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/internal/ocr"
	"github.com/patentdeck/patent-extractor/internal/render"
	"github.com/patentdeck/patent-extractor/internal/storage"
)

// Re-export result and event types for the public API
type (
	StreamEvent     = domain.StreamEvent
	EventType       = domain.EventType
	PatentMetadata  = domain.PatentMetadata
	PageResult      = domain.PageResult
	RunResult       = domain.RunResult
	RunStats        = domain.RunStats
	StartPayload    = domain.StartPayload
	PagePayload     = domain.PagePayload
	CompletePayload = domain.CompletePayload
)

// Event type constants
const (
	EventStart          = domain.EventStart
	EventPageProcessing = domain.EventPageProcessing
	EventPageComplete   = domain.EventPageComplete
	EventError          = domain.EventError
	EventComplete       = domain.EventComplete
)

const eventBuffer = 100

// Client is the main entry point for the patent extractor library
type Client struct {
	cfg        *config.Config
	log        *observability.Logger
	validator  *render.Validator
	renderer   *render.Renderer
	recognizer *ocr.Recognizer
	store      *storage.Store
	service    *extract.Service
}

// NewClient creates a client from environment configuration. A .env file in
// the working directory is honored when present.
func NewClient() (*Client, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, domain.ConfigError("nil config", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("invalid config", err)
	}

	log := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "patent-extractor",
	})

	renderer := render.NewRenderer(log)
	recognizer := ocr.NewRecognizer(cfg.OCR.Languages, cfg.OCR.DPIHint, log)
	store := storage.NewStore(cfg.Pipeline.OutputDir)
	processor := extract.NewPageProcessor(recognizer, store, cfg.ColumnOrder(), log)
	service := extract.NewService(renderer, processor, store, cfg.Pipeline.RenderDPI, log)

	return &Client{
		cfg:        cfg,
		log:        log,
		validator:  render.NewValidator(log),
		renderer:   renderer,
		recognizer: recognizer,
		store:      store,
		service:    service,
	}, nil
}

// Process runs the pipeline for pdfPath and streams progress events.
// The output directory is wiped and recreated before the run starts; the
// returned channel closes once the run finishes.
func (c *Client) Process(ctx context.Context, pdfPath string) (<-chan StreamEvent, error) {
	if err := c.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := c.store.Prepare(); err != nil {
		return nil, err
	}

	eventCh := make(chan StreamEvent, eventBuffer)

	go func() {
		defer close(eventCh)
		// Failures already surface as an EventError on the channel.
		_ = c.service.Process(ctx, pdfPath, eventCh)
	}()

	return eventCh, nil
}

// Run executes the pipeline synchronously and returns the full result.
// Like Process, it prepares the output directory first.
func (c *Client) Run(ctx context.Context, pdfPath string) (*RunResult, error) {
	if err := c.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := c.store.Prepare(); err != nil {
		return nil, err
	}
	return c.service.ProcessWithResult(ctx, pdfPath)
}

// OutputDir reports the directory artifacts are written to.
func (c *Client) OutputDir() string {
	return c.store.Dir()
}

// Close releases the rendering and recognition resources
func (c *Client) Close() error {
	if err := c.renderer.Close(); err != nil {
		return err
	}
	return c.recognizer.Close()
}
