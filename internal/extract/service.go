package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/internal/storage"
)

// Service orchestrates the patent extraction pipeline: render all
// pages, then process them sequentially in ascending page order.
//
// Failure policy is all-or-nothing. A render failure aborts before any
// page artifact exists; a page failure aborts the run with no result.
// A partial result list is never exposed, so a downstream deck can
// never silently misrepresent the source document.
type Service struct {
	renderer  domain.Renderer
	processor *PageProcessor
	store     *storage.Store
	dpi       int
	log       *observability.Logger
}

// NewService creates a new pipeline service rendering at the given DPI.
func NewService(renderer domain.Renderer, processor *PageProcessor, store *storage.Store, dpi int, log *observability.Logger) *Service {
	return &Service{
		renderer:  renderer,
		processor: processor,
		store:     store,
		dpi:       dpi,
		log:       log.WithOperation("pipeline"),
	}
}

// Process handles the complete workflow for one PDF, streaming progress
// events to eventCh. The final result travels in the complete event's
// payload; on failure an error event precedes the returned error.
func (s *Service) Process(ctx context.Context, pdfPath string, eventCh chan<- domain.StreamEvent) error {
	_, err := s.run(ctx, pdfPath, eventCh)
	return err
}

// ProcessWithResult runs the pipeline without event streaming and
// returns the run result directly.
func (s *Service) ProcessWithResult(ctx context.Context, pdfPath string) (*domain.RunResult, error) {
	return s.run(ctx, pdfPath, nil)
}

func (s *Service) run(ctx context.Context, pdfPath string, eventCh chan<- domain.StreamEvent) (*domain.RunResult, error) {
	startTime := time.Now()
	runID := uuid.New().String()
	log := s.log.WithRun(runID)

	// Render every page up front. An undecodable document fails here,
	// before the first page artifact is written.
	log.Info().Str("path", pdfPath).Int("dpi", s.dpi).Msg("rendering document")
	pages, err := s.renderer.Render(ctx, pdfPath, s.dpi)
	if err != nil {
		s.emitError(eventCh, err)
		return nil, err
	}

	log.Info().Int("pages", len(pages)).Msg("rendered document")
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStart,
		Payload:   domain.StartPayload{SourcePath: pdfPath, TotalPages: len(pages)},
		Timestamp: time.Now(),
	})

	results := make([]domain.PageResult, 0, len(pages))

	for _, page := range pages {
		select {
		case <-ctx.Done():
			s.emitError(eventCh, ctx.Err())
			return nil, ctx.Err()
		default:
		}

		s.emitEvent(eventCh, domain.StreamEvent{
			Type:       domain.EventPageProcessing,
			PageNumber: page.Number,
			Payload:    domain.PagePayload{Processed: len(results), Total: len(pages)},
			Timestamp:  time.Now(),
		})

		result, err := s.processor.Process(ctx, page)
		if err != nil {
			pageErr := fmt.Errorf("page %d: %w", page.Number, err)
			log.Error().Err(pageErr).Msg("aborting run")
			s.emitError(eventCh, pageErr)
			return nil, pageErr
		}
		results = append(results, *result)

		log.Info().Int("page", page.Number).Int("total", len(pages)).Msg("page complete")
		s.emitEvent(eventCh, domain.StreamEvent{
			Type:       domain.EventPageComplete,
			PageNumber: page.Number,
			Payload:    domain.PagePayload{Processed: len(results), Total: len(pages)},
			Timestamp:  time.Now(),
		})
	}

	runResult := &domain.RunResult{
		RunID:      runID,
		SourcePath: pdfPath,
		OutputDir:  s.store.Dir(),
		Results:    results,
		Stats: domain.RunStats{
			TotalPages:     len(pages),
			ProcessedPages: len(results),
			StartedAt:      startTime,
			Duration:       time.Since(startTime),
		},
	}

	log.Info().
		Int("pages", len(results)).
		Dur("duration", runResult.Stats.Duration).
		Msg("run complete")
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventComplete,
		Payload:   domain.CompletePayload{Result: runResult},
		Timestamp: time.Now(),
	})

	return runResult, nil
}

// emitEvent safely emits an event to the channel. A nil channel means
// the caller opted out of streaming; a full channel drops the event
// rather than stalling the pipeline.
func (s *Service) emitEvent(eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh != nil {
		select {
		case eventCh <- event:
		default:
			s.log.Warn().Str("event", string(event.Type)).Msg("event channel full, dropping event")
		}
	}
}

// emitError emits an error event.
func (s *Service) emitError(eventCh chan<- domain.StreamEvent, err error) {
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventError,
		Payload:   err.Error(),
		Timestamp: time.Now(),
	})
}
