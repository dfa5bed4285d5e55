package extract

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/internal/storage"
)

type fakeRenderer struct {
	pages []domain.RasterPage
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, pdfPath string, dpi int) ([]domain.RasterPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func (f *fakeRenderer) Close() error { return nil }

func rasterPages(n int) []domain.RasterPage {
	pages := make([]domain.RasterPage, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, rasterPage(i, 48, 32))
	}
	return pages
}

func newTestService(t *testing.T, renderer domain.Renderer, recognizer domain.Recognizer) (*Service, *storage.Store) {
	t.Helper()
	store := preparedStore(t)
	proc := NewPageProcessor(recognizer, store, domain.ColumnOrderLeftRight, observability.Discard())
	svc := NewService(renderer, proc, store, 600, observability.Discard())
	return svc, store
}

func drainEvents(eventCh chan domain.StreamEvent) []domain.StreamEvent {
	close(eventCh)
	var events []domain.StreamEvent
	for e := range eventCh {
		events = append(events, e)
	}
	return events
}

func TestService_Process_Success(t *testing.T) {
	svc, store := newTestService(t, &fakeRenderer{pages: rasterPages(3)}, &scriptedRecognizer{})
	eventCh := make(chan domain.StreamEvent, 100)

	err := svc.Process(context.Background(), "gazette.pdf", eventCh)
	require.NoError(t, err)

	events := drainEvents(eventCh)
	require.NotEmpty(t, events)

	// start, then (processing, complete) per page, then complete.
	assert.Equal(t, domain.EventStart, events[0].Type)
	start, ok := events[0].Payload.(domain.StartPayload)
	require.True(t, ok)
	assert.Equal(t, 3, start.TotalPages)
	assert.Equal(t, "gazette.pdf", start.SourcePath)

	last := events[len(events)-1]
	require.Equal(t, domain.EventComplete, last.Type)
	complete, ok := last.Payload.(domain.CompletePayload)
	require.True(t, ok)
	require.NotNil(t, complete.Result)

	result := complete.Result
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "gazette.pdf", result.SourcePath)
	assert.Equal(t, store.Dir(), result.OutputDir)
	assert.Equal(t, 3, result.Stats.TotalPages)
	assert.Equal(t, 3, result.Stats.ProcessedPages)

	require.Len(t, result.Results, 3)
	for i, pr := range result.Results {
		assert.Equal(t, i+1, pr.PageNumber, "results must be in strictly increasing page order")
	}

	var processing, completed int
	for _, e := range events[1 : len(events)-1] {
		switch e.Type {
		case domain.EventPageProcessing:
			processing++
		case domain.EventPageComplete:
			completed++
			payload, ok := e.Payload.(domain.PagePayload)
			require.True(t, ok)
			assert.Equal(t, 3, payload.Total)
			assert.Equal(t, payload.Processed, completed)
		}
	}
	assert.Equal(t, 3, processing)
	assert.Equal(t, 3, completed)
}

func TestService_Process_RenderErrorLeavesNoArtifacts(t *testing.T) {
	renderErr := domain.RenderError("failed to open PDF", errors.New("bad header"))
	svc, store := newTestService(t, &fakeRenderer{err: renderErr}, &scriptedRecognizer{})
	eventCh := make(chan domain.StreamEvent, 100)

	err := svc.Process(context.Background(), "broken.pdf", eventCh)
	require.Error(t, err)
	assert.True(t, domain.IsErrorType(err, domain.ErrorTypeRender))

	events := drainEvents(eventCh)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventError, events[0].Type)

	entries, readErr := os.ReadDir(store.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a render failure must leave no partial artifacts")
}

func TestService_Process_PageFailureAbortsRun(t *testing.T) {
	// Third recognition call is page 2's left column.
	svc, store := newTestService(t, &fakeRenderer{pages: rasterPages(3)}, &scriptedRecognizer{errAt: 3})
	eventCh := make(chan domain.StreamEvent, 100)

	err := svc.Process(context.Background(), "gazette.pdf", eventCh)
	require.Error(t, err)
	assert.True(t, domain.IsErrorType(err, domain.ErrorTypeRecognition))
	assert.Contains(t, err.Error(), "page 2")

	events := drainEvents(eventCh)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventError, last.Type)

	// No complete event, so no result was exposed.
	for _, e := range events {
		assert.NotEqual(t, domain.EventComplete, e.Type)
	}

	// Page 1 finished before the abort; page 3 was never reached.
	_, statErr := os.Stat(store.TextPath(1))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(store.PagePath(3))
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_Process_ZeroPages(t *testing.T) {
	svc, _ := newTestService(t, &fakeRenderer{pages: []domain.RasterPage{}}, &scriptedRecognizer{})
	eventCh := make(chan domain.StreamEvent, 100)

	err := svc.Process(context.Background(), "empty.pdf", eventCh)
	require.NoError(t, err, "a zero-page document is a successful empty run")

	events := drainEvents(eventCh)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventStart, events[0].Type)
	assert.Equal(t, domain.EventComplete, events[1].Type)

	complete := events[1].Payload.(domain.CompletePayload)
	require.NotNil(t, complete.Result)
	assert.NotNil(t, complete.Result.Results, "result list must be empty, not nil")
	assert.Empty(t, complete.Result.Results)
	assert.Equal(t, 0, complete.Result.Stats.TotalPages)
}

func TestService_Process_ContextCancelled(t *testing.T) {
	svc, _ := newTestService(t, &fakeRenderer{pages: rasterPages(2)}, &scriptedRecognizer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Process(ctx, "gazette.pdf", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestService_ProcessWithResult(t *testing.T) {
	svc, _ := newTestService(t, &fakeRenderer{pages: rasterPages(2)}, &scriptedRecognizer{})

	result, err := svc.ProcessWithResult(context.Background(), "gazette.pdf")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 2, result.Stats.ProcessedPages)
}

func TestService_Process_NilEventChannel(t *testing.T) {
	svc, _ := newTestService(t, &fakeRenderer{pages: rasterPages(1)}, &scriptedRecognizer{})

	// Streaming is optional; a nil channel must not panic or block.
	err := svc.Process(context.Background(), "gazette.pdf", nil)
	require.NoError(t, err)
}
