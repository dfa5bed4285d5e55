package extract

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/internal/storage"
)

// scriptedRecognizer returns canned texts in call order and can be set
// to fail from a given call onward.
type scriptedRecognizer struct {
	outputs []string
	errAt   int // 1-based call index to start failing at, 0 = never
	calls   int
}

func (r *scriptedRecognizer) Recognize(ctx context.Context, png []byte) (string, error) {
	r.calls++
	if r.errAt > 0 && r.calls >= r.errAt {
		return "", domain.RecognitionError("engine crashed", nil)
	}
	if len(r.outputs) > 0 {
		return r.outputs[(r.calls-1)%len(r.outputs)], nil
	}
	return fmt.Sprintf("text-%d", r.calls), nil
}

func (r *scriptedRecognizer) Close() error { return nil }

func rasterPage(number, w, h int) domain.RasterPage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), A: 255})
		}
	}
	return domain.RasterPage{Number: number, Image: img}
}

func preparedStore(t *testing.T) *storage.Store {
	t.Helper()
	store := storage.NewStore(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, store.Prepare())
	return store
}

func TestPageProcessor_Process(t *testing.T) {
	store := preparedStore(t)
	rec := &scriptedRecognizer{outputs: []string{
		"(54) A Widget Apparatus",
		"US 10,123,456 B2\n\nAbstract: A clever widget.",
	}}
	proc := NewPageProcessor(rec, store, domain.ColumnOrderLeftRight, observability.Discard())

	result, err := proc.Process(context.Background(), rasterPage(3, 64, 40))
	require.NoError(t, err)

	assert.Equal(t, 3, result.PageNumber)
	assert.Equal(t, store.PagePath(3), result.ImagePath)
	assert.Equal(t, store.TextPath(3), result.TextPath)

	wantText := "(54) A Widget Apparatus\n\nUS 10,123,456 B2\n\nAbstract: A clever widget."
	assert.Equal(t, wantText, result.Text, "page text is left + blank line + right")

	// Exactly four artifacts, under the fixed names.
	for _, path := range []string{
		store.PagePath(3),
		store.ColumnPath(3, domain.ColumnLeft),
		store.ColumnPath(3, domain.ColumnRight),
		store.TextPath(3),
	} {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, "missing artifact %s", path)
	}
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	// The .txt artifact round-trips the in-memory text bit for bit.
	data, err := os.ReadFile(result.TextPath)
	require.NoError(t, err)
	assert.Equal(t, result.Text, string(data))

	// Metadata comes from the concatenated text.
	assert.Equal(t, "A Widget Apparatus", result.Metadata.Title)
	assert.Equal(t, "US 10,123,456 B2", result.Metadata.Number)
	assert.Equal(t, "A clever widget.", result.Metadata.Abstract)
	assert.Equal(t, domain.DateFallback, result.Metadata.Date)
	assert.Equal(t, domain.InventorsFallback, result.Metadata.Inventors)
}

func TestPageProcessor_Process_RightLeftOrder(t *testing.T) {
	store := preparedStore(t)
	rec := &scriptedRecognizer{outputs: []string{"left words", "right words"}}
	proc := NewPageProcessor(rec, store, domain.ColumnOrderRightLeft, observability.Discard())

	result, err := proc.Process(context.Background(), rasterPage(1, 32, 20))
	require.NoError(t, err)

	assert.Equal(t, "right words\n\nleft words", result.Text)
}

func TestPageProcessor_Process_InvalidOrderFallsBack(t *testing.T) {
	store := preparedStore(t)
	rec := &scriptedRecognizer{outputs: []string{"left", "right"}}
	proc := NewPageProcessor(rec, store, domain.ColumnOrder("sideways"), observability.Discard())

	result, err := proc.Process(context.Background(), rasterPage(1, 32, 20))
	require.NoError(t, err)

	assert.Equal(t, "left\n\nright", result.Text)
}

func TestPageProcessor_Process_RecognitionFailure(t *testing.T) {
	store := preparedStore(t)
	rec := &scriptedRecognizer{errAt: 1}
	proc := NewPageProcessor(rec, store, domain.ColumnOrderLeftRight, observability.Discard())

	result, err := proc.Process(context.Background(), rasterPage(2, 32, 20))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, domain.IsErrorType(err, domain.ErrorTypeRecognition))

	// No text artifact for a failed page.
	_, statErr := os.Stat(store.TextPath(2))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPageProcessor_Process_PersistenceFailure(t *testing.T) {
	// Store was never prepared, so the directory does not exist.
	store := storage.NewStore(filepath.Join(t.TempDir(), "missing"))
	rec := &scriptedRecognizer{}
	proc := NewPageProcessor(rec, store, domain.ColumnOrderLeftRight, observability.Discard())

	result, err := proc.Process(context.Background(), rasterPage(1, 16, 16))
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, domain.IsErrorType(err, domain.ErrorTypePersistence))
	assert.Zero(t, rec.calls, "recognition must not run when persistence fails first")
}
