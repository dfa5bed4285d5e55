package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
)

func writePageImage(t *testing.T, dir string, page int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 60, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 3), B: 200, A: 255})
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("page_%d.png", page))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func sampleResults(t *testing.T, dir string, pages int) []domain.PageResult {
	t.Helper()

	var results []domain.PageResult
	for i := 1; i <= pages; i++ {
		results = append(results, domain.PageResult{
			PageNumber: i,
			ImagePath:  writePageImage(t, dir, i),
			Metadata: domain.PatentMetadata{
				Title:     fmt.Sprintf("Hydraulic Valve Assembly %d", i),
				Number:    "US 11,234,567 B2",
				Date:      "Mar. 14, 2023",
				Inventors: "Maria Kowalski; Chen Wu",
				Abstract:  "A valve assembly with a pilot-operated spool.",
			},
		})
	}
	return results
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "deck.pdf")

	builder := NewBuilder(observability.Discard())
	err := builder.Build(sampleResults(t, dir, 2), outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "/Count 2")
}

func TestBuilder_Build_FallbackMetadata(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "deck.pdf")

	results := sampleResults(t, dir, 1)
	results[0].Metadata = domain.NewPatentMetadata()

	builder := NewBuilder(observability.Discard())
	require.NoError(t, builder.Build(results, outPath))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestBuilder_Build_LongAbstractIsTruncated(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "deck.pdf")

	results := sampleResults(t, dir, 1)
	long := bytes.Repeat([]byte("valve assembly "), 200)
	results[0].Metadata.Abstract = string(long)

	builder := NewBuilder(observability.Discard())
	require.NoError(t, builder.Build(results, outPath))
}

func TestBuilder_Build_MissingImage(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "deck.pdf")

	results := sampleResults(t, dir, 2)
	results[1].ImagePath = filepath.Join(dir, "page_99.png")

	builder := NewBuilder(observability.Discard())
	err := builder.Build(results, outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page image")
	assert.Contains(t, err.Error(), "page 2")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuilder_Build_NoResults(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "deck.pdf")

	builder := NewBuilder(observability.Discard())
	require.NoError(t, builder.Build(nil, outPath))

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short stays whole", in: "abc", max: 10, want: "abc"},
		{name: "exact stays whole", in: "abcde", max: 5, want: "abcde"},
		{name: "long is cut", in: "abcdefgh", max: 5, want: "abcde..."},
		{name: "multibyte safe", in: "héllo wörld", max: 6, want: "héllo ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.max))
		})
	}
}
