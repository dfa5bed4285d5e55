// Package storage persists page artifacts (full-page renders, column
// crops, recognized text) under a single run output directory.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// Store writes page artifacts into one flat output directory using the
// fixed naming scheme page_{n}.png, page_{n}_col{1,2}.png, page_{n}.txt.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir. The directory is not
// touched until Prepare is called.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the output directory the store writes into.
func (s *Store) Dir() string {
	return s.baseDir
}

// Prepare wipes any previous run output and recreates the directory
// empty. Callers invoke this once before a run; the pipeline itself
// never deletes anything.
func (s *Store) Prepare() error {
	if err := os.RemoveAll(s.baseDir); err != nil {
		return domain.PersistenceError("clear output directory", err)
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return domain.PersistenceError("create output directory", err)
	}
	return nil
}

// PagePath returns the path of the full-page render for a page.
func (s *Store) PagePath(pageNumber int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("page_%d.png", pageNumber))
}

// ColumnPath returns the path of a column crop for a page.
func (s *Store) ColumnPath(pageNumber int, side domain.ColumnSide) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("page_%d_col%d.png", pageNumber, int(side)))
}

// TextPath returns the path of the recognized text for a page.
func (s *Store) TextPath(pageNumber int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("page_%d.txt", pageNumber))
}

// SavePage encodes and writes the full-page render, returning its path.
func (s *Store) SavePage(page domain.RasterPage) (string, error) {
	data, err := EncodePNG(page.Image)
	if err != nil {
		return "", domain.PersistenceError(fmt.Sprintf("encode page %d image", page.Number), err)
	}
	path := s.PagePath(page.Number)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", domain.PersistenceError(fmt.Sprintf("write page %d image", page.Number), err)
	}
	return path, nil
}

// SaveColumnPNG writes an already-encoded column crop, returning its path.
func (s *Store) SaveColumnPNG(pageNumber int, side domain.ColumnSide, data []byte) (string, error) {
	path := s.ColumnPath(pageNumber, side)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", domain.PersistenceError(fmt.Sprintf("write page %d %s column", pageNumber, side), err)
	}
	return path, nil
}

// SaveText writes the recognized page text verbatim, returning its path.
// Reading the file back yields the in-memory text byte for byte.
func (s *Store) SaveText(pageNumber int, text string) (string, error) {
	path := s.TextPath(pageNumber)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", domain.PersistenceError(fmt.Sprintf("write page %d text", pageNumber), err)
	}
	return path, nil
}

// EncodePNG renders an image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
