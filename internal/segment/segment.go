// Package segment cuts rendered patent-gazette pages into their two
// print columns so each column can be recognized separately.
package segment

import (
	"image"
	"image/draw"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// subImager is satisfied by every standard raster type, including the
// RGBA pages the rendering engine produces.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Split cuts a raster page into its left and right half-width columns.
// The left column spans [0, floor(w/2)) and the right column takes the
// remainder, so the two always cover the full width even when it is odd.
// Splitting never fails; a zero-width page yields two zero-width crops.
func Split(page domain.RasterPage) (domain.ColumnImage, domain.ColumnImage) {
	bounds := page.Image.Bounds()
	columnWidth := bounds.Dx() / 2

	leftRect := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+columnWidth, bounds.Max.Y)
	rightRect := image.Rect(bounds.Min.X+columnWidth, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)

	left := domain.ColumnImage{
		PageNumber: page.Number,
		Side:       domain.ColumnLeft,
		Image:      crop(page.Image, leftRect),
	}
	right := domain.ColumnImage{
		PageNumber: page.Number,
		Side:       domain.ColumnRight,
		Image:      crop(page.Image, rightRect),
	}
	return left, right
}

// crop returns the sub-image for rect, sharing pixels when the source
// type allows it and copying otherwise.
func crop(img image.Image, rect image.Rectangle) image.Image {
	if si, ok := img.(subImager); ok {
		return si.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
