package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// twoTonePage builds a page whose left half is red and right half is blue,
// so the split result can be verified by sampling pixels.
func twoTonePage(number, width, height int) domain.RasterPage {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return domain.RasterPage{Number: number, Image: img}
}

func TestSplit_Widths(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantLeft  int
		wantRight int
	}{
		{"even width", 100, 50, 50},
		{"odd width gives right the extra pixel", 101, 50, 51},
		{"single pixel", 1, 0, 1},
		{"typical 600dpi page", 5100, 2550, 2550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := twoTonePage(1, tt.width, 10)
			left, right := Split(page)

			if got := left.Width(); got != tt.wantLeft {
				t.Errorf("left width = %d, want %d", got, tt.wantLeft)
			}
			if got := right.Width(); got != tt.wantRight {
				t.Errorf("right width = %d, want %d", got, tt.wantRight)
			}
			if left.Width()+right.Width() != tt.width {
				t.Errorf("columns cover %d px, want %d", left.Width()+right.Width(), tt.width)
			}
			if left.Width() != tt.width/2 {
				t.Errorf("left width = %d, want floor(%d/2) = %d", left.Width(), tt.width, tt.width/2)
			}
		})
	}
}

func TestSplit_PixelContent(t *testing.T) {
	page := twoTonePage(4, 80, 20)
	left, right := Split(page)

	if left.PageNumber != 4 || right.PageNumber != 4 {
		t.Errorf("page numbers = %d/%d, want 4/4", left.PageNumber, right.PageNumber)
	}
	if left.Side != domain.ColumnLeft {
		t.Errorf("left side = %v, want %v", left.Side, domain.ColumnLeft)
	}
	if right.Side != domain.ColumnRight {
		t.Errorf("right side = %v, want %v", right.Side, domain.ColumnRight)
	}

	lb := left.Image.Bounds()
	r, _, _, _ := left.Image.At(lb.Min.X, lb.Min.Y).RGBA()
	if r == 0 {
		t.Error("left column should sample red pixels")
	}

	rb := right.Image.Bounds()
	_, _, b, _ := right.Image.At(rb.Min.X, rb.Min.Y).RGBA()
	if b == 0 {
		t.Error("right column should sample blue pixels")
	}
}

func TestSplit_ZeroWidth(t *testing.T) {
	page := domain.RasterPage{Number: 1, Image: image.NewRGBA(image.Rect(0, 0, 0, 30))}
	left, right := Split(page)

	if left.Width() != 0 || right.Width() != 0 {
		t.Errorf("zero-width page split = %d/%d, want 0/0", left.Width(), right.Width())
	}
}

// plainImage hides the SubImage method to force the copy path.
type plainImage struct {
	inner image.Image
}

func (p plainImage) ColorModel() color.Model { return p.inner.ColorModel() }
func (p plainImage) Bounds() image.Rectangle { return p.inner.Bounds() }
func (p plainImage) At(x, y int) color.Color { return p.inner.At(x, y) }

func TestSplit_CopiesWhenSubImageUnsupported(t *testing.T) {
	src := twoTonePage(2, 60, 10)
	page := domain.RasterPage{Number: 2, Image: plainImage{inner: src.Image}}

	left, right := Split(page)

	if left.Width() != 30 || right.Width() != 30 {
		t.Fatalf("split widths = %d/%d, want 30/30", left.Width(), right.Width())
	}

	r, _, _, _ := left.Image.At(left.Image.Bounds().Min.X, 0).RGBA()
	if r == 0 {
		t.Error("copied left column should sample red pixels")
	}
	_, _, b, _ := right.Image.At(right.Image.Bounds().Min.X, 0).RGBA()
	if b == 0 {
		t.Error("copied right column should sample blue pixels")
	}
}
