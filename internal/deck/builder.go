// Package deck renders extraction results into a presentation-style PDF,
// one 16:9 slide per source page.
package deck

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
)

// Slide geometry in points.
const (
	slideWidth  = 960.0
	slideHeight = 540.0

	textLeft  = 50.0
	textWidth = 400.0

	imageLeft   = 500.0
	imageTop    = 50.0
	imageWidth  = 374.4
	imageHeight = 459.6
)

// Abstracts longer than this are cut with an ellipsis so the block stays on
// the slide.
const maxAbstractChars = 600

// Builder assembles a slide deck from ordered page results.
type Builder struct {
	log *observability.Logger
}

// NewBuilder creates a new deck builder.
func NewBuilder(log *observability.Logger) *Builder {
	return &Builder{log: log}
}

// Build writes one slide per result, in result order, to outPath. Each slide
// shows the rendered page image next to the extracted metadata. With no
// results there is nothing to render and no file is written.
func (b *Builder) Build(results []domain.PageResult, outPath string) error {
	if len(results) == 0 {
		b.log.Warn().Str("path", outPath).Msg("no pages to render, skipping deck")
		return nil
	}

	b.log.Debug().
		Int("slides", len(results)).
		Str("path", outPath).
		Msg("building deck")

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: slideWidth, Ht: slideHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(textLeft, imageTop, slideWidth-(textLeft+textWidth))

	for _, result := range results {
		if err := b.addSlide(pdf, result); err != nil {
			return err
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		b.log.Error().Err(err).Str("path", outPath).Msg("failed to write deck")
		return fmt.Errorf("write deck %s: %w", outPath, err)
	}

	b.log.Info().Int("slides", len(results)).Str("path", outPath).Msg("deck written")
	return nil
}

func (b *Builder) addSlide(pdf *fpdf.Fpdf, result domain.PageResult) error {
	if _, err := os.Stat(result.ImagePath); err != nil {
		return fmt.Errorf("slide for page %d: page image %s: %w", result.PageNumber, result.ImagePath, err)
	}

	pdf.AddPage()

	// Solid dark slide background.
	pdf.SetFillColor(28, 28, 28)
	pdf.Rect(0, 0, slideWidth, slideHeight, "F")

	pdf.ImageOptions(result.ImagePath, imageLeft, imageTop, imageWidth, imageHeight, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	meta := result.Metadata

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(textLeft, 40)
	pdf.MultiCell(textWidth, 20, meta.Title, "", "L", false)

	// Number and grant date share a line, the number emphasized.
	pdf.SetTextColor(211, 211, 211)
	pdf.SetXY(textLeft, 120)
	pdf.SetFont("Helvetica", "", 16)
	pdf.Write(20, "PATENT #: ")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Write(20, meta.Number)
	pdf.SetFont("Helvetica", "", 16)
	pdf.Write(20, "     "+meta.Date)

	pdf.SetXY(textLeft, 160)
	pdf.SetFont("Helvetica", "", 14)
	pdf.Write(18, "INVENTORS: ")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Write(18, meta.Inventors)

	// Divider between the header block and the abstract.
	pdf.SetDrawColor(136, 136, 136)
	pdf.SetLineWidth(0.75)
	pdf.Line(50, 230, 450, 230)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(textLeft, 250)
	pdf.MultiCell(textWidth, 16, truncate(meta.Abstract, maxAbstractChars), "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("slide for page %d: %w", result.PageNumber, err)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
