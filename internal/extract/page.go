package extract

import (
	"context"
	"fmt"

	"github.com/patentdeck/patent-extractor/internal/domain"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/internal/segment"
	"github.com/patentdeck/patent-extractor/internal/storage"
)

// PageProcessor turns one raster page into its durable artifact set and
// PageResult: the full-page render, both column crops, the recognized
// text and the extracted metadata. Exactly four files are written per
// page; any write or recognition failure fails the page.
type PageProcessor struct {
	recognizer domain.Recognizer
	extractor  *MetadataExtractor
	store      *storage.Store
	order      domain.ColumnOrder
	log        *observability.Logger
}

// NewPageProcessor creates a page processor. order selects the reading
// order for text concatenation; an unset order falls back to left-right.
func NewPageProcessor(recognizer domain.Recognizer, store *storage.Store, order domain.ColumnOrder, log *observability.Logger) *PageProcessor {
	if !order.Valid() {
		order = domain.ColumnOrderLeftRight
	}
	return &PageProcessor{
		recognizer: recognizer,
		extractor:  NewMetadataExtractor(),
		store:      store,
		order:      order,
		log:        log,
	}
}

// Process persists and recognizes a single page. The page text is the
// two column texts joined by a blank line in the configured reading
// order, and is persisted verbatim as the page's .txt artifact.
func (p *PageProcessor) Process(ctx context.Context, page domain.RasterPage) (*domain.PageResult, error) {
	log := p.log.WithPage(page.Number)

	imagePath, err := p.store.SavePage(page)
	if err != nil {
		return nil, err
	}

	left, right := segment.Split(page)

	leftText, err := p.processColumn(ctx, left)
	if err != nil {
		return nil, err
	}
	rightText, err := p.processColumn(ctx, right)
	if err != nil {
		return nil, err
	}

	pageText := leftText + "\n\n" + rightText
	if p.order == domain.ColumnOrderRightLeft {
		pageText = rightText + "\n\n" + leftText
	}

	textPath, err := p.store.SaveText(page.Number, pageText)
	if err != nil {
		return nil, err
	}

	metadata := p.extractor.Extract(pageText)
	log.Debug().
		Bool("metadata_found", metadata.HasMatches()).
		Int("text_len", len(pageText)).
		Msg("page processed")

	return &domain.PageResult{
		PageNumber: page.Number,
		ImagePath:  imagePath,
		TextPath:   textPath,
		Text:       pageText,
		Metadata:   metadata,
	}, nil
}

// processColumn persists one column crop and recognizes its text. The
// crop is PNG-encoded once and the same bytes feed both the artifact
// write and the recognition engine.
func (p *PageProcessor) processColumn(ctx context.Context, col domain.ColumnImage) (string, error) {
	data, err := storage.EncodePNG(col.Image)
	if err != nil {
		return "", domain.PersistenceError(fmt.Sprintf("encode page %d %s column", col.PageNumber, col.Side), err)
	}

	if _, err := p.store.SaveColumnPNG(col.PageNumber, col.Side, data); err != nil {
		return "", err
	}

	text, err := p.recognizer.Recognize(ctx, data)
	if err != nil {
		return "", err
	}
	return text, nil
}
