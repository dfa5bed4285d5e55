package extract

import (
	"regexp"
	"strings"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// Gazette front pages label their bibliographic sections with INID codes
// such as (54) for the title and (45) for the date of patent. Each field
// below is matched independently; the terminator alternation ends the
// captured span at the next numeric section marker, a blank line, or the
// end of the text, whichever the engine reaches first.
var (
	titlePattern     = regexp.MustCompile(`(?i)\(54\)\s*([\s\S]+?)(?:\(\d{2}\)|\n{2,}|\z)`)
	numberPattern    = regexp.MustCompile(`US\s\d{1,3},\d{3},\d{3}\s\w\d`)
	datePattern      = regexp.MustCompile(`\(45\)\s*Date of Patent:\s*(\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.\s\d{1,2},\s\d{4}\b)`)
	inventorsPattern = regexp.MustCompile(`(?i)Inventors?:\s*([\s\S]+?)(?:\(\d{2}\)|\n\n|\z)`)
	abstractPattern  = regexp.MustCompile(`(?i)Abstract:?\s*([\s\S]+?)(?:\n\n|\z)`)
)

// fieldRule is one independent extraction rule: a pattern, the submatch
// group carrying the field text, a cleanup step, and where the cleaned
// value lands. Absence of a match is not an error; the field keeps the
// fallback placeholder it was initialized with.
type fieldRule struct {
	name    string
	pattern *regexp.Regexp
	group   int
	clean   func(string) string
	assign  func(*domain.PatentMetadata, string)
}

// MetadataExtractor parses recognized page text into a PatentMetadata
// record using an ordered list of pattern rules.
type MetadataExtractor struct {
	rules []fieldRule
}

// NewMetadataExtractor builds the extractor with the gazette rule set.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{
		rules: []fieldRule{
			{
				name:    "title",
				pattern: titlePattern,
				group:   1,
				clean:   cleanTitle,
				assign:  func(m *domain.PatentMetadata, v string) { m.Title = v },
			},
			{
				name:    "number",
				pattern: numberPattern,
				group:   0,
				clean:   keepVerbatim,
				assign:  func(m *domain.PatentMetadata, v string) { m.Number = v },
			},
			{
				name:    "date",
				pattern: datePattern,
				group:   1,
				clean:   keepVerbatim,
				assign:  func(m *domain.PatentMetadata, v string) { m.Date = v },
			},
			{
				name:    "inventors",
				pattern: inventorsPattern,
				group:   1,
				clean:   cleanSpan,
				assign:  func(m *domain.PatentMetadata, v string) { m.Inventors = v },
			},
			{
				name:    "abstract",
				pattern: abstractPattern,
				group:   1,
				clean:   cleanSpan,
				assign:  func(m *domain.PatentMetadata, v string) { m.Abstract = v },
			},
		},
	}
}

// Extract runs every rule against the page text. Rules never block one
// another: a field whose pattern is absent stays at its fallback while
// the rest extract normally. Extraction is pure and idempotent.
func (e *MetadataExtractor) Extract(text string) domain.PatentMetadata {
	meta := domain.NewPatentMetadata()
	for _, rule := range e.rules {
		match := rule.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		rule.assign(&meta, rule.clean(match[rule.group]))
	}
	return meta
}

// cleanSpan strips surrounding whitespace and collapses embedded
// newlines into single spaces.
func cleanSpan(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
}

// cleanTitle additionally sheds a leading ")" that OCR sometimes leaks
// out of the (54) marker into the captured span.
func cleanTitle(s string) string {
	return strings.TrimSpace(strings.TrimLeft(cleanSpan(s), ")"))
}

func keepVerbatim(s string) string {
	return s
}
