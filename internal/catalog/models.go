package catalog

import "time"

// RunRecord is a catalog row describing one completed extraction run.
type RunRecord struct {
	ID        string
	Source    string
	OutputDir string
	Pages     int
	Duration  time.Duration
	CreatedAt time.Time
}

// PageRecord is a catalog row holding the metadata extracted from one page.
type PageRecord struct {
	RunID     string
	Page      int
	ImagePath string
	Title     string
	Number    string
	Date      string
	Inventors string
	Abstract  string
}
