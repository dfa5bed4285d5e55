// Package ui provides terminal output components for the patent-extractor CLI.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// PageBar shows deterministic progress across the pages of a run.
type PageBar struct {
	bar *progressbar.ProgressBar
}

// NewPageBar creates a progress bar sized to the page count of the document.
func NewPageBar(totalPages int, description string) *PageBar {
	bar := progressbar.NewOptions64(
		int64(totalPages),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &PageBar{bar: bar}
}

// Set moves the bar to the given number of processed pages.
func (p *PageBar) Set(processedPages int) {
	_ = p.bar.Set64(int64(processedPages))
}

// Finish completes the bar and moves to the next line.
func (p *PageBar) Finish() {
	_ = p.bar.Finish()
}

// Spinner shows indeterminate progress for phases without a page count,
// like the initial rasterization pass.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = os.Stderr
	return &Spinner{spinner: s}
}

// Start starts the spinner animation.
func (s *Spinner) Start() {
	s.spinner.Start()
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.spinner.Stop()
}
