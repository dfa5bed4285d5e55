package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/patentdeck/patent-extractor/cmd/patent-extractor/ui"
	"github.com/patentdeck/patent-extractor/internal/catalog"
	"github.com/patentdeck/patent-extractor/internal/config"
	"github.com/patentdeck/patent-extractor/internal/observability"
	"github.com/patentdeck/patent-extractor/pkg/extractor"
)

// Flags shared by the extract and deck commands.
var (
	runPDFPath     string
	runDir         string
	runOutDir      string
	runDPI         int
	runLangs       []string
	runSummaryJSON string
	runCatalog     bool
	runNoProgress  bool
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runPDFPath, "pdf", "p", "", "path to the patent PDF (prompts for a choice when omitted)")
	cmd.Flags().StringVar(&runDir, "dir", ".", "directory searched for PDFs when --pdf is omitted")
	cmd.Flags().StringVarP(&runOutDir, "out", "o", "images", "output directory for page artifacts")
	cmd.Flags().IntVar(&runDPI, "dpi", 600, "render resolution in DPI")
	cmd.Flags().StringSliceVar(&runLangs, "langs", []string{"eng"}, "OCR languages")
	cmd.Flags().StringVar(&runSummaryJSON, "summary-json", "", "write the run summary as JSON to this path")
	cmd.Flags().BoolVar(&runCatalog, "catalog", false, "record the run in the local catalog")
	cmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "disable spinner and progress bar")
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist
	return config.Load(cfgFile)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Pipeline.OutputDir = runOutDir
	}
	if flags.Changed("dpi") {
		cfg.Pipeline.RenderDPI = runDPI
	}
	if flags.Changed("langs") {
		cfg.OCR.Languages = runLangs
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}
}

func newLogger(cfg *config.Config) *observability.Logger {
	return observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "patent-extractor",
	})
}

// resolvePDFPath returns the --pdf flag value, or prompts for a choice among
// the PDFs in --dir when the flag is omitted and stdin is a terminal.
func resolvePDFPath() (string, error) {
	if runPDFPath != "" {
		return runPDFPath, nil
	}

	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return "", errors.New("PDF file path is required (use --pdf flag)")
	}

	matches, err := filepath.Glob(filepath.Join(runDir, "*.pdf"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no PDF files found in %s (use --pdf flag)", runDir)
	}
	sort.Strings(matches)

	idx, err := ui.PromptChoice("Select a PDF to process", matches)
	if err != nil {
		return "", err
	}
	return matches[idx], nil
}

// runExtraction is the shared core of the extract and deck commands: it
// resolves the input, runs the pipeline while streaming progress, prints the
// summary, and handles the optional summary JSON and catalog recording.
func runExtraction(cmd *cobra.Command, title string) (*extractor.RunResult, *config.Config, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, cfg)

	ui.Section(title)

	pdfPath, err := resolvePDFPath()
	if err != nil {
		return nil, nil, err
	}

	ui.Info("PDF file: %s", pdfPath)
	ui.Info("Output directory: %s", cfg.Pipeline.OutputDir)
	ui.Verbose("Render DPI: %d", cfg.Pipeline.RenderDPI)
	ui.Verbose("OCR languages: %s", strings.Join(cfg.OCR.Languages, ", "))
	ui.Newline()

	client, err := extractor.NewClientWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer client.Close()

	result, err := streamRun(ctx, client, pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("extraction failed: %w", err)
	}

	ui.Success("Extraction completed successfully!")
	ui.Newline()
	ui.Section("Run Summary")
	summaryTable(result)

	if runSummaryJSON != "" {
		if err := writeSummaryJSON(runSummaryJSON, result); err != nil {
			return nil, nil, err
		}
		ui.Info("Summary JSON written to: %s", runSummaryJSON)
	}

	if runCatalog || cfg.Catalog.Enabled {
		recordRun(ctx, cfg, result)
	}

	return result, cfg, nil
}

// streamRun consumes the event stream, driving the spinner during the render
// phase and the progress bar across pages.
func streamRun(ctx context.Context, client *extractor.Client, pdfPath string) (*extractor.RunResult, error) {
	eventCh, err := client.Process(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	var spin *ui.Spinner
	if !runNoProgress {
		spin = ui.NewSpinner("Rendering PDF pages...")
		spin.Start()
	}

	var bar *ui.PageBar
	var result *extractor.RunResult
	var runErr string

	for event := range eventCh {
		switch event.Type {
		case extractor.EventStart:
			if spin != nil {
				spin.Stop()
				spin = nil
			}
			if payload, ok := event.Payload.(extractor.StartPayload); ok && !runNoProgress {
				bar = ui.NewPageBar(payload.TotalPages, "Processing pages")
			}

		case extractor.EventPageComplete:
			if payload, ok := event.Payload.(extractor.PagePayload); ok && bar != nil {
				bar.Set(payload.Processed)
			}

		case extractor.EventError:
			if msg, ok := event.Payload.(string); ok {
				runErr = msg
			}

		case extractor.EventComplete:
			if payload, ok := event.Payload.(extractor.CompletePayload); ok {
				result = payload.Result
			}
		}
	}

	if spin != nil {
		spin.Stop()
	}
	if bar != nil {
		bar.Finish()
	}

	if result == nil {
		if runErr == "" {
			runErr = "run produced no result"
		}
		return nil, errors.New(runErr)
	}
	return result, nil
}

func summaryTable(result *extractor.RunResult) {
	rows := [][]string{
		{"Run ID", result.RunID},
		{"Source", result.SourcePath},
		{"Pages", fmt.Sprintf("%d", result.Stats.ProcessedPages)},
		{"Duration", ui.FormatDuration(result.Stats.Duration)},
		{"Output Dir", result.OutputDir},
	}
	if len(result.Results) > 0 {
		first := result.Results[0].Metadata
		rows = append(rows,
			[]string{"Title", first.Title},
			[]string{"Patent #", first.Number},
			[]string{"Date", first.Date},
			[]string{"Inventors", first.Inventors},
		)
	}
	ui.Table([]string{"Field", "Value"}, rows)
}

func writeSummaryJSON(path string, result *extractor.RunResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}

// recordRun saves the run in the catalog. Catalog problems are reported but
// never fail a finished run.
func recordRun(ctx context.Context, cfg *config.Config, result *extractor.RunResult) {
	path := cfg.Catalog.Path
	if path == "" {
		path = "patents.db"
	}

	cat, err := catalog.Open(path)
	if err != nil {
		ui.Warning("Catalog unavailable: %v", err)
		return
	}
	defer cat.Close()

	if err := cat.SaveRun(ctx, result); err != nil {
		ui.Warning("Failed to record run in catalog: %v", err)
		return
	}
	ui.Info("Run recorded in catalog: %s", path)
}
