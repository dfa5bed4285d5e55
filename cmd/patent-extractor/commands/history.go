package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/patentdeck/patent-extractor/cmd/patent-extractor/ui"
	"github.com/patentdeck/patent-extractor/internal/catalog"
)

var (
	historyLimit int
	historyDB    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent extraction runs from the catalog",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of runs to list")
	historyCmd.Flags().StringVar(&historyDB, "db", "", "catalog database path (default from config)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	defer ui.Close()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := historyDB
	if path == "" {
		path = cfg.Catalog.Path
	}

	cat, err := catalog.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := cat.ListRuns(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(records) == 0 {
		ui.Info("No runs recorded yet")
		return nil
	}

	ui.Section("Recent Runs")
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			shortID(rec.ID),
			filepath.Base(rec.Source),
			fmt.Sprintf("%d", rec.Pages),
			ui.FormatDuration(rec.Duration),
			rec.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	ui.Table([]string{"Run", "Source", "Pages", "Duration", "Created"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
