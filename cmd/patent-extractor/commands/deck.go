package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patentdeck/patent-extractor/cmd/patent-extractor/ui"
	"github.com/patentdeck/patent-extractor/internal/deck"
)

var deckOut string

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Extract a patent PDF and build a presentation deck from it",
	Long: `Deck runs the full extraction pipeline and then renders the results into a
slide deck PDF: one dark 16:9 slide per page, showing the page image next
to the extracted title, patent number, grant date, inventors and abstract.`,
	RunE: runDeck,
}

func init() {
	addRunFlags(deckCmd)
	deckCmd.Flags().StringVar(&deckOut, "deck-out", "patent-deck.pdf", "output path for the slide deck")
	rootCmd.AddCommand(deckCmd)
}

func runDeck(cmd *cobra.Command, args []string) error {
	defer ui.Close()

	result, cfg, err := runExtraction(cmd, "Patent Deck")
	if err != nil {
		return err
	}

	outPath := cfg.Deck.Output
	if cmd.Flags().Changed("deck-out") || outPath == "" {
		outPath = deckOut
	}

	if len(result.Results) == 0 {
		ui.Warning("No pages extracted, deck not written")
		return nil
	}

	var spin *ui.Spinner
	if !runNoProgress {
		spin = ui.NewSpinner("Building slide deck...")
		spin.Start()
	}

	builder := deck.NewBuilder(newLogger(cfg))
	err = builder.Build(result.Results, outPath)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return fmt.Errorf("deck build failed: %w", err)
	}

	ui.Success("Deck written to: %s", outPath)
	return nil
}
