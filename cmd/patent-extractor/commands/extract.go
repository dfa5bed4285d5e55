package commands

import (
	"github.com/spf13/cobra"

	"github.com/patentdeck/patent-extractor/cmd/patent-extractor/ui"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract page images, text and metadata from a patent PDF",
	Long: `Extract renders every page of a patent PDF at high resolution, splits each
page into its two text columns, recognizes the text of both columns, and
extracts the patent metadata (title, number, grant date, inventors,
abstract) from each page.`,
	RunE: runExtract,
}

func init() {
	addRunFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	defer ui.Close()

	_, _, err := runExtraction(cmd, "Patent Extraction")
	return err
}
