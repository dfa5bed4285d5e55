package commands

import (
	"github.com/spf13/cobra"

	"github.com/patentdeck/patent-extractor/cmd/patent-extractor/ui"
)

const version = "1.0.0"

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "patent-extractor",
	Short: "Patent gazette extraction toolkit",
	Long: `patent-extractor turns scanned patent gazette PDFs into per-page artifacts:
page images, column crops, recognized text and extracted patent metadata.
It can additionally build a presentation deck from the results and keep a
local history of completed runs.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.InitUI(noColor, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
