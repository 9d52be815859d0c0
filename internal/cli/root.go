package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sitescout",
	Short: "Single-site crawler and knowledge base builder",
	Long: `SiteScout crawls one website breadth-first, builds a link graph and a
knowledge base from the crawled pages, and can serve or export the results.`,
}

func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger. Debug output is opt-in via --verbose.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sitescout",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}
