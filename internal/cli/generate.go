package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitescout/sitescout/internal/generator"
	"github.com/sitescout/sitescout/internal/knowledge"
	"github.com/sitescout/sitescout/internal/storage"
)

var (
	generateDataDir string
	generateOutDir  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a markdown site summary",
	Long: `Render the stored knowledge base as a markdown document with YAML
front matter, suitable for publishing or feeding to downstream tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.New(generateDataDir)
		if err != nil {
			return fmt.Errorf("failed to open data dir: %w", err)
		}
		defer store.Close()

		var base knowledge.Base
		if err := store.LoadKnowledgeBase(&base); err != nil {
			return fmt.Errorf("no knowledge base found in %s: %w", generateDataDir, err)
		}

		path, err := generator.WriteSummary(&base, generateOutDir)
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateDataDir, "data-dir", "./data", "Data storage directory")
	generateCmd.Flags().StringVar(&generateOutDir, "out-dir", ".", "Directory to write the markdown summary into")
}
