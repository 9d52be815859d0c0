package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sitescout/sitescout/internal/knowledge"
	"github.com/sitescout/sitescout/internal/server"
	"github.com/sitescout/sitescout/internal/storage"
)

var (
	serveDataDir string
	serveAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crawl results over HTTP",
	Long: `Serve the stored crawl result, link map, and knowledge base over HTTP.
Requests from known AI crawlers are flagged and receive markdown content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.New(serveDataDir)
		if err != nil {
			return fmt.Errorf("failed to open data dir: %w", err)
		}
		defer store.Close()

		result, err := store.LoadCrawlResult()
		if err != nil {
			return fmt.Errorf("no crawl found in %s: %w", serveDataDir, err)
		}
		lm, err := store.LoadLinkMap()
		if err != nil {
			return fmt.Errorf("no link map found in %s: %w", serveDataDir, err)
		}
		var base knowledge.Base
		if err := store.LoadKnowledgeBase(&base); err != nil {
			return fmt.Errorf("no knowledge base found in %s: %w", serveDataDir, err)
		}

		logger := newLogger()
		srv := server.New(result, lm, &base, logger)

		logger.Info("serving crawl results", "addr", serveAddr, "site", result.URL)
		return http.ListenAndServe(serveAddr, srv)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "./data", "Data storage directory")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
}
