package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitescout/sitescout/internal/export"
	"github.com/sitescout/sitescout/internal/storage"
)

var (
	exportDataDir     string
	exportFormat      string
	outputFile        string
	includeLastmod    bool
	includeChangefreq bool
	defaultPriority   float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export crawl results",
	Long:  `Export the pages of the most recent crawl as JSON, CSV, or an XML sitemap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.New(exportDataDir)
		if err != nil {
			return fmt.Errorf("failed to open data dir: %w", err)
		}
		defer store.Close()

		result, err := store.LoadCrawlResult()
		if err != nil {
			return fmt.Errorf("no crawl found in %s: %w", exportDataDir, err)
		}

		switch exportFormat {
		case "json":
			if err := export.ExportJSON(result.Pages, outputFile); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Exported %d pages to %s\n", len(result.Pages), outputFile)
		case "csv":
			if err := export.ExportCSV(result.Pages, outputFile); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Exported %d pages to %s\n", len(result.Pages), outputFile)
		case "sitemap":
			count, err := export.ExportSitemap(result, export.SitemapConfig{
				OutputFile:        outputFile,
				IncludeLastmod:    includeLastmod,
				IncludeChangefreq: includeChangefreq,
				DefaultPriority:   defaultPriority,
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Printf("Exported %d URLs to %s\n", count, outputFile)
		default:
			return fmt.Errorf("unknown format %q (want json, csv, or sitemap)", exportFormat)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataDir, "data-dir", "./data", "Data storage directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json, csv, or sitemap")
	exportCmd.Flags().StringVar(&outputFile, "output", "pages.json", "Output file path")
	exportCmd.Flags().BoolVar(&includeLastmod, "include-lastmod", true, "Include lastmod in sitemap")
	exportCmd.Flags().BoolVar(&includeChangefreq, "include-changefreq", true, "Include changefreq in sitemap")
	exportCmd.Flags().Float64Var(&defaultPriority, "default-priority", 0.5, "Default priority value in sitemap")
}
