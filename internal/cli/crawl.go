package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/sitescout/sitescout/internal/config"
	"github.com/sitescout/sitescout/internal/crawler"
	"github.com/sitescout/sitescout/internal/knowledge"
	"github.com/sitescout/sitescout/internal/linkgraph"
	"github.com/sitescout/sitescout/internal/storage"
	"github.com/sitescout/sitescout/internal/types"
)

var (
	configPath      string
	seedURL         string
	maxPages        int
	maxDepth        int
	timeout         time.Duration
	dataDir         string
	userAgent       string
	includePatterns []string
	excludePatterns []string
	enableSQLite    bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a site and build its knowledge base",
	Long: `Crawl a single site breadth-first from the seed URL, then derive the
link graph and knowledge base and persist everything under the data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}

		logger := newLogger()
		engine, err := crawler.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create crawler: %w", err)
		}

		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open data dir: %w", err)
		}
		defer store.Close()
		engine.SetSink(store)

		var spin *spinner.Spinner
		if !verbose {
			spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Suffix = fmt.Sprintf(" crawling %s", cfg.SeedURL)
			spin.Start()
		}

		outcome, err := engine.Crawl(context.Background())
		if spin != nil {
			spin.Stop()
		}
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		lm := linkgraph.Build(outcome.Result.Pages, outcome.PageLinks, outcome.Sitemaps)
		base := knowledge.Build(outcome.Result, lm)

		if err := store.SaveCrawlResult(outcome.Result); err != nil {
			return fmt.Errorf("failed to save crawl result: %w", err)
		}
		if err := store.SaveLinkMap(lm); err != nil {
			return fmt.Errorf("failed to save link map: %w", err)
		}
		if err := store.SaveKnowledgeBase(base); err != nil {
			return fmt.Errorf("failed to save knowledge base: %w", err)
		}

		if cfg.EnableSQLite {
			idx, err := storage.NewSQLiteIndex(filepath.Join(cfg.DataDir, "index.db"))
			if err != nil {
				return fmt.Errorf("failed to open sqlite index: %w", err)
			}
			defer idx.Close()
			if err := idx.IndexCrawl(outcome.Result, outcome.PageLinks); err != nil {
				return fmt.Errorf("failed to index crawl: %w", err)
			}
		}

		fmt.Fprintf(os.Stdout, "Crawl complete: %d pages, %d broken links, %d orphans (%s)\n",
			outcome.Result.TotalPages,
			len(lm.BrokenLinks),
			len(lm.OrphanPages),
			outcome.Result.Duration.Round(time.Millisecond))

		return nil
	},
}

// buildConfig merges the optional YAML config file with command-line
// flags. Any flag the user set explicitly wins over the file value.
func buildConfig(cmd *cobra.Command) (types.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return types.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed-url") || cfg.SeedURL == "" {
		cfg.SeedURL = seedURL
	}
	if flags.Changed("max-pages") || cfg.MaxPages == 0 {
		cfg.MaxPages = maxPages
	}
	// MaxDepth 0 is a legal file value (seed-only crawl); only a negative
	// value means the file left it unset.
	if flags.Changed("max-depth") || cfg.MaxDepth < 0 {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("timeout") || cfg.Timeout == 0 {
		cfg.Timeout = timeout
	}
	if flags.Changed("data-dir") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("user-agent") || cfg.UserAgent == "" {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("include") {
		cfg.IncludePatterns = includePatterns
	}
	if flags.Changed("exclude") {
		cfg.ExcludePatterns = excludePatterns
	}
	if flags.Changed("enable-sqlite") {
		cfg.EnableSQLite = enableSQLite
	}

	if cfg.SeedURL == "" {
		return types.Config{}, fmt.Errorf("seed URL is required (--seed-url or config file)")
	}
	return cfg, nil
}

func init() {
	crawlCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	crawlCmd.Flags().StringVar(&seedURL, "seed-url", "", "Seed URL to start crawling from")
	crawlCmd.Flags().IntVar(&maxPages, "max-pages", types.DefaultMaxPages, "Maximum number of pages to crawl")
	crawlCmd.Flags().IntVar(&maxDepth, "max-depth", types.DefaultMaxDepth, "Maximum link depth from the seed")
	crawlCmd.Flags().DurationVar(&timeout, "timeout", types.DefaultTimeout, "Per-request timeout")
	crawlCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data storage directory")
	crawlCmd.Flags().StringVar(&userAgent, "user-agent", types.DefaultUserAgent, "User-Agent header for requests")
	crawlCmd.Flags().StringSliceVar(&includePatterns, "include", nil, "Glob patterns URLs must match to be crawled")
	crawlCmd.Flags().StringSliceVar(&excludePatterns, "exclude", nil, "Glob patterns that exclude URLs from the crawl")
	crawlCmd.Flags().BoolVar(&enableSQLite, "enable-sqlite", false, "Also index the crawl into a queryable SQLite database")
}
