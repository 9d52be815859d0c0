package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitescout/sitescout/internal/types"
)

// resetCrawlFlags restores crawl flag values and their changed state so
// tests do not leak flag state into each other.
func resetCrawlFlags(t *testing.T) {
	t.Helper()
	crawlCmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

func TestRootHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	assert.NoError(t, rootCmd.Execute())
}

func TestBuildConfigRequiresSeed(t *testing.T) {
	configPath = ""
	seedURL = ""

	_, err := buildConfig(&cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed URL is required")
}

func TestBuildConfigFromFlags(t *testing.T) {
	resetCrawlFlags(t)
	configPath = ""
	require.NoError(t, crawlCmd.ParseFlags([]string{
		"--seed-url", "https://example.com/",
		"--max-pages", "10",
	}))

	cfg, err := buildConfig(crawlCmd)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", cfg.SeedURL)
	assert.Equal(t, 10, cfg.MaxPages)
	assert.Equal(t, types.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
}

func TestBuildConfigFlagOverridesFile(t *testing.T) {
	resetCrawlFlags(t)
	path := filepath.Join(t.TempDir(), "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed_url: https://from-file.com/
max_pages: 5
timeout: 45s
`), 0644))

	require.NoError(t, crawlCmd.ParseFlags([]string{
		"--config", path,
		"--max-pages", "99",
	}))

	cfg, err := buildConfig(crawlCmd)
	require.NoError(t, err)
	// File supplies the seed and timeout; the explicit flag wins on pages.
	assert.Equal(t, "https://from-file.com/", cfg.SeedURL)
	assert.Equal(t, 99, cfg.MaxPages)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestBuildConfigFileDepthZero(t *testing.T) {
	resetCrawlFlags(t)
	path := filepath.Join(t.TempDir(), "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed_url: https://from-file.com/
max_depth: 0
`), 0644))

	require.NoError(t, crawlCmd.ParseFlags([]string{"--config", path}))

	// An explicit depth 0 in the file is a seed-only crawl; the flag
	// default must not overwrite it.
	cfg, err := buildConfig(crawlCmd)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)
}
