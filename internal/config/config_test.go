package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitescout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
seed_url: https://acme.com/
max_pages: 25
max_depth: 2
timeout: 45s
data_dir: /tmp/scout
exclude_patterns:
  - "*admin*"
enable_sqlite: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com/", cfg.SeedURL)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/scout", cfg.DataDir)
	assert.Equal(t, []string{"*admin*"}, cfg.ExcludePatterns)
	assert.True(t, cfg.EnableSQLite)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.MaxPages)
	assert.Equal(t, -1, cfg.MaxDepth)
}

func TestLoadMaxDepthZero(t *testing.T) {
	// Depth 0 means "crawl the seed only" and must survive loading; only
	// an omitted key yields the unset marker.
	cfg, err := Load(writeConfig(t, "max_depth: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)

	cfg, err = Load(writeConfig(t, "max_pages: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.MaxDepth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "timeout: soon\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}
