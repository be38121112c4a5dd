package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.avalai.ir/v1", cfg.BaseURL)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.CheckTimeout)
	assert.Equal(t, 1, cfg.CaseDelay)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Tree.Exclude)
	assert.Equal(t, "tree_output.jpg", cfg.Tree.Output)
	// 默认没有任何密钥
	assert.Error(t, cfg.RequireAPIKey())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devtools.yaml")
	content := []byte(`
api_key: file-key
model: gpt-4o-mini
request_timeout: 5
tree:
  exclude:
    - vendor
  output: out.jpg
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 5, cfg.RequestTimeout)
	assert.Equal(t, []string{"vendor"}, cfg.Tree.Exclude)
	assert.Equal(t, "out.jpg", cfg.Tree.Output)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("AVALAI_API_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
