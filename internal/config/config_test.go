package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachacious/go-docket/internal/source"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, cfg.Format)
	assert.Equal(t, "docs", cfg.Output)
	assert.True(t, cfg.MergeLineComments)
	assert.GreaterOrEqual(t, cfg.Concurrency, 1)
	assert.Equal(t, source.LangJavaScript, cfg.Extensions[".js"])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
title: Shapes
format: markdown
output: site
concurrency: 0
mergeLineComments: false
exclude: ["vendor/*"]
extensions:
  ES6: javascript
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Shapes", cfg.Title)
	assert.Equal(t, FormatMarkdown, cfg.Format)
	assert.Equal(t, "site", cfg.Output)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.False(t, cfg.MergeLineComments)
	assert.True(t, cfg.Assets)
	assert.Equal(t, []string{"vendor/*"}, cfg.Exclude)
	assert.Equal(t, source.LangJavaScript, cfg.Extensions[".es6"])
	assert.Equal(t, source.LangGo, cfg.Extensions[".go"])
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "format: [",
		"bad format":   "format: pdf",
		"bad language": "extensions:\n  .rb: ruby\n",
		"empty output": "output: \"\"",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
