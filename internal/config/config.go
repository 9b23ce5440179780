package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Zachacious/go-docket/internal/source"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".docket.yaml"

// Output formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Config controls a docket run.
type Config struct {
	// Title names the project in generated pages.
	Title string `yaml:"title"`
	// Output is the directory documentation is written to.
	Output string `yaml:"output"`
	// Format is one of html, markdown or yaml.
	Format string `yaml:"format"`
	// Concurrency bounds the number of units rendered at once.
	Concurrency int `yaml:"concurrency"`
	// MergeLineComments joins consecutive // comments into one block.
	MergeLineComments bool `yaml:"mergeLineComments"`
	// Assets copies the stylesheet next to HTML output.
	Assets bool `yaml:"assets"`
	// Index writes an index page linking every unit.
	Index bool `yaml:"index"`
	// Exclude lists glob patterns of files to skip.
	Exclude []string `yaml:"exclude"`
	// Extensions maps file extensions to source languages.
	Extensions map[string]string `yaml:"extensions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Title:             "API Documentation",
		Output:            "docs",
		Format:            FormatHTML,
		Concurrency:       runtime.NumCPU(),
		MergeLineComments: true,
		Assets:            true,
		Index:             true,
		Exclude:           []string{"*.min.js", "*_test.go"},
		Extensions:        source.DefaultExtensions(),
	}
}

// Load returns the defaults overlaid with projectPath/.docket.yaml when the
// file exists. Extensions listed in the file are added to the defaults.
func Load(projectPath string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(projectPath, FileName)
	data, err := os.ReadFile(configPath)
	if err == nil {
		defaults := cfg.Extensions
		cfg.Extensions = nil
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, unmarshalErr)
		}
		for ext, lang := range cfg.Extensions {
			defaults[normalizeExt(ext)] = lang
		}
		cfg.Extensions = defaults
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatHTML, FormatMarkdown, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want html, markdown or yaml)", c.Format)
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is empty")
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	for ext, lang := range c.Extensions {
		switch lang {
		case source.LangJavaScript, source.LangTypeScript, source.LangTSX, source.LangGo:
		default:
			return fmt.Errorf("extension %s: unknown language %q", ext, lang)
		}
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
