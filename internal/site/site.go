// Package site writes a rendered document tree to an output directory.
package site

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/Zachacious/go-docket/internal/model"
	"github.com/Zachacious/go-docket/internal/render"
)

//go:embed assets/docket.css
var stylesheet []byte

const (
	// StylesheetName is the file the HTML pages link to.
	StylesheetName = "docket.css"
	// TreeName is the file written by the yaml format.
	TreeName = "docket.yaml"
	// IndexStem is the file stem of the index page.
	IndexStem = "index"
)

// Format names accepted by Writer.
const (
	FormatHTML     = string(render.FormatHTML)
	FormatMarkdown = string(render.FormatMarkdown)
	FormatYAML     = "yaml"
)

// ErrUnsafeName is returned for an output file name that would leave the
// output directory.
var ErrUnsafeName = errors.New("output name escapes the output directory")

// ErrUnitsFailed is returned when at least one unit could not be rendered.
// Every other unit is still written.
var ErrUnitsFailed = errors.New("some units failed to render")

// Writer lays out the generated documentation.
type Writer struct {
	Dir         string
	Format      string
	Title       string
	Concurrency int
	// Assets copies the stylesheet next to HTML pages.
	Assets bool
	// Index writes an index page linking every unit.
	Index bool
	Log   zerolog.Logger
}

// Summary describes what Write produced.
type Summary struct {
	// Written lists the paths of the files written, in unit order.
	Written []string
	// Failed lists the units that could not be rendered.
	Failed []render.Result
}

// Write renders doc and writes it below w.Dir.
func (w *Writer) Write(ctx context.Context, doc *model.Document) (*Summary, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if w.Format == FormatYAML {
		return w.writeTree(doc)
	}

	tmpl, err := render.New(render.Format(w.Format), w.Title)
	if err != nil {
		return nil, err
	}

	units := render.Units(doc)
	sum := &Summary{}
	for _, res := range render.RenderAll(ctx, tmpl, units, w.Concurrency) {
		if res.Err != nil {
			w.Log.Error().Err(res.Err).Str("unit", res.Unit.Name).Msg("render failed")
			sum.Failed = append(sum.Failed, res)
			continue
		}
		if err := w.write(sum, res.Unit.Name+tmpl.Format().Ext(), res.Output); err != nil {
			return sum, err
		}
	}

	if w.Index {
		out, err := tmpl.RenderIndex(units)
		if err != nil {
			return sum, fmt.Errorf("failed to render index: %w", err)
		}
		if err := w.write(sum, IndexStem+tmpl.Format().Ext(), out); err != nil {
			return sum, err
		}
	}
	if w.Assets && tmpl.Format() == render.FormatHTML {
		if err := w.write(sum, StylesheetName, stylesheet); err != nil {
			return sum, err
		}
	}

	w.Log.Info().Int("units", len(units)).Int("failed", len(sum.Failed)).Str("dir", w.Dir).Msg("documentation written")
	if len(sum.Failed) > 0 {
		return sum, ErrUnitsFailed
	}
	return sum, nil
}

func (w *Writer) writeTree(doc *model.Document) (*Summary, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document tree: %w", err)
	}
	sum := &Summary{}
	if err := w.write(sum, TreeName, data); err != nil {
		return sum, err
	}
	w.Log.Info().Str("file", sum.Written[0]).Msg("document tree written")
	return sum, nil
}

func (w *Writer) write(sum *Summary, name string, data []byte) error {
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return fmt.Errorf("%q: %w", name, ErrUnsafeName)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Log.Debug().Str("file", path).Int("bytes", len(data)).Msg("wrote file")
	sum.Written = append(sum.Written, path)
	return nil
}
