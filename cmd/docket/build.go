package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Zachacious/go-docket/internal/assembler"
	"github.com/Zachacious/go-docket/internal/config"
	"github.com/Zachacious/go-docket/internal/site"
	"github.com/Zachacious/go-docket/internal/source"
)

// result is the outcome of one documentation build.
type result struct {
	Report *assembler.Report
	Site   *site.Summary
}

func (r *result) ok() bool {
	return len(r.Report.Failures) == 0 && (r.Site == nil || len(r.Site.Failed) == 0)
}

// build runs discovery, parsing and output once. Failing files and units are
// logged and reported in the result; only configuration, discovery and
// write errors are returned.
func build(ctx context.Context, inputs []string, cfg *config.Config, log zerolog.Logger) (*result, error) {
	reg, err := source.NewRegistry(cfg.Extensions, cfg.MergeLineComments)
	if err != nil {
		return nil, fmt.Errorf("failed to set up source languages: %w", err)
	}

	paths, err := source.Discover(ctx, inputs, reg, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to discover sources: %w", err)
	}
	if len(paths) == 0 {
		log.Warn().Strs("inputs", inputs).Strs("extensions", reg.Extensions()).Msg("no source files found")
	}

	files, err := source.ReadFiles(paths)
	if err != nil {
		return nil, err
	}

	doc, report := assembler.New(reg, log).ParseFiles(ctx, files)

	w := &site.Writer{
		Dir:         cfg.Output,
		Format:      cfg.Format,
		Title:       cfg.Title,
		Concurrency: cfg.Concurrency,
		Assets:      cfg.Assets,
		Index:       cfg.Index,
		Log:         log,
	}
	sum, err := w.Write(ctx, doc)
	if err != nil && !errors.Is(err, site.ErrUnitsFailed) {
		return nil, err
	}
	return &result{Report: report, Site: sum}, nil
}
