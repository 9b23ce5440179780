// Package assembler drives the parser over a list of files and collects the
// resulting document tree.
package assembler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Zachacious/go-docket/internal/model"
	"github.com/Zachacious/go-docket/internal/parser"
	"github.com/Zachacious/go-docket/internal/source"
)

// FileError reports a file that contributed nothing to the tree.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Report summarises a run.
type Report struct {
	// Files is the number of files attempted.
	Files int
	// Parsed is the number of files that contributed to the tree.
	Parsed int
	// Failures lists the files that were abandoned, in order.
	Failures []*FileError
	// Diagnostics are the malformed tags of the parsed files.
	Diagnostics []*parser.TagError
}

// Assembler holds the state of one parse run. Files must be fed in order
// from a single goroutine: attachment depends on what earlier files opened.
type Assembler struct {
	src    source.Collaborator
	log    zerolog.Logger
	doc    *model.Document
	ctx    parser.Context
	report Report
}

// New returns an assembler reading comments through src.
func New(src source.Collaborator, log zerolog.Logger) *Assembler {
	return &Assembler{
		src: src,
		log: log,
		doc: &model.Document{},
	}
}

// ParseFiles parses every file once, in order. A failing file is rolled
// back and recorded in the report; the run always continues.
func (a *Assembler) ParseFiles(ctx context.Context, files []source.File) (*model.Document, *Report) {
	for _, f := range files {
		_ = a.ParseFile(ctx, f)
	}
	a.log.Info().
		Int("files", a.report.Files).
		Int("parsed", a.report.Parsed).
		Int("failed", len(a.report.Failures)).
		Int("warnings", len(a.report.Diagnostics)).
		Msg("parse complete")
	return a.doc, &a.report
}

// ParseFile parses one file into the tree. On error the tree and the parse
// context are exactly as they were before the call.
func (a *Assembler) ParseFile(ctx context.Context, f source.File) error {
	a.report.Files++

	comments, err := a.src.Comments(ctx, f.Path, f.Content)
	if err != nil {
		return a.fail(f.Path, err)
	}

	mark := a.doc.Mark()
	pctx := a.ctx.ForFile(f.Path)
	var diags []*parser.TagError
	for _, c := range comments {
		next, d, err := parser.ParseComment(pctx, a.doc, c.Text, c.Line)
		diags = append(diags, d...)
		if err != nil {
			a.doc.Restore(mark)
			return a.fail(f.Path, err)
		}
		if next.Current != nil && next.Current != pctx.Current {
			a.log.Debug().Str("file", f.Path).Stringer("kind", next.Current.Kind()).Str("title", next.Current.Title()).Msg("documented")
		}
		pctx = next
	}
	a.ctx = pctx

	for _, d := range diags {
		a.log.Warn().Str("file", d.File).Int("line", d.Line).Str("tag", d.Tag).Err(d.Err).Msg("malformed tag")
	}
	a.report.Diagnostics = append(a.report.Diagnostics, diags...)
	a.report.Parsed++
	a.log.Debug().Str("file", f.Path).Int("comments", len(comments)).Int("entities", pctx.Count).Msg("parsed file")
	return nil
}

// Document returns the tree built so far.
func (a *Assembler) Document() *model.Document { return a.doc }

// Report returns the run summary so far.
func (a *Assembler) Report() *Report { return &a.report }

func (a *Assembler) fail(file string, err error) error {
	fe := &FileError{File: file, Err: err}
	a.report.Failures = append(a.report.Failures, fe)
	a.log.Error().Str("file", file).Err(err).Msg("failed to parse file")
	return fe
}
