// Package render turns finished entities into output documents.
package render

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Zachacious/go-docket/internal/model"
)

// Unit is one output document: a module with everything under it, a
// top-level class with its signatures, or a top-level signature.
type Unit struct {
	// Name is the file stem, e.g. "Module_Shapes".
	Name   string
	Entity model.Entity
}

// unsafeStem matches everything that may not appear in a file stem.
var unsafeStem = regexp.MustCompile(`[^A-Za-z0-9_$.-]+`)

// Units lists the output units of doc in tree order: modules, then
// top-level classes, then top-level signatures.
//
// Names are safe file stems: characters other than letters, digits and
// "_$.-" become '_'. Stems are unique ignoring case; a later unit that
// would reuse one (overloaded signatures, classes of the same name in
// different files) gets a _2, _3, ... suffix.
func Units(doc *model.Document) []Unit {
	units := make([]Unit, 0, len(doc.Modules)+len(doc.Classes)+len(doc.Signatures))
	seen := make(map[string]bool, cap(units))
	add := func(prefix, name string, e model.Entity) {
		stem := prefix + unsafeStem.ReplaceAllString(name, "_")
		unique := stem
		for n := 2; seen[strings.ToLower(unique)]; n++ {
			unique = fmt.Sprintf("%s_%d", stem, n)
		}
		seen[strings.ToLower(unique)] = true
		units = append(units, Unit{Name: unique, Entity: e})
	}
	for _, m := range doc.Modules {
		add("Module_", m.Name, m)
	}
	for _, c := range doc.Classes {
		add("Class_", c.Name, c)
	}
	for _, s := range doc.Signatures {
		add("Signature_", s.Name, s)
	}
	return units
}

// Renderer renders one unit. Implementations must only read the entity.
type Renderer interface {
	Render(u Unit) ([]byte, error)
}

// Result is the outcome of rendering one unit.
type Result struct {
	Unit   Unit
	Output []byte
	Err    error
}

// RenderAll renders units concurrently, at most limit at a time (limit < 1
// means no limit). Results are returned in the order of units regardless of
// completion order, and a failing unit does not stop the others.
func RenderAll(ctx context.Context, r Renderer, units []Unit, limit int) []Result {
	results := make([]Result, len(units))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, u := range units {
		g.Go(func() error {
			results[i].Unit = u
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			out, err := r.Render(u)
			if err != nil {
				results[i].Err = fmt.Errorf("render %s: %w", u.Name, err)
				return nil
			}
			results[i].Output = out
			return nil
		})
	}
	_ = g.Wait()
	return results
}
