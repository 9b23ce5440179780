package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// skipDirs are never descended into when walking a directory.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"testdata":     true,
}

// SkipDir reports whether a directory named name is left out of walks:
// dependency trees, test fixtures and hidden directories.
func SkipDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// Discover expands the command-line inputs into an ordered, de-duplicated
// list of files. Each input is a file, a directory (walked in lexical order
// for supported extensions), or otherwise a Go package pattern such as
// "./..." resolved with go/packages. Paths matching any exclude glob, by
// base name or full path, are dropped.
func Discover(ctx context.Context, inputs []string, reg *Registry, exclude []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if seen[p] || Excluded(p, exclude) {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		switch {
		case err == nil && !info.IsDir():
			add(in)
		case err == nil:
			files, err := walkDir(in, reg, exclude)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		case errors.Is(err, fs.ErrNotExist) || isPackagePattern(in):
			files, err := loadPackages(ctx, in)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		default:
			return nil, err
		}
	}
	return out, nil
}

func walkDir(root string, reg *Registry, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (SkipDir(name) || Excluded(path, exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if reg.Supports(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

func isPackagePattern(s string) bool {
	return strings.HasSuffix(s, "...")
}

func loadPackages(ctx context.Context, pattern string) ([]string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	var files []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			return nil, fmt.Errorf("package %s: %s", pkg.PkgPath, e.Msg)
		}
		files = append(files, pkg.GoFiles...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no files or packages matched", pattern)
	}
	return files, nil
}

// Excluded reports whether path matches any of the glob patterns, by base
// name or by full slash-separated path.
func Excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.ToSlash(path)); ok {
			return true
		}
	}
	return false
}
