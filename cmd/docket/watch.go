package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Zachacious/go-docket/internal/config"
	"github.com/Zachacious/go-docket/internal/source"
)

// settle is how long the watcher waits for a burst of events to end.
const settle = 250 * time.Millisecond

// watch builds once, then rebuilds whenever a supported source file under
// the inputs changes. Rebuilds run on this goroutine, one at a time.
func watch(ctx context.Context, inputs []string, cfg *config.Config, log zerolog.Logger) error {
	reg, err := source.NewRegistry(cfg.Extensions, cfg.MergeLineComments)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	output, _ := filepath.Abs(cfg.Output)
	for _, in := range inputs {
		if err := addWatches(watcher, strings.TrimSuffix(in, "..."), output); err != nil {
			return err
		}
	}

	rebuild := func() {
		if _, err := build(ctx, inputs, cfg, log); err != nil {
			log.Error().Err(err).Msg("build failed")
		}
	}
	rebuild()
	log.Info().Strs("inputs", inputs).Msg("watching for changes")

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addWatches(watcher, event.Name, output); err != nil {
						log.Warn().Err(err).Str("dir", event.Name).Msg("cannot watch new directory")
					}
					continue
				}
			}
			if !triggersRebuild(event, reg, cfg.Exclude) {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("source changed")
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			rebuild()
		}
	}
}

// addWatches watches root, or the directory of root when it is a file, and
// every directory below it except skipped and output directories.
func addWatches(w *fsnotify.Watcher, root, output string) error {
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root && source.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if abs, _ := filepath.Abs(path); abs == output {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// triggersRebuild reports whether event touches a source file that a build
// would read.
func triggersRebuild(event fsnotify.Event, reg *source.Registry, exclude []string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return reg.Supports(event.Name) && !source.Excluded(event.Name, exclude)
}
