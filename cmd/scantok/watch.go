package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Tokenize every path once, then again each time it is written, until ctx
// is done.
func (a *app) watch(ctx context.Context, paths []string, handle func(string) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]string, len(paths))
	for _, path := range paths {
		// Watch the directory: editors often replace a file rather than
		// write it in place, which drops a watch on the file itself.
		dir := filepath.Dir(path)
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		watched[filepath.Clean(path)] = path
		if err := handle(path); err != nil {
			return err
		}
	}
	return a.watchLoop(ctx, w.Events, w.Errors, watched, handle)
}

func (a *app) watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, watched map[string]string, handle func(string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			name, ok := watched[filepath.Clean(ev.Name)]
			if !ok || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			a.log.Debug("input changed", "input", name, "op", ev.Op.String())
			if err := handle(name); err != nil {
				a.log.Warn("re-tokenizing failed", "input", name, "err", err)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching inputs: %w", err)
		}
	}
}
