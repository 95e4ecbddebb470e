// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"gviegas/gp3d/driver"
)

// settle is how long a source must go unmodified before
// it is recompiled.
const settle = 100 * time.Millisecond

// watch recompiles sources under paths as they change,
// until ctx is done.
// Directories are watched along with their
// subdirectories; for file paths, the parent directory
// is watched.
func (c *compiler) watch(ctx context.Context, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// roots maps each path to whether it is a directory.
	roots := make(map[string]bool)
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			if err := w.Add(filepath.Dir(p)); err != nil {
				return err
			}
			roots[filepath.Clean(p)] = false
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			return w.Add(path)
		})
		if err != nil {
			return err
		}
		roots[filepath.Clean(p)] = true
	}
	driver.Logger().Info("gpshaderc: watching", "paths", len(paths))

	dirty := make(map[string]time.Time)
	tick := time.NewTicker(settle)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != srcExt || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			dirty[ev.Name] = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			driver.Logger().Warn("gpshaderc: watcher", "err", err)
		case now := <-tick.C:
			var jobs []job
			for name, t := range dirty {
				if now.Sub(t) < settle {
					continue
				}
				delete(dirty, name)
				if j, ok := c.jobFor(name, roots); ok {
					jobs = append(jobs, j)
				}
			}
			if len(jobs) > 0 {
				c.compileAll(jobs)
			}
		}
	}
}

// jobFor returns the job of a changed source.
// Sources under a watched directory keep their path
// relative to it.
func (c *compiler) jobFor(name string, roots map[string]bool) (job, bool) {
	name = filepath.Clean(name)
	if dir, ok := roots[name]; ok && !dir {
		return c.job(name, filepath.Base(name)), true
	}
	for root, dir := range roots {
		if !dir {
			continue
		}
		rel, err := filepath.Rel(root, name)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return c.job(name, rel), true
	}
	return job{}, false
}
