package pubgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch rebuilds the site whenever a page, fragment, markdown source or
// static file changes, until ctx is canceled. Changes are debounced and
// every rebuild is a full build. A failed rebuild is logged and watching
// continues.
func (s *Site) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pubgen: fsnotify: %w", err)
	}
	defer watcher.Close()

	ignored := s.ignoredPaths()
	for _, dir := range s.watchRoots() {
		if err := s.addDirsRecursive(watcher, dir, ignored); err != nil {
			return err
		}
	}
	s.logger.Info("Watching for changes", "dirs", s.watchRoots())

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name, ignored) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = s.addDirsRecursive(watcher, ev.Name, ignored)
				}
			}
			s.logger.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			debounce = time.After(s.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", "error", err)
		case <-debounce:
			debounce = nil
			if _, err := s.Build(ctx); err != nil {
				s.logger.Error("Rebuild failed", "error", err)
			}
		}
	}
}

func (s *Site) watchRoots() []string {
	var roots []string
	for _, dir := range []string{s.Config.PagesDir, s.Config.ComponentsDir, s.Config.ContentRoot, s.Config.StaticDir} {
		if dir == "" {
			continue
		}
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

// ignoredPaths are the build's own outputs, which often live below the
// content root.
func (s *Site) ignoredPaths() []string {
	var paths []string
	for _, p := range []string{s.Config.OutputDir, s.Config.ManifestPath} {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			paths = append(paths, abs)
		}
	}
	return paths
}

func (s *Site) addDirsRecursive(w *fsnotify.Watcher, root string, ignored []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if isIgnoredPath(path, ignored) || (path != root && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			s.logger.Warn("Watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func isIgnoredPath(path string, ignored []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range ignored {
		if abs == p || strings.HasPrefix(abs, p+string(filepath.Separator)) || strings.HasPrefix(abs, p+"-") {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string, ignored []string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if base == "Thumbs.db" {
		return true
	}
	return isIgnoredPath(path, ignored)
}
