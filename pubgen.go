// Package pubgen builds a static blog from HTML page templates.
//
// Page templates are expanded by the directive package, written to the
// output directory one folder per post, and summarized in an Atom feed.
// Optional extras are an RSS feed, a sitemap, copied static assets and a
// SQLite manifest of the last build. A Site can also serve its output for
// preview and rebuild it when sources change.
package pubgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/eringen/pubgen/directive"
	"github.com/eringen/pubgen/markdown"
)

const defaultDebounce = 300 * time.Millisecond

// Site is a configured blog ready to be built.
type Site struct {
	Config SiteConfig

	sources  directive.Sources
	logger   *slog.Logger
	now      func() time.Time
	debounce time.Duration
}

// New creates a Site. Missing configuration values get their defaults;
// validation happens in Build.
func New(cfg SiteConfig, opts ...Option) *Site {
	cfg.setDefaults()

	s := &Site{
		Config: cfg,
		sources: directive.DirSources{
			ComponentsDir: cfg.ComponentsDir,
			ContentRoot:   cfg.ContentRoot,
			PagesDir:      cfg.PagesDir,
		},
		logger:   slog.Default(),
		now:      time.Now,
		debounce: defaultDebounce,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Build expands every page, writes the output tree and the feeds, and
// records the build in the manifest when one is configured. It stops at
// the first error; files written before the failure are left in place.
func (s *Site) Build(ctx context.Context) (*BuildResult, error) {
	start := s.now()
	if err := s.Config.validate(); err != nil {
		return nil, err
	}

	conv, err := markdown.New(s.Config.Markdown.Engine, markdown.Options{Compat: s.Config.Markdown.Compat})
	if err != nil {
		return nil, fmt.Errorf("pubgen: %w", err)
	}
	exp := directive.NewExpander(s.sources, conv,
		directive.WithBlogPath(s.Config.BlogPath),
		directive.WithLogger(s.logger),
	)

	names, err := s.sources.Posts()
	if err != nil {
		return nil, fmt.Errorf("pubgen: list pages: %w", err)
	}

	res := &BuildResult{OutputDir: s.Config.OutputDir}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if name == directive.IndexPage {
			continue
		}
		entry, err := s.buildPost(exp, name)
		if err != nil {
			return nil, fmt.Errorf("pubgen: build %s: %w", name, err)
		}
		res.Entries = append(res.Entries, entry)
		res.Pages++
	}

	built, err := s.buildIndex(exp)
	if err != nil {
		return nil, fmt.Errorf("pubgen: build %s: %w", directive.IndexPage, err)
	}
	if built {
		res.Pages++
	}

	SortEntries(res.Entries)
	updated := s.now().UTC()
	if err := s.writeFeeds(res.Entries, updated); err != nil {
		return nil, err
	}

	if s.Config.StaticDir != "" {
		n, err := s.copyAssets(ctx)
		if err != nil {
			return nil, fmt.Errorf("pubgen: copy assets: %w", err)
		}
		res.Assets = n
	}

	if s.Config.ManifestPath != "" {
		if err := s.recordManifest(res.Entries, updated); err != nil {
			return nil, fmt.Errorf("pubgen: record manifest: %w", err)
		}
	}

	res.Duration = s.now().Sub(start)
	s.logger.Info("Site built",
		"output", res.OutputDir,
		"pages", res.Pages,
		"entries", len(res.Entries),
		"assets", res.Assets,
		"duration", res.Duration,
	)
	return res, nil
}

func (s *Site) expandFile(exp *directive.Expander, name string) (*directive.Page, error) {
	data, err := os.ReadFile(filepath.Join(s.Config.PagesDir, name))
	if err != nil {
		return nil, err
	}
	return exp.Expand(name, string(data))
}

// buildPost extracts the entry before writing so a page without the
// required attributes produces no output.
func (s *Site) buildPost(exp *directive.Expander, name string) (BlogEntry, error) {
	page, err := s.expandFile(exp, name)
	if err != nil {
		return BlogEntry{}, err
	}
	entry, err := page.Entry(s.Config.BaseURL)
	if err != nil {
		return BlogEntry{}, err
	}
	out := filepath.Join(s.Config.OutputDir, page.Slug(), "index.html")
	if err := writeFile(out, []byte(page.HTML)); err != nil {
		return BlogEntry{}, err
	}
	s.logger.Debug("Built page", "page", name, "output", out)
	return entry, nil
}

func (s *Site) buildIndex(exp *directive.Expander) (bool, error) {
	page, err := s.expandFile(exp, directive.IndexPage)
	if errors.Is(err, fs.ErrNotExist) && !isDirectiveError(err) {
		s.logger.Warn("No index page, skipping", "pages_dir", s.Config.PagesDir)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	out := filepath.Join(s.Config.OutputDir, directive.IndexPage)
	if err := writeFile(out, []byte(page.HTML)); err != nil {
		return false, err
	}
	s.logger.Debug("Built index", "output", out)
	return true, nil
}

// isDirectiveError reports whether err came from expanding a page rather
// than reading it, e.g. a missing fragment inside an existing index.html.
func isDirectiveError(err error) bool {
	var derr *directive.Error
	return errors.As(err, &derr)
}

// writeFile replaces path atomically, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (s *Site) recordManifest(entries []BlogEntry, builtAt time.Time) error {
	store, err := NewStore(s.Config.ManifestPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.ReplaceEntries(entries, builtAt)
}
