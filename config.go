package pubgen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubgen/directive"
)

// SiteConfig holds all configuration for a pubgen site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Feed title (default "Blog")
	URL         string `yaml:"url"`         // Blog home page, also the feed id (default "http://localhost:3000/blog")
	BaseURL     string `yaml:"base_url"`    // Prefix of entry URLs (default URL + "/")
	Description string `yaml:"description"` // RSS channel description
	Author      string `yaml:"author"`      // Atom author name

	PagesDir      string `yaml:"pages_dir"`      // Page templates (default "pages")
	ComponentsDir string `yaml:"components_dir"` // !include fragments (default "components")
	ContentRoot   string `yaml:"content_root"`   // Base of !include_md paths (default ".")
	StaticDir     string `yaml:"static_dir"`     // Copied into the output when set
	OutputDir     string `yaml:"output_dir"`     // Build output (default "_site")
	BlogPath      string `yaml:"blog_path"`      // URL path the output is served under (default "/blog/")

	Markdown MarkdownConfig `yaml:"markdown"`
	Feed     FeedConfig     `yaml:"feed"`
	Sitemap  bool           `yaml:"sitemap"`

	MaxImageWidth int    `yaml:"max_image_width"` // Wider JPEG/PNG assets are scaled down; 0 disables
	ManifestPath  string `yaml:"manifest_path"`   // SQLite build manifest; empty disables

	Addr string `yaml:"addr"` // Preview listen address (default ":3000")
}

// MarkdownConfig selects the converter used by !include_md.
type MarkdownConfig struct {
	Engine string `yaml:"engine"` // "rules" (default) or "goldmark"
	Compat bool   `yaml:"compat"` // Reproduce legacy list-marker and rule output
}

// FeedConfig controls the feeds written next to atom.xml.
type FeedConfig struct {
	RSS bool `yaml:"rss"` // Also write rss.xml
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000/blog"
	}
	if c.BaseURL == "" {
		c.BaseURL = strings.TrimSuffix(c.URL, "/") + "/"
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.ComponentsDir == "" {
		c.ComponentsDir = "components"
	}
	if c.ContentRoot == "" {
		c.ContentRoot = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = "_site"
	}
	if c.BlogPath == "" {
		c.BlogPath = directive.DefaultBlogPath
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
}

// resolvePaths makes relative directories relative to base.
func (c *SiteConfig) resolvePaths(base string) {
	for _, p := range []*string{&c.PagesDir, &c.ComponentsDir, &c.ContentRoot, &c.StaticDir, &c.OutputDir, &c.ManifestPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *SiteConfig) validate() error {
	info, err := os.Stat(c.PagesDir)
	if err != nil {
		return fmt.Errorf("pubgen: pages directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pubgen: pages directory %s is not a directory", c.PagesDir)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("pubgen: output directory is required")
	}
	if c.MaxImageWidth < 0 {
		return fmt.Errorf("pubgen: max_image_width must not be negative, got %d", c.MaxImageWidth)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Variables from a .env file in
// the working directory are loaded first (existing variables win) and
// ${VAR} references in the file are expanded. Relative directories are
// taken relative to the configuration file.
func LoadConfig(path string) (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("pubgen: load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("pubgen: read config: %w", err)
	}
	var cfg SiteConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("pubgen: parse config %s: %w", path, err)
	}
	cfg.setDefaults()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		s.logger = l
	}
}

// WithSources replaces the directory-backed directive sources.
func WithSources(src directive.Sources) Option {
	return func(s *Site) {
		s.sources = src
	}
}

// WithClock sets the time source used for feed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Site) {
		s.now = now
	}
}

// WithDebounce sets how long Watch waits for changes to settle before
// rebuilding (default 300ms).
func WithDebounce(d time.Duration) Option {
	return func(s *Site) {
		s.debounce = d
	}
}
