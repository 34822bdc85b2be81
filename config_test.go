package pubgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUBGEN_TEST_URL", "https://example.org/blog")
	path := filepath.Join(dir, "pubgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Example
url: ${PUBGEN_TEST_URL}
author: Ann
pages_dir: blueprint/blog
output_dir: /srv/www/blog
markdown:
  engine: goldmark
  compat: true
feed:
  rss: true
sitemap: true
max_image_width: 800
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Example", cfg.Name)
	assert.Equal(t, "https://example.org/blog", cfg.URL)
	assert.Equal(t, "https://example.org/blog/", cfg.BaseURL)
	assert.Equal(t, filepath.Join(dir, "blueprint", "blog"), cfg.PagesDir)
	assert.Equal(t, filepath.Join(dir, "components"), cfg.ComponentsDir)
	assert.Equal(t, dir, cfg.ContentRoot)
	assert.Equal(t, "/srv/www/blog", cfg.OutputDir)
	assert.Equal(t, "goldmark", cfg.Markdown.Engine)
	assert.True(t, cfg.Markdown.Compat)
	assert.True(t, cfg.Feed.RSS)
	assert.True(t, cfg.Sitemap)
	assert.Equal(t, 800, cfg.MaxImageWidth)
	assert.Empty(t, cfg.StaticDir)
	assert.Empty(t, cfg.ManifestPath)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("PUBGEN_TEST_AUTHOR") })
	require.NoError(t, os.WriteFile(".env", []byte("PUBGEN_TEST_AUTHOR=Env Author\n"), 0o644))
	require.NoError(t, os.WriteFile("pubgen.yaml", []byte("author: ${PUBGEN_TEST_AUTHOR}\n"), 0o644))

	cfg, err := LoadConfig("pubgen.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Env Author", cfg.Author)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed\n"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, "http://localhost:3000/blog", cfg.URL)
	assert.Equal(t, "http://localhost:3000/blog/", cfg.BaseURL)
	assert.Equal(t, "pages", cfg.PagesDir)
	assert.Equal(t, "components", cfg.ComponentsDir)
	assert.Equal(t, ".", cfg.ContentRoot)
	assert.Equal(t, "_site", cfg.OutputDir)
	assert.Equal(t, "/blog/", cfg.BlogPath)
	assert.Equal(t, ":3000", cfg.Addr)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		cfg     SiteConfig
		wantErr bool
	}{
		{"valid", SiteConfig{PagesDir: dir, OutputDir: "out"}, false},
		{"missing pages dir", SiteConfig{PagesDir: filepath.Join(dir, "none"), OutputDir: "out"}, true},
		{"pages dir is a file", SiteConfig{PagesDir: file, OutputDir: "out"}, true},
		{"blank output dir", SiteConfig{PagesDir: dir, OutputDir: " "}, true},
		{"negative image width", SiteConfig{PagesDir: dir, OutputDir: "out", MaxImageWidth: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
