package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgen"
)

func TestToTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my-blog", "My Blog"},
		{"myblog", "Myblog"},
		{"a--b", "A  B"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toTitle(tt.in); got != tt.want {
			t.Errorf("toTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunNew_ScaffoldBuilds(t *testing.T) {
	t.Chdir(t.TempDir())
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	require.NoError(t, runNew("my-notes", now))

	for _, name := range []string{
		"pubgen.yaml", ".env.example",
		"pages/index.html", "pages/hello-world.html",
		"components/head.html", "components/footer.html",
		"content/hello-world.md", "static/style.css",
	} {
		_, err := os.Stat(filepath.Join("my-notes", name))
		assert.NoError(t, err, name)
	}

	post, err := os.ReadFile(filepath.Join("my-notes", "pages", "hello-world.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "@publish_date = 3/9/2024")

	cfg, err := pubgen.LoadConfig(filepath.Join("my-notes", "pubgen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "My Notes", cfg.Name)

	site := pubgen.New(cfg, pubgen.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	res, err := site.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Hello, world", res.Entries[0].Title)

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "hello-world", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Hello, world</title>")
	assert.Contains(t, string(page), "<strong>markdown</strong>")
	assert.NotContains(t, string(page), "!include")

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="/blog/hello-world/"`)

	store, err := pubgen.NewStore(cfg.ManifestPath)
	require.NoError(t, err)
	defer store.Close()
	var out bytes.Buffer
	require.NoError(t, printEntries(&out, store))
	assert.Contains(t, out.String(), "1 entries")
	assert.Contains(t, out.String(), "2024-03-09")
}

func TestRunNew_ExistingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("taken", 0o755))

	err := runNew("taken", time.Now())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already exists"))
}
