package pubgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_RebuildsOnChange(t *testing.T) {
	s := newTestSite(t, fixtureFiles(), nil)
	s.debounce = 20 * time.Millisecond
	_, err := s.Build(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	page := filepath.Join(s.Config.PagesDir, "second-post.html")
	updated := "@title = Watched\n@publish_date = 2/1/2021\n@update_date = 2/1/2021\n<p>@title</p>"
	out := filepath.Join(s.Config.OutputDir, "second-post", "index.html")
	require.Eventually(t, func() bool {
		// Rewrite on every poll; the watcher may not be registered yet.
		if err := os.WriteFile(page, []byte(updated), 0o644); err != nil {
			return false
		}
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "<p>Watched</p>")
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestShouldIgnoreEvent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	ignored := []string{out}

	tests := []struct {
		path string
		want bool
	}{
		{"pages/post.html", false},
		{"pages/.post.html.swp", true},
		{"pages/post.html~", true},
		{"pages/#post.html#", true},
		{filepath.Join(out, "post", "index.html"), true},
		{out, true},
		{out + "side/file.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldIgnoreEvent(tt.path, ignored), tt.path)
	}
}

func TestWatchRoots(t *testing.T) {
	s := newTestSite(t, fixtureFiles(), func(c *SiteConfig) {
		c.StaticDir = filepath.Join(c.OutputDir, "does-not-exist")
	})
	roots := s.watchRoots()
	assert.Equal(t, []string{s.Config.PagesDir, s.Config.ComponentsDir, s.Config.ContentRoot}, roots)
}
