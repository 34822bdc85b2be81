package pubgen

import (
	"cmp"
	"slices"
	"time"

	"github.com/eringen/pubgen/directive"
)

// BlogEntry is a published post as it appears in the feeds and manifest.
type BlogEntry = directive.Entry

// BuildResult summarizes a finished build.
type BuildResult struct {
	OutputDir string
	Pages     int // pages written, including the index
	Entries   []BlogEntry
	Assets    int // static files copied
	Duration  time.Duration
}

// SortEntries orders entries newest first. Entries published on the same
// day are ordered by URL.
func SortEntries(entries []BlogEntry) {
	slices.SortFunc(entries, func(a, b BlogEntry) int {
		if c := b.Published.Compare(a.Published); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})
}
