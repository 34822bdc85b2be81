package pubgen

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.org/blog", nil, "https://example.org/blog"},
		{"https://example.org", []string{"blog"}, "https://example.org/blog/"},
		{"https://example.org/", []string{"blog", "post"}, "https://example.org/blog/post/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %q) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"https://example.org/blog", "atom.xml", "https://example.org/blog/atom.xml"},
		{"https://example.org/blog/", "atom.xml", "https://example.org/blog/atom.xml"},
		{"https://example.org/blog/", "/rss.xml", "https://example.org/blog/rss.xml"},
	}
	for _, tt := range tests {
		if got := FileURL(tt.base, tt.name); got != tt.want {
			t.Errorf("FileURL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}
