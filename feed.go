package pubgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

const atomNS = "http://www.w3.org/2005/Atom"

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	XMLNS   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Links   []atomLink  `xml:"link"`
	Updated string      `xml:"updated"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	Link      atomLink    `xml:"link"`
	ID        string      `xml:"id"`
	Published string      `xml:"published"`
	Updated   string      `xml:"updated"`
	Content   atomContent `xml:"content"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

// WriteAtom encodes entries as an Atom 1.0 feed. The entry content is the
// post title.
func WriteAtom(w io.Writer, cfg SiteConfig, entries []BlogEntry, updated time.Time) error {
	feed := atomFeed{
		XMLNS: atomNS,
		Title: cfg.Name,
		ID:    cfg.URL,
		Links: []atomLink{
			{Href: cfg.URL, Rel: "alternate"},
			{Href: FileURL(cfg.URL, "atom.xml"), Rel: "self"},
		},
		Updated: updated.UTC().Format(time.RFC3339),
	}
	if cfg.Author != "" {
		feed.Author = &atomAuthor{Name: cfg.Author}
	}
	for _, e := range entries {
		feed.Entries = append(feed.Entries, atomEntry{
			Title:     e.Title,
			Link:      atomLink{Href: e.URL, Rel: "alternate"},
			ID:        e.URL,
			Published: e.Published.UTC().Format(time.RFC3339),
			Updated:   e.Updated.UTC().Format(time.RFC3339),
			Content:   atomContent{Type: "html", Body: e.Title},
		})
	}
	return encodeXML(w, feed)
}

func encodeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type feedFile struct {
	name    string
	enabled bool
	write   func(io.Writer) error
}

// writeFeeds writes atom.xml and, when enabled, rss.xml and sitemap.xml.
func (s *Site) writeFeeds(entries []BlogEntry, updated time.Time) error {
	cfg := s.Config
	files := []feedFile{
		{"atom.xml", true, func(w io.Writer) error { return WriteAtom(w, cfg, entries, updated) }},
		{"rss.xml", cfg.Feed.RSS, func(w io.Writer) error { return WriteRSS(w, cfg, entries) }},
		{"sitemap.xml", cfg.Sitemap, func(w io.Writer) error { return WriteSitemap(w, cfg, entries) }},
	}
	for _, f := range files {
		if !f.enabled {
			continue
		}
		var buf bytes.Buffer
		if err := f.write(&buf); err != nil {
			return fmt.Errorf("pubgen: encode %s: %w", f.name, err)
		}
		out := filepath.Join(cfg.OutputDir, f.name)
		if err := writeFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("pubgen: write %s: %w", f.name, err)
		}
		s.logger.Debug("Wrote feed", "output", out, "entries", len(entries))
	}
	return nil
}
