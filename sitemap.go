package pubgen

import (
	"encoding/xml"
	"io"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap lists the blog home page followed by every entry.
func WriteSitemap(w io.Writer, cfg SiteConfig, entries []BlogEntry) error {
	urls := []sitemapURL{
		{Loc: BuildURL(cfg.URL)},
	}
	for _, e := range entries {
		urls = append(urls, sitemapURL{
			Loc:     e.URL,
			LastMod: e.Updated.Format(time.DateOnly),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return encodeXML(w, sitemap)
}
