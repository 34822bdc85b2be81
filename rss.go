package pubgen

import (
	"encoding/xml"
	"io"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// WriteRSS encodes entries as an RSS 2.0 channel.
func WriteRSS(w io.Writer, cfg SiteConfig, entries []BlogEntry) error {
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, rssItem{
			Title:       e.Title,
			Link:        e.URL,
			Description: e.Title,
			PubDate:     e.Published.Format(time.RFC1123Z),
			GUID:        e.URL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}
	return encodeXML(w, feed)
}
