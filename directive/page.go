package directive

import (
	"path/filepath"
	"strings"
	"time"
)

// Attribute names with special meaning.
const (
	AttrTitle       = "title"
	AttrPublishDate = "publish_date"
	AttrUpdateDate  = "update_date"
)

// DateLayout parses publish_date and update_date values. Month and day may
// be written with or without a leading zero.
const DateLayout = "1/2/2006"

// IndexPage is the page rendered as the blog front page. It is never listed
// by !blog_list and has no feed entry.
const IndexPage = "index.html"

// Attribute is one "@name = value" declaration.
type Attribute struct {
	Name   string
	Raw    string    // value as written
	Date   time.Time // set when IsDate
	IsDate bool
}

// Attributes is the per-page attribute table.
type Attributes map[string]Attribute

func parseAttribute(name, value string) (Attribute, error) {
	attr := Attribute{Name: name, Raw: value}
	if name != AttrPublishDate && name != AttrUpdateDate {
		return attr, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return attr, err
	}
	attr.Date, attr.IsDate = t, true
	return attr, nil
}

// Page is the result of expanding one page source.
type Page struct {
	Name  string // file name, e.g. "first-post.html"
	HTML  string
	Attrs Attributes
}

// Slug is the page file name without its extension.
func (p *Page) Slug() string {
	return Stem(p.Name)
}

// Stem strips the extension from a page file name.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Entry describes a published page in the feed.
type Entry struct {
	Title     string
	Published time.Time
	Updated   time.Time
	URL       string
	Slug      string
}

// Entry extracts the feed entry of p. baseURL is prefixed verbatim to the
// page slug. Title and both dates are required.
func (p *Page) Entry(baseURL string) (Entry, error) {
	title, ok := p.Attrs[AttrTitle]
	if !ok {
		return Entry{}, p.missing(AttrTitle)
	}
	published, ok := p.Attrs[AttrPublishDate]
	if !ok {
		return Entry{}, p.missing(AttrPublishDate)
	}
	updated, ok := p.Attrs[AttrUpdateDate]
	if !ok {
		return Entry{}, p.missing(AttrUpdateDate)
	}
	slug := p.Slug()
	return Entry{
		Title:     title.Raw,
		Published: published.Date,
		Updated:   updated.Date,
		URL:       baseURL + slug,
		Slug:      slug,
	}, nil
}

func (p *Page) missing(field string) error {
	return &Error{Kind: ErrMissingRequiredField, Page: p.Name, Name: field}
}
