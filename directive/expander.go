// Package directive expands the directives embedded in page templates.
//
// A page may contain four kinds of directive:
//
//	!include(name)      insert the HTML fragment <components>/<name>.html
//	!include_md(path)   insert <content root>/<path> converted to HTML
//	!blog_list(arg)     insert a numbered list of links to every post
//	@name = value       declare a page attribute (line is removed)
//	@name               substitute a declared attribute
//
// Each kind is resolved over the whole text before the next kind is looked
// at, in the order listed. Text inserted by an include is not scanned for
// further includes, but later passes do see it.
package directive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"strings"

	"github.com/eringen/pubgen/markdown"
)

var (
	reInclude   = regexp.MustCompile(`!include\((.*?)\)`)
	reIncludeMD = regexp.MustCompile(`!include_md\((.*?)\)`)
	reBlogList  = regexp.MustCompile(`!blog_list\((.*?)\)`)
	reAssign    = regexp.MustCompile(`(?m)^@([a-zA-Z_]+)[ \t]*=[ \t]*(.*)(?:\n|$)`)
	reReference = regexp.MustCompile(`@([a-zA-Z_]+)`)
)

// DefaultBlogPath prefixes the links produced by !blog_list.
const DefaultBlogPath = "/blog/"

// Expander turns page sources into HTML.
type Expander struct {
	src      Sources
	md       markdown.Converter
	blogPath string
	log      *slog.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithBlogPath sets the URL path under which posts are linked (default "/blog/").
func WithBlogPath(path string) Option {
	return func(e *Expander) {
		e.blogPath = path
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Expander) {
		e.log = l
	}
}

// NewExpander returns an Expander reading from src. A nil md selects the
// default markdown rules.
func NewExpander(src Sources, md markdown.Converter, opts ...Option) *Expander {
	if md == nil {
		md = markdown.NewPipeline(markdown.Options{})
	}
	e := &Expander{
		src:      src,
		md:       md,
		blogPath: DefaultBlogPath,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type pass struct {
	name string
	run  func(p *Page, text string) (string, error)
}

func (e *Expander) passes() []pass {
	return []pass{
		{"include", e.includeFragments},
		{"include_md", e.includeMarkdown},
		{"blog_list", e.blogList},
		{"assign", assignAttributes},
		{"reference", substituteReferences},
	}
}

// Expand resolves every directive in source. name is the page file name and
// is used for error messages and the page slug. The first failure aborts.
func (e *Expander) Expand(name, source string) (*Page, error) {
	p := &Page{Name: name, Attrs: Attributes{}}
	text := source
	for _, ps := range e.passes() {
		out, err := ps.run(p, text)
		if err != nil {
			return nil, err
		}
		text = out
	}
	p.HTML = text
	e.log.Debug("Expanded page", "page", name, "attributes", len(p.Attrs))
	return p, nil
}

func (e *Expander) includeFragments(p *Page, text string) (string, error) {
	return replaceFunc(reInclude, text, func(m []string) (string, error) {
		name := strings.TrimSpace(m[1])
		frag, err := e.src.Fragment(name)
		if err != nil {
			return "", loadError(ErrMissingFragment, p.Name, name, err)
		}
		return frag, nil
	})
}

func (e *Expander) includeMarkdown(p *Page, text string) (string, error) {
	return replaceFunc(reIncludeMD, text, func(m []string) (string, error) {
		path := strings.TrimSpace(m[1])
		src, err := e.src.Markdown(path)
		if err != nil {
			return "", loadError(ErrMissingSource, p.Name, path, err)
		}
		html, err := e.md.Convert(src)
		if err != nil {
			return "", fmt.Errorf("%s: convert %q: %w", p.Name, path, err)
		}
		return html, nil
	})
}

func (e *Expander) blogList(p *Page, text string) (string, error) {
	if !reBlogList.MatchString(text) {
		return text, nil
	}
	return replaceFunc(reBlogList, text, func(m []string) (string, error) {
		// The argument is reserved for a post count limit.
		if arg := strings.TrimSpace(m[1]); arg != "" {
			e.log.Debug("Ignoring blog_list argument", "page", p.Name, "arg", arg)
		}
		names, err := e.src.Posts()
		if err != nil {
			return "", fmt.Errorf("%s: list posts: %w", p.Name, err)
		}
		var b strings.Builder
		if err := BlogList(ListPosts(names, e.blogPath)).Render(context.Background(), &b); err != nil {
			return "", fmt.Errorf("%s: render blog list: %w", p.Name, err)
		}
		return b.String(), nil
	})
}

func assignAttributes(p *Page, text string) (string, error) {
	return replaceFunc(reAssign, text, func(m []string) (string, error) {
		attr, err := parseAttribute(m[1], strings.TrimSpace(m[2]))
		if err != nil {
			return "", &Error{Kind: ErrInvalidDate, Page: p.Name, Name: m[1], Err: err}
		}
		p.Attrs[attr.Name] = attr
		return "", nil
	})
}

func substituteReferences(p *Page, text string) (string, error) {
	return replaceFunc(reReference, text, func(m []string) (string, error) {
		attr, ok := p.Attrs[m[1]]
		if !ok {
			return "", &Error{Kind: ErrUndefinedAttribute, Page: p.Name, Name: m[1]}
		}
		return attr.Raw, nil
	})
}

func loadError(kind error, page, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: kind, Page: page, Name: name, Err: err}
	}
	return fmt.Errorf("%s: load %q: %w", page, name, err)
}

// replaceFunc replaces every match of re in s with the result of fn, which
// receives the match and its capture groups. It stops at the first error.
func replaceFunc(re *regexp.Regexp, s string, fn func(m []string) (string, error)) (string, error) {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		out, err := fn(m)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}
