// Package markdown converts a restricted Markdown subset to HTML through an
// ordered list of regular-expression rewrite rules.
//
// Each rule is a pure text-to-text function that sees the full output of the
// rule before it. Rule order is significant: bold must run before italics, and
// the paragraph rule must run last.
package markdown

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reHeader    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]*(.*)\n*`)
	reBold      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reItalic    = regexp.MustCompile(`\*(.*?)\*`)
	reHighlight = regexp.MustCompile(`==(.*?)==`)
	reLink      = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reRule      = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)

	// A block of consecutive "- item" or "* item" lines plus any blank lines after it.
	reUnorderedList   = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+.*(?:\n[ \t]*[-*][ \t]+.*)*\n*`)
	reUnorderedMarker = regexp.MustCompile(`^[-*]\s*`)
	reOrderedList     = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+.*(?:\n[ \t]*\d+\.[ \t]+.*)*`)
	reOrderedMarker   = regexp.MustCompile(`^\d+\.\s*`)
)

// Options selects between corrected and legacy rule behavior.
type Options struct {
	// Compat reproduces the legacy output: ordered-list items lose exactly
	// three leading characters (wrong for "10." and up) and every "---" in
	// the text becomes <hr>, not only lines made of dashes.
	Compat bool
}

// Rule is one named stage of the conversion pipeline.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Rules returns the conversion stages in the order they must run.
func Rules(opts Options) []Rule {
	ordered, rule := OrderedLists, HorizontalRules
	if opts.Compat {
		ordered, rule = OrderedListsFixedWidth, HorizontalRulesUnanchored
	}
	return []Rule{
		{Name: "headers", Apply: Headers},
		{Name: "bold", Apply: Bold},
		{Name: "italics", Apply: Italics},
		{Name: "highlight", Apply: Highlight},
		{Name: "unordered_lists", Apply: UnorderedLists},
		{Name: "ordered_lists", Apply: ordered},
		{Name: "links", Apply: Links},
		{Name: "horizontal_rules", Apply: rule},
		{Name: "paragraphs", Apply: Paragraphs},
	}
}

// Converter turns Markdown source into HTML.
type Converter interface {
	Convert(md string) (string, error)
}

// Pipeline applies a fixed sequence of rules. It never fails: text that no
// rule matches passes through unchanged.
type Pipeline struct {
	rules []Rule
}

// NewPipeline returns a Pipeline running Rules(opts).
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{rules: Rules(opts)}
}

// Convert implements Converter.
func (p *Pipeline) Convert(md string) (string, error) {
	return p.Apply(md), nil
}

// Apply runs every rule over md in order.
func (p *Pipeline) Apply(md string) string {
	out := md
	for _, r := range p.rules {
		out = r.Apply(out)
	}
	return out
}

var defaultPipeline = NewPipeline(Options{})

// ToHTML converts md with the default rules.
func ToHTML(md string) string {
	return defaultPipeline.Apply(md)
}

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ToHTML(content))
		return err
	})
}

// Headers turns "## text" lines into <h2>text</h2> and swallows the blank
// lines that follow the header.
func Headers(s string) string {
	return replaceSubmatchFunc(reHeader, s, func(m []string) string {
		level := string(rune('0' + len(m[1])))
		return "<h" + level + ">" + m[2] + "</h" + level + ">\n"
	})
}

// Bold turns **text** into <strong>text</strong>.
func Bold(s string) string {
	return reBold.ReplaceAllString(s, "<strong>${1}</strong>")
}

// Italics turns *text* into <em>text</em>. Run it after Bold.
func Italics(s string) string {
	return reItalic.ReplaceAllString(s, "<em>${1}</em>")
}

// Highlight turns ==text== into <mark>text</mark>.
func Highlight(s string) string {
	return reHighlight.ReplaceAllString(s, "<mark>${1}</mark>")
}

// UnorderedLists collapses each block of "- item" / "* item" lines into a
// single <ul> line.
func UnorderedLists(s string) string {
	return reUnorderedList.ReplaceAllStringFunc(s, func(block string) string {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, item := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
			b.WriteString("<li>")
			b.WriteString(reUnorderedMarker.ReplaceAllString(strings.TrimSpace(item), ""))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>\n")
		return b.String()
	})
}

// OrderedLists collapses each block of "N. item" lines into a single <ol>
// line, removing the whole numeric marker.
func OrderedLists(s string) string {
	return orderedLists(s, func(item string) string {
		return reOrderedMarker.ReplaceAllString(item, "")
	})
}

// OrderedListsFixedWidth is OrderedLists with the legacy marker handling:
// the first three characters of every item are dropped, which only works
// for single-digit numbers.
func OrderedListsFixedWidth(s string) string {
	return orderedLists(s, func(item string) string {
		if len(item) < 3 {
			return ""
		}
		return item[3:]
	})
}

func orderedLists(s string, strip func(string) string) string {
	return reOrderedList.ReplaceAllStringFunc(s, func(block string) string {
		var b strings.Builder
		b.WriteString("<ol>")
		for _, item := range strings.Split(block, "\n") {
			b.WriteString("<li>")
			b.WriteString(strip(strings.TrimSpace(item)))
			b.WriteString("</li>")
		}
		b.WriteString("</ol>")
		return b.String()
	})
}

// Links turns [label](url) into <a href="url">label</a>.
func Links(s string) string {
	return reLink.ReplaceAllString(s, `<a href="${2}">${1}</a>`)
}

// HorizontalRules replaces lines made only of three or more dashes with <hr>.
func HorizontalRules(s string) string {
	return reRule.ReplaceAllString(s, "<hr>")
}

// HorizontalRulesUnanchored replaces every "---" anywhere in s with <hr>.
func HorizontalRulesUnanchored(s string) string {
	return strings.ReplaceAll(s, "---", "<hr>")
}

// Paragraphs wraps every non-empty line of s in <p></p>. Block elements
// produced by earlier rules end up inside the paragraph as well.
func Paragraphs(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, "<p>"+line+"</p>")
	}
	return strings.Join(out, "\n")
}

// replaceSubmatchFunc is ReplaceAllStringFunc with access to the capture
// groups of each match.
func replaceSubmatchFunc(re *regexp.Regexp, s string, fn func(m []string) string) string {
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
		b.WriteString(fn(m))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
