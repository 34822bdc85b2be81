package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by New.
const (
	EngineRules    = "rules"
	EngineGoldmark = "goldmark"
)

// Goldmark is a CommonMark converter with GitHub extensions. Raw HTML in
// the source is passed through, matching the rule pipeline.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a ready to use Goldmark converter. It is safe for
// sequential reuse.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Convert implements Converter.
func (g *Goldmark) Convert(md string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("markdown: goldmark convert: %w", err)
	}
	return buf.String(), nil
}

// New returns the converter registered under engine. An empty engine
// selects the rule pipeline.
func New(engine string, opts Options) (Converter, error) {
	switch engine {
	case "", EngineRules:
		return NewPipeline(opts), nil
	case EngineGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("markdown: unknown engine %q", engine)
	}
}
