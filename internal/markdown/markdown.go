// Package markdown parses and renders page bodies with goldmark and extracts
// the values the plugins need from the AST: the inferred title and the header
// image reference.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Markdown wraps a configured goldmark instance.
type Markdown struct {
	md goldmark.Markdown
}

// New returns a goldmark setup with GFM, heading IDs and image attribute lists.
func New() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&imageAttributeTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Markdown{md: md}
}

// Parse parses a body (front matter already removed) into a goldmark AST.
func (m *Markdown) Parse(body []byte) gmast.Node {
	return m.md.Parser().Parse(text.NewReader(body))
}

// Render converts a body to an HTML fragment.
func (m *Markdown) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(body, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Analysis holds values extracted from a parsed body.
type Analysis struct {
	// Title is the text of the first level-one heading, empty when there is none.
	Title string
	// HeaderImage is the destination of the first image carrying the header
	// marker, empty when there is none.
	HeaderImage string
}

// Analyze parses body once and extracts the title and the header image
// carrying marker.
func (m *Markdown) Analyze(body []byte, marker string) Analysis {
	root := m.Parse(body)
	return Analysis{
		Title:       FirstHeading(root, body),
		HeaderImage: HeaderImage(root, marker),
	}
}
