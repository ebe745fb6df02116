package markdown

import (
	"bytes"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// imageAttributeTransformer moves a `{ .class #id key=value }` list that
// directly follows an image onto the image node, the way attribute lists
// annotate images in Markdown documentation sites.
type imageAttributeTransformer struct{}

func (t *imageAttributeTransformer) Transform(doc *gmast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var images []*gmast.Image
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if img, ok := n.(*gmast.Image); ok && entering {
			images = append(images, img)
		}
		return gmast.WalkContinue, nil
	})

	for _, img := range images {
		next, ok := img.NextSibling().(*gmast.Text)
		if !ok {
			continue
		}
		value := next.Segment.Value(source)
		if len(value) == 0 || value[0] != '{' {
			continue
		}
		end := bytes.IndexByte(value, '}')
		if end < 0 {
			continue
		}
		attrs, ok := ParseAttributeList(string(value[1:end]))
		if !ok {
			continue
		}
		for _, a := range attrs {
			img.SetAttributeString(a.Name, []byte(a.Value))
		}
		if end+1 >= len(value) {
			next.Parent().RemoveChild(next.Parent(), next)
		} else {
			next.Segment = next.Segment.WithStart(next.Segment.Start + end + 1)
		}
	}
}

// Attribute is a single entry of an attribute list.
type Attribute struct {
	Name  string
	Value string
}

// ParseAttributeList parses the inside of `{ ... }`. Classes are merged into a
// single class attribute. ok is false when the list contains no attributes
// or a malformed token.
func ParseAttributeList(s string) ([]Attribute, bool) {
	var (
		attrs   []Attribute
		classes []string
	)
	for _, tok := range splitAttributeTokens(s) {
		switch {
		case strings.HasPrefix(tok, ".") && len(tok) > 1:
			classes = append(classes, tok[1:])
		case strings.HasPrefix(tok, "#") && len(tok) > 1:
			attrs = append(attrs, Attribute{Name: "id", Value: tok[1:]})
		case strings.Contains(tok, "="):
			name, value, _ := strings.Cut(tok, "=")
			if name == "" {
				return nil, false
			}
			attrs = append(attrs, Attribute{Name: name, Value: strings.Trim(value, `"'`)})
		default:
			return nil, false
		}
	}
	if len(classes) > 0 {
		attrs = append(attrs, Attribute{Name: "class", Value: strings.Join(classes, " ")})
	}
	return attrs, len(attrs) > 0
}

// splitAttributeTokens splits on whitespace while keeping quoted values intact.
func splitAttributeTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// hasMarker reports whether node attributes satisfy marker: `.name` matches a
// class, `#name` the id, anything else the presence of an attribute.
func hasMarker(n gmast.Node, marker string) bool {
	switch {
	case strings.HasPrefix(marker, "."):
		raw, ok := n.AttributeString("class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(attributeText(raw)) {
			if c == marker[1:] {
				return true
			}
		}
		return false
	case strings.HasPrefix(marker, "#"):
		raw, ok := n.AttributeString("id")
		return ok && attributeText(raw) == marker[1:]
	default:
		_, ok := n.AttributeString(marker)
		return ok
	}
}

func attributeText(v any) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return ""
	}
}
