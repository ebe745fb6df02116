package markdown

import (
	"path"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FirstHeading returns the plain text of the first level-one heading.
func FirstHeading(root gmast.Node, source []byte) string {
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(plainText(h, source))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		case *gmast.CodeSpan:
			for s := t.FirstChild(); s != nil; s = s.NextSibling() {
				if txt, ok := s.(*gmast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

// HeaderImage returns the destination of the first image annotated with marker.
func HeaderImage(root gmast.Node, marker string) string {
	if marker == "" {
		return ""
	}
	var dest string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if img, ok := n.(*gmast.Image); ok && hasMarker(img, marker) {
			dest = string(img.Destination)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return dest
}

// TitleFromFilename derives a page title from its slash-separated source path.
// Index pages take the name of their directory; the root index is "Home".
func TitleFromFilename(srcPath string) string {
	base := path.Base(srcPath)
	name := strings.TrimSuffix(base, path.Ext(base))
	if strings.EqualFold(name, "index") || strings.EqualFold(name, "readme") {
		dir := path.Dir(srcPath)
		if dir == "." || dir == "/" {
			return "Home"
		}
		name = path.Base(dir)
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	// Casers keep state and are not shared between goroutines.
	return cases.Title(language.English, cases.NoLower).String(strings.Join(strings.Fields(name), " "))
}
