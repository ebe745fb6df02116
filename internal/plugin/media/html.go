// Package media rewrites image and video tags in rendered page HTML: <img>
// elements become <picture> elements with compressed sources, video-marked
// images become <video> or <iframe> players, and images are wrapped in
// lightbox links.
package media

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

// fragment is a parsed HTML fragment hung below a synthetic <body> so nodes
// can be replaced in place.
type fragment struct {
	body *html.Node
}

func parseFragment(s string) (*fragment, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "parse page html").Fatal().Build()
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return &fragment{body: body}, nil
}

// elements returns every element named a in document order.
func (f *fragment) elements(a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == a {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(f.body)
	return out
}

func (f *fragment) String() (string, error) {
	var buf bytes.Buffer
	for c := f.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", errors.WrapError(err, errors.CategoryBuild, "render page html").Fatal().Build()
		}
	}
	return buf.String(), nil
}

// rewrite parses content, applies fn and renders the result when fn reports
// at least one change.
func rewrite(content string, fn func(f *fragment) int) (string, bool, error) {
	f, err := parseFragment(content)
	if err != nil {
		return "", false, err
	}
	if fn(f) == 0 {
		return "", false, nil
	}
	out, err := f.String()
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := getAttr(n, key)
	return ok
}

// setAttr replaces the value of key, appending it when absent.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, attr(key, val))
}

func hasClass(n *html.Node, class string) bool {
	v, _ := getAttr(n, "class")
	return slices.Contains(strings.Fields(v), class)
}

// copyAttrs sets every attribute of src on dst except the skipped keys.
func copyAttrs(dst, src *html.Node, skip ...string) {
	for _, a := range src.Attr {
		if a.Namespace == "" && slices.Contains(skip, a.Key) {
			continue
		}
		setAttr(dst, a.Key, a.Val)
	}
}

// replace puts repl where n was.
func replace(n, repl *html.Node) {
	n.Parent.InsertBefore(repl, n)
	n.Parent.RemoveChild(n)
}

// wrap puts wrapper where n was and moves n into it.
func wrap(n, wrapper *html.Node) {
	replace(n, wrapper)
	wrapper.AppendChild(n)
}

func hasAncestor(n *html.Node, a atom.Atom) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return true
		}
	}
	return false
}

// source returns the img's src. A missing or empty src is reported as
// absent so the tag is skipped, and logged as malformed markup the first
// time any rewriter meets that tag on the page.
func source(pc *plugin.PluginContext, p *page.Page, img *html.Node) (string, bool) {
	if src, ok := getAttr(img, "src"); ok && strings.TrimSpace(src) != "" {
		return src, true
	}
	var tag bytes.Buffer
	_ = html.Render(&tag, img)
	if !p.FirstWarning("malformed:" + tag.String()) {
		return "", false
	}
	err := errors.MarkupError("img tag without src").
		WithContext("page", p.File.SrcPath).Build()
	pc.Logger.Warn("Skipping malformed tag",
		logfields.Page(p.File.SrcPath),
		logfields.Tag("img"),
		logfields.Error(err))
	return "", false
}
