package media

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

// ImagePluginName is the registry name of the picture rewriter.
const ImagePluginName = "image"

// ImagePlugin replaces local PNG images with <picture> elements that offer
// the AVIF and WebP variants from the compressed asset tree and fall back to
// a JPEG.
type ImagePlugin struct {
	plugin.BasePlugin
	compressed bool
	recorder   metrics.Recorder
}

// NewImage creates the rewriter. With compressed false it leaves every page
// unchanged.
func NewImage(compressed bool, recorder metrics.Recorder) *ImagePlugin {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &ImagePlugin{compressed: compressed, recorder: recorder}
}

// Metadata implements plugin.Plugin.
func (p *ImagePlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        ImagePluginName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeRewrite,
		Description: "Rewrites PNG images to <picture> with AVIF and WebP sources",
	}
}

// Order runs the rewriter after video and before lightbox.
func (p *ImagePlugin) Order() int { return 20 }

// OnPageContent implements plugin.PageContentHook.
func (p *ImagePlugin) OnPageContent(pc *plugin.PluginContext, pg *page.Page, content string) (string, bool, error) {
	if !p.compressed {
		return "", false, nil
	}
	return rewrite(content, func(f *fragment) int {
		n := 0
		for _, img := range f.elements(atom.Img) {
			if img.Parent != nil && img.Parent.DataAtom == atom.Picture {
				continue
			}
			src, ok := source(pc, pg, img)
			if !ok || !strings.HasSuffix(src, ".png") || strings.HasPrefix(src, "http") {
				continue
			}
			replace(img, picture(img, src))
			p.recorder.IncRewrite(ImagePluginName)
			n++
		}
		return n
	})
}

// CompressedPath maps an asset path into the compressed asset tree:
// assets/x becomes assets/target/x, without doubling an existing target.
func CompressedPath(src string) string {
	return strings.ReplaceAll(strings.ReplaceAll(src, "assets", "assets/target"), "target/target", "target")
}

func trimExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

func picture(img *html.Node, src string) *html.Node {
	base := trimExt(CompressedPath(src))
	pic := element(atom.Picture)
	for _, ext := range []string{"avif", "webp"} {
		pic.AppendChild(element(atom.Source,
			attr("srcset", base+"."+ext),
			attr("type", "image/"+ext)))
	}
	fallback := element(atom.Img)
	copyAttrs(fallback, img, "src")
	setAttr(fallback, "src", base+".jpg")
	pic.AppendChild(fallback)
	return pic
}
