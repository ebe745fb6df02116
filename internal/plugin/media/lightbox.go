package media

import (
	"strings"

	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

const (
	// LightboxPluginName is the registry name of the lightbox wrapper.
	LightboxPluginName = "lightbox"

	// OptOutClass keeps an image out of the lightbox.
	OptOutClass = "off-glb"
)

// LightboxPlugin wraps images in GLightbox anchors. A <picture> is wrapped as
// a whole and links to its fallback image.
type LightboxPlugin struct {
	plugin.BasePlugin
	recorder metrics.Recorder
}

// NewLightbox creates the wrapper.
func NewLightbox(recorder metrics.Recorder) *LightboxPlugin {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LightboxPlugin{recorder: recorder}
}

// Metadata implements plugin.Plugin.
func (p *LightboxPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        LightboxPluginName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeRewrite,
		Description: "Wraps images in lightbox links",
	}
}

// Order runs the wrapper last so it sees the final <picture> elements.
func (p *LightboxPlugin) Order() int { return 30 }

// OnPageContent implements plugin.PageContentHook.
func (p *LightboxPlugin) OnPageContent(pc *plugin.PluginContext, pg *page.Page, content string) (string, bool, error) {
	if !strings.Contains(content, "<img") {
		return "", false, nil
	}
	return rewrite(content, func(f *fragment) int {
		n := 0
		for _, img := range f.elements(atom.Img) {
			if hasClass(img, OptOutClass) || hasAncestor(img, atom.A) {
				continue
			}
			src, ok := source(pc, pg, img)
			if !ok {
				continue
			}
			target := img
			if img.Parent != nil && img.Parent.DataAtom == atom.Picture {
				target = img.Parent
			}
			wrap(target, element(atom.A,
				attr("class", "glightbox"),
				attr("href", src),
				attr("data-type", "image"),
				attr("data-width", "auto"),
				attr("data-height", "auto"),
				attr("data-desc-position", "bottom")))
			p.recorder.IncRewrite(LightboxPluginName)
			n++
		}
		return n
	})
}
