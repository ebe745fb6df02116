package media

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

const (
	// VideoPluginName is the registry name of the video rewriter.
	VideoPluginName = "video"

	// VideoMarker is the alt text that marks an image as a video.
	VideoMarker = "type:video"

	// disableGlobal opts a single video out of the configured attributes.
	disableGlobal = "disable-global-config"
)

var videoFormats = []string{"webm", "mp4"}

// VideoPlugin turns images with alt="type:video" into players. Remote
// sources become <iframe> embeds, local ones <video> elements.
type VideoPlugin struct {
	plugin.BasePlugin
	cfg        config.VideoConfig
	compressed bool
	recorder   metrics.Recorder
}

// NewVideo creates the rewriter. With compressed set, local videos point at
// the webm and mp4 variants in the compressed asset tree.
func NewVideo(cfg config.VideoConfig, compressed bool, recorder metrics.Recorder) *VideoPlugin {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &VideoPlugin{cfg: cfg, compressed: compressed, recorder: recorder}
}

// Metadata implements plugin.Plugin.
func (p *VideoPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        VideoPluginName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeRewrite,
		Description: "Rewrites video-marked images to <video> or <iframe> players",
	}
}

// Order runs video first so the image rewriter never sees video markers.
func (p *VideoPlugin) Order() int { return 10 }

// OnPageContent implements plugin.PageContentHook.
func (p *VideoPlugin) OnPageContent(pc *plugin.PluginContext, pg *page.Page, content string) (string, bool, error) {
	if !strings.Contains(content, VideoMarker) {
		return "", false, nil
	}
	return rewrite(content, func(f *fragment) int {
		n := 0
		for _, img := range f.elements(atom.Img) {
			if alt, _ := getAttr(img, "alt"); alt != VideoMarker {
				continue
			}
			src, ok := source(pc, pg, img)
			if !ok {
				continue
			}
			target := img
			if soleChildOfParagraph(img) {
				target = img.Parent
			}
			replace(target, p.player(img, src))
			p.recorder.IncRewrite(VideoPluginName)
			n++
		}
		return n
	})
}

func (p *VideoPlugin) player(img *html.Node, src string) *html.Node {
	local := !strings.HasPrefix(src, "http")

	var el *html.Node
	if local {
		el = element(atom.Video)
		for _, ext := range videoFormats {
			s := src
			if p.compressed {
				s = trimExt(strings.ReplaceAll(s, "assets", "assets/target")) + "." + ext
			} else if path.Ext(s) != "."+ext {
				continue
			}
			el.AppendChild(element(atom.Source, attr("src", s), attr("type", "video/"+ext)))
		}
	} else {
		el = element(atom.Iframe, attr("src", src))
	}

	if !hasAttr(img, disableGlobal) {
		if p.cfg.Style != "" {
			setAttr(el, "style", p.cfg.Style)
		}
		if local {
			if p.cfg.Controls {
				setAttr(el, "controls", "")
			}
			if p.cfg.Autoplay {
				setAttr(el, "autoplay", "")
			}
		} else {
			setAttr(el, "frameborder", "0")
			setAttr(el, "allowfullscreen", "")
		}
	}
	copyAttrs(el, img, "src", disableGlobal)

	div := element(atom.Div, attr("class", "video-container"))
	div.AppendChild(el)
	return div
}

// soleChildOfParagraph reports whether n is the only content of a <p>. Such
// paragraphs are replaced by the player since a <div> cannot live inside <p>.
func soleChildOfParagraph(n *html.Node) bool {
	parent := n.Parent
	if parent == nil || parent.DataAtom != atom.P {
		return false
	}
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			continue
		}
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}
