package social

import (
	stderrors "errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/executor"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/frontmatter"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/markdown"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/page"
	"git.home.luguber.info/inful/docplugins/internal/plugin"
)

// PluginName is the registry name of the social card plugin.
const PluginName = "social"

// Plugin attaches a social card and the matching Open Graph and Twitter meta
// entries to every page. Cards render on a bounded pool while the build moves
// on to other pages; OnPostBuild waits for all of them.
type Plugin struct {
	plugin.BasePlugin

	recorder metrics.Recorder
	md       *markdown.Markdown

	gen     *Generator
	pool    *executor.Pool
	pending []*executor.Future[Result]
}

// New creates the plugin. The generator and pool are created per build in OnConfig.
func New(recorder metrics.Recorder) *Plugin {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Plugin{recorder: recorder, md: markdown.New()}
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        PluginName,
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeAsset,
		Description: "Renders social cards and adds og:/twitter: meta entries",
	}
}

// Validate implements plugin.Plugin.
func (p *Plugin) Validate(cfg *config.Config) error {
	if cfg.Social.Concurrency < 1 {
		return errors.ConfigError("social.concurrency must be at least 1").
			WithContext("value", cfg.Social.Concurrency).Build()
	}
	if _, err := OptionsFromConfig(cfg); err != nil {
		return err
	}
	return nil
}

// OnConfig starts loading the shared assets and creates the render pool.
func (p *Plugin) OnConfig(pc *plugin.PluginContext) error {
	gen, err := NewGeneratorFromConfig(pc.Config, p.recorder)
	if err != nil {
		return err
	}
	gen.Preload()
	p.gen = gen
	p.pool = executor.New(pc.Config.Social.Concurrency)
	p.pending = nil
	return nil
}

// OnPageMarkdown resolves the card inputs for pg, schedules the card and
// appends the meta entries pointing at it.
func (p *Plugin) OnPageMarkdown(pc *plugin.PluginContext, pg *page.Page) error {
	if p.pool == nil {
		return errors.InternalError("social plugin used before OnConfig").Build()
	}
	cfg := pc.Config

	title, description, err := pageText(pg, cfg.Site.Description)
	if err != nil {
		return err
	}

	header := ""
	if ref := p.md.Analyze(pg.Markdown, cfg.Social.HeaderMarker).HeaderImage; ref != "" {
		header = resolveHeader(cfg, pg.File, ref)
		if header == "" {
			pc.Logger.Debug("Ignoring remote header image", logfields.Page(pg.File.SrcPath), logfields.URL(ref))
		}
	}

	card := PageContext{
		SiteName:        cfg.Site.Name,
		Title:           title,
		Description:     description,
		HeaderImagePath: header,
	}
	dest := path.Join(cfg.Social.CardsDir, pg.File.Stem()+".png")
	target := filepath.Join(cfg.SiteDir(), filepath.FromSlash(dest))
	src := pg.File.SrcPath

	f := executor.Submit(p.pool, func() (Result, error) {
		res, err := p.gen.Card(card)
		if err != nil {
			return Result{}, err
		}
		if err := copyFile(res.Path, target); err != nil {
			return Result{}, err
		}
		pc.Logger.Debug("Social card ready",
			logfields.Page(src),
			logfields.Fingerprint(res.Fingerprint),
			logfields.CacheHit(res.CacheHit),
			logfields.Layout(res.Layout),
			logfields.Path(dest))
		return res, nil
	})
	p.pending = append(p.pending, f)

	if pg.Meta == nil {
		pg.Meta = frontmatter.Meta{}
	}
	appendMeta(pg.Meta, cfg.Site.URL, pg.File.URL(), dest, title, description)
	return nil
}

// OnPostBuild waits for every scheduled card. The first failure fails the build.
func (p *Plugin) OnPostBuild(pc *plugin.PluginContext) error {
	if p.pool == nil {
		return nil
	}
	err := p.pool.Wait()
	if err != nil {
		return err
	}
	written, hits := 0, 0
	for _, f := range p.pending {
		res, err := f.Get()
		if err != nil {
			continue
		}
		written++
		if res.CacheHit {
			hits++
		}
	}
	p.pending = nil
	pc.Logger.Info("Social cards written", logfields.Count(written), logfields.CacheHits(hits))
	return nil
}

// pageText returns the card title and description. An explicit front matter
// value wins; it must be a string.
func pageText(pg *page.Page, siteDescription string) (title, description string, err error) {
	title, ok, err := pg.Meta.String("title")
	if err != nil {
		return "", "", metaTypeError(pg, err)
	}
	if !ok {
		title = pg.Title
	}

	description, ok, err = pg.Meta.String("description")
	if err != nil {
		return "", "", metaTypeError(pg, err)
	}
	if !ok {
		description = siteDescription
	}
	return title, description, nil
}

func metaTypeError(pg *page.Page, err error) error {
	b := errors.ConfigError("front matter value must be text").
		WithCause(err).
		WithContext("page", pg.File.SrcPath)
	var te *frontmatter.TypeError
	if stderrors.As(err, &te) {
		b = b.WithContext("key", te.Key)
	}
	return b.Build()
}

// resolveHeader maps a header image reference to a file path. Relative
// references resolve against the page's directory, absolute ones against the
// docs directory. Remote URLs yield "".
func resolveHeader(cfg *config.Config, f page.File, ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "data:") {
		return ""
	}
	if strings.HasPrefix(ref, "/") {
		return filepath.Join(cfg.DocsDir(), filepath.FromSlash(ref))
	}
	return filepath.Join(cfg.DocsDir(), filepath.FromSlash(path.Dir(f.SrcPath)), filepath.FromSlash(ref))
}

// appendMeta adds the Open Graph and Twitter entries for a card.
func appendMeta(meta frontmatter.Meta, siteURL, pageURL, cardPath, title, description string) {
	image := "/" + cardPath
	if siteURL != "" {
		image = siteURL + cardPath
	}

	property := func(k, v string) {
		meta.AppendEntry("meta", map[string]string{"property": k, "content": v})
	}
	name := func(k, v string) {
		meta.AppendEntry("meta", map[string]string{"name": k, "content": v})
	}

	property("og:type", "website")
	property("og:title", title)
	property("og:description", description)
	property("og:image", image)
	property("og:image:type", "image/png")
	property("og:image:width", strconv.Itoa(CardWidth))
	property("og:image:height", strconv.Itoa(CardHeight))
	if siteURL != "" {
		property("og:url", siteURL+pageURL)
	}

	name("twitter:card", "summary_large_image")
	name("twitter:title", title)
	name("twitter:description", description)
	name("twitter:image", image)
}

func copyFile(src, dst string) error {
	fail := func(err error, msg string) error {
		return errors.WrapError(err, errors.CategoryFileSystem, msg).
			Fatal().WithContext("path", dst).Build()
	}

	in, err := os.Open(src)
	if err != nil {
		return fail(err, "open cached card")
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fail(err, "create card directory")
	}
	out, err := os.Create(dst)
	if err != nil {
		return fail(err, "create card file")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fail(err, "copy card")
	}
	if err := out.Close(); err != nil {
		return fail(err, "write card file")
	}
	return nil
}
