package social

import (
	"image"
	"image/color"
	"time"

	"git.home.luguber.info/inful/docplugins/internal/config"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
)

// Result describes a card returned by Generator.Card.
type Result struct {
	Path        string
	Fingerprint string
	Layout      string
	CacheHit    bool
}

// Generator renders cards through the cache. It is safe for concurrent use.
type Generator struct {
	assets   func() (*Assets, error)
	cache    *Cache
	recorder metrics.Recorder
}

// NewGenerator creates a generator. assets is called by every render and must
// return the same shared Assets each time (see NewAssetLoader).
func NewGenerator(assets func() (*Assets, error), cache *Cache, recorder metrics.Recorder) *Generator {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{assets: assets, cache: cache, recorder: recorder}
}

// NewGeneratorFromConfig wires the asset loader and cache described by cfg.
func NewGeneratorFromConfig(cfg *config.Config, recorder metrics.Recorder) (*Generator, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewGenerator(NewAssetLoader(opts), NewCache(cfg.Path(cfg.Social.CacheDir)), recorder), nil
}

// OptionsFromConfig resolves asset paths and colors from the social section.
func OptionsFromConfig(cfg *config.Config) (AssetOptions, error) {
	s := cfg.Social
	opts := AssetOptions{
		Background:   cfg.Path(s.Background),
		Logo:         cfg.Path(s.Logo),
		RegularFont:  cfg.Path(s.Fonts.Regular),
		SemiBoldFont: cfg.Path(s.Fonts.SemiBold),
	}
	for _, c := range []struct {
		field string
		value string
		dst   *color.Color
	}{
		{"social.background_color", s.BackgroundColor, &opts.BackgroundColor},
		{"social.colors.text", s.Colors.Text, &opts.TextColor},
		{"social.colors.description", s.Colors.Description, &opts.DescColor},
	} {
		col, err := config.ParseHexColor(c.value)
		if err != nil {
			return AssetOptions{}, errors.ConfigError("invalid color").
				WithCause(err).WithContext("field", c.field).Build()
		}
		*c.dst = col
	}
	return opts, nil
}

// Preload starts loading the shared assets in the background.
func (g *Generator) Preload() {
	go func() { _, _ = g.assets() }()
}

// Card returns the cached card for pc, rendering it on a miss.
func (g *Generator) Card(pc PageContext) (Result, error) {
	renderer := RendererFor(pc)
	res := Result{
		Fingerprint: Fingerprint(pc.SiteName, pc.Title, pc.Description),
		Layout:      renderer.Layout(),
	}

	path, hit, err := g.cache.GetOrRender(pc, func() (image.Image, error) {
		a, err := g.assets()
		if err != nil {
			return nil, err
		}
		start := time.Now()
		img, err := renderer.Render(a, pc)
		if err != nil {
			return nil, err
		}
		g.recorder.IncCardRender(res.Layout)
		g.recorder.ObserveRenderDuration(res.Layout, time.Since(start))
		return img, nil
	})
	if err != nil {
		return Result{}, err
	}
	g.recorder.IncCacheResult(hit)

	res.Path = path
	res.CacheHit = hit
	return res, nil
}
