package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
	"git.home.luguber.info/inful/docplugins/internal/logfields"
	"git.home.luguber.info/inful/docplugins/internal/metrics"
	"git.home.luguber.info/inful/docplugins/internal/social"
)

// CardCmd renders one card through the configured cache and layouts.
type CardCmd struct {
	Title       string `required:"" help:"Card title"`
	Description string `help:"Card description (defaults to site.description)"`
	Header      string `type:"existingfile" help:"Header image; selects the header layout"`
	Output      string `short:"o" required:"" help:"Where to write the PNG"`
}

func (c *CardCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if c.Title == "" {
		return errors.ValidationError("card title must not be empty").Build()
	}

	gen, err := social.NewGeneratorFromConfig(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	desc := c.Description
	if desc == "" {
		desc = cfg.Site.Description
	}
	res, err := gen.Card(social.PageContext{
		SiteName:        cfg.Site.Name,
		Title:           c.Title,
		Description:     desc,
		HeaderImagePath: c.Header,
	})
	if err != nil {
		return err
	}
	if err := copyFile(res.Path, c.Output); err != nil {
		return err
	}

	g.Logger.Debug("Card written",
		logfields.Path(c.Output),
		logfields.Fingerprint(res.Fingerprint),
		logfields.Layout(res.Layout),
		logfields.CacheHit(res.CacheHit))
	fmt.Printf("Wrote %s (%s layout, cache hit: %t)\n", c.Output, res.Layout, res.CacheHit)
	return nil
}
