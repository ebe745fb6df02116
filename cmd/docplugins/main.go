package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docplugins/cmd/docplugins/commands"
	"git.home.luguber.info/inful/docplugins/internal/foundation/errors"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	global := &commands.Global{Logger: slog.Default()}

	ctx := kong.Parse(&cli,
		kong.Name("docplugins"),
		kong.Description("Static documentation builder with social cards and media rewriting."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Bind(global),
	)

	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
