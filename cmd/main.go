package main

import (
	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fusionls"),
		kong.Description("Go to definition for Neos Fusion"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type CLI struct {
	Lsp     LspCmd     `cmd:"" help:"Run the LSP server."`
	Define  DefineCmd  `cmd:"" help:"Find the declaration of the prototype at a position." aliases:"def"`
	Init    InitCmd    `cmd:"" help:"Write a default fusion.toml."`
	Version VersionCmd `cmd:"" help:"Show version."`
}
