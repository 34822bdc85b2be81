package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pubgen"),
		kong.Description("pubgen - a static blog generator for directive-annotated HTML pages"),
		kong.UsageOnError(),
		kong.Vars{"version": "pubgen " + version},
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
