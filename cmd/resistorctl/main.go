package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/dukerupert/resistor/internal/cli"
	"github.com/dukerupert/resistor/internal/client"
)

var CLI struct {
	URL string `help:"Base URL of the resistor server." default:"http://localhost:8080" env:"RESISTOR_URL"`

	Export    cli.ExportCmd    `cmd:"" help:"Export habits and events to a file."`
	Import    cli.ImportCmd    `cmd:"" help:"Import habits and events from a file."`
	Analytics cli.AnalyticsCmd `cmd:"" help:"Show today's and this week's resist/slip counts."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("resistorctl"),
		kong.Description("Resistor data helper"),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := kctx.Run(&cli.Context{
		Ctx:    ctx,
		Client: client.New(CLI.URL),
		Out:    os.Stdout,
	})
	kctx.FatalIfErrorf(err)
}
