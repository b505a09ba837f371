package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "valuacion"
	app.Version = version
	app.Usage = "valoriza el inventario por costo promedio móvil a partir del libro de movimientos"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "nivel de log: trace, debug, info, warn, error (sobrescribe LOG_LEVEL)",
		},
	}
	app.Commands = []*cli.Command{
		runCommand(),
		serveCommand(),
	}
	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
