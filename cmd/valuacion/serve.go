package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/csvsource"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-valuacion/internal/interfaces/http"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "expone la valuación por HTTP (POST /api/valuations)",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "dirección de escucha (sobrescribe HTTP_HOST)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "puerto de escucha (sobrescribe HTTP_PORT)",
			},
		}, commonFlags()...),
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando servidor")

	var exporters []valuation.Exporter
	deps := httpRouter.RouterDeps{AppName: cfg.App.Name}
	if c.Bool("db") {
		pool, err := openDB(c.Context, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		exporters = append(exporters, valuation.NewRepositoryExporter(postgres.NewTxRunner(pool)))
		deps.Summary = postgres.NewSummaryRepository(pool)
	}

	opts := readerOptions(cfg)
	deps.Valuation = valuation.NewRunUseCase(
		csvsource.NewMovementReader(opts, log),
		csvsource.NewSnapshotReader(opts, log),
		valuationOptions(cfg),
		log,
		exporters...,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.MaxUploadMB << 20,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	httpRouter.Router(app, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		return err
	case <-c.Context.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
