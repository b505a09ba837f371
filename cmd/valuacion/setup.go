package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/csvsource"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-valuacion/pkg/config"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// commonFlags flags compartidos por run y serve. Cada comando recibe instancias propias.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "abortar si un movimiento llega con precio de compra negativo (sobrescribe VALUATION_STRICT)",
		},
		&cli.StringFlag{
			Name:  "trace-sku",
			Usage: "registrar en debug el detalle de cada movimiento de este SKU",
		},
		&cli.StringFlag{
			Name:  "trace-location",
			Usage: "limitar la traza a una bodega (vacío = todas)",
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "filas por lote durante la lectura",
		},
		&cli.StringFlag{
			Name:  "date-layout",
			Usage: "layout Go de StockChangeDateTime",
		},
		&cli.StringFlag{
			Name:  "encoding",
			Usage: "codificación de los CSV: utf-8, latin1, windows-1252",
		},
		&cli.BoolFlag{
			Name:  "db",
			Usage: "persistir cada corrida en PostgreSQL (requiere DATABASE_URL o DB_HOST)",
		},
	}
}

// loadConfig lee la configuración y aplica encima los flags presentes.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("log-level") {
		cfg.App.LogLevel = c.String("log-level")
	}
	if c.IsSet("strict") {
		cfg.Valuation.Strict = c.Bool("strict")
	}
	if c.IsSet("trace-sku") {
		cfg.Valuation.TraceSKU = c.String("trace-sku")
	}
	if c.IsSet("trace-location") {
		cfg.Valuation.TraceLocation = c.String("trace-location")
	}
	if c.IsSet("chunk-size") {
		cfg.Input.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("date-layout") {
		cfg.Input.DateLayout = c.String("date-layout")
	}
	if c.IsSet("encoding") {
		cfg.Input.Encoding = c.String("encoding")
	}
	if c.IsSet("movements") {
		cfg.Input.MovementsFiles = c.StringSlice("movements")
	}
	if c.IsSet("snapshot") {
		cfg.Input.SnapshotFile = c.String("snapshot")
	}
	if c.IsSet("output") {
		cfg.Output.File = c.String("output")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("pdf") {
		cfg.Output.PDFFile = c.String("pdf")
	}
	if c.IsSet("host") {
		cfg.HTTP.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.HTTP.Port = c.Int("port")
	}
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
}

func readerOptions(cfg *config.Config) csvsource.Options {
	return csvsource.Options{
		ChunkSize:  cfg.Input.ChunkSize,
		DateLayout: cfg.Input.DateLayout,
		Encoding:   cfg.Input.Encoding,
	}
}

func valuationOptions(cfg *config.Config) valuation.Options {
	return valuation.Options{
		Strict:        cfg.Valuation.Strict,
		TraceSKU:      cfg.Valuation.TraceSKU,
		TraceLocation: cfg.Valuation.TraceLocation,
	}
}

// openDB abre el pool y crea el esquema del resumen si hace falta.
func openDB(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	if !cfg.DB.Enabled() {
		return nil, fmt.Errorf("--db requiere DATABASE_URL o DB_HOST")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.NewSummaryRepository(pool).EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("persistencia en PostgreSQL habilitada")
	return pool, nil
}
