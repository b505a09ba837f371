package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/csvsource"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/export"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/postgres"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "procesa los archivos de movimientos y escribe el resumen final",
		ArgsUsage: "[movimientos.csv ...]",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "movements",
				Aliases: []string{"m"},
				Usage:   "CSV de movimientos; repetir para varios archivos (sobrescribe MOVEMENTS_FILES)",
			},
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "CSV de inventario inicial",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "archivo del resumen",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "formato del resumen: csv o xml",
			},
			&cli.StringFlag{
				Name:  "pdf",
				Usage: "generar además un reporte PDF en esta ruta",
			},
		}, commonFlags()...),
		Action: runValuation,
	}
}

func runValuation(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// argumentos posicionales se suman a los archivos configurados
	cfg.Input.MovementsFiles = append(cfg.Input.MovementsFiles, c.Args().Slice()...)
	if len(cfg.Input.MovementsFiles) == 0 {
		return fmt.Errorf("%w: indicar --movements o MOVEMENTS_FILES", domain.ErrNoInput)
	}

	log := newLogger(cfg)
	log.Info().Str("app", cfg.App.Name).Strs("movements", cfg.Input.MovementsFiles).Msg("iniciando valuación")

	var files []*os.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	open := func(path string) (valuation.Input, error) {
		f, err := os.Open(path)
		if err != nil {
			return valuation.Input{}, fmt.Errorf("%w: %v", domain.ErrNoInput, err)
		}
		files = append(files, f)
		return valuation.Input{Name: path, Reader: f}, nil
	}

	var req valuation.Request
	for _, path := range cfg.Input.MovementsFiles {
		in, err := open(path)
		if err != nil {
			return err
		}
		req.Movements = append(req.Movements, in)
	}
	if cfg.Input.SnapshotFile != "" {
		in, err := open(cfg.Input.SnapshotFile)
		if err != nil {
			return err
		}
		req.Snapshot = &in
	}

	fileExp, err := export.NewFileExporter(cfg.Output.File, cfg.Output.Format, log)
	if err != nil {
		return err
	}
	exporters := []valuation.Exporter{fileExp}
	if cfg.Output.PDFFile != "" {
		exporters = append(exporters, pdf.NewReportExporter(cfg.Output.PDFFile, pdf.NewReportGenerator(cfg.App.Name), log))
	}
	if c.Bool("db") {
		pool, err := openDB(c.Context, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		exporters = append(exporters, valuation.NewRepositoryExporter(postgres.NewTxRunner(pool)))
	}

	opts := readerOptions(cfg)
	uc := valuation.NewRunUseCase(
		csvsource.NewMovementReader(opts, log),
		csvsource.NewSnapshotReader(opts, log),
		valuationOptions(cfg),
		log,
		exporters...,
	)
	res, err := uc.Execute(c.Context, req)
	if err != nil {
		log.Error().Err(err).Msg("valuación fallida")
		return err
	}

	fmt.Fprintf(c.App.Writer, "Run: %s\nTotal unique SKUs: %d\nTotal locations: %d\nOutput: %s\n",
		res.RunID, res.Stats.UniqueSKUs, res.Stats.Positions, cfg.Output.File)
	return nil
}
