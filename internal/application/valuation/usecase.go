package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/inventory"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// Request entrada de una corrida de valuación.
type Request struct {
	Movements []Input
	Snapshot  *Input // opcional
}

// Result resumen de una corrida exitosa.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []string
	Rows       []entity.ValuationRow
	Stats      entity.ValuationStats
}

// Options comportamiento del motor.
type Options struct {
	Strict        bool
	TraceSKU      string
	TraceLocation string
}

// RunUseCase reconstruye el costo promedio por (SKU, bodega) reproduciendo el libro de movimientos:
// lee inventario inicial y movimientos, ordena globalmente por fecha, pliega y exporta.
type RunUseCase struct {
	movements MovementLoader
	snapshots SnapshotLoader
	exporters []Exporter
	opts      Options
	log       *logger.Logger
	now       func() time.Time
}

// NewRunUseCase construye el caso de uso. snapshots puede ser nil si nunca se usan semillas.
func NewRunUseCase(movements MovementLoader, snapshots SnapshotLoader, opts Options, log *logger.Logger, exporters ...Exporter) *RunUseCase {
	return &RunUseCase{
		movements: movements,
		snapshots: snapshots,
		exporters: exporters,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// Execute ejecuta la corrida completa. Cualquier error de entrada aborta antes de exportar.
func (uc *RunUseCase) Execute(ctx context.Context, req Request) (*Result, error) {
	if len(req.Movements) == 0 {
		return nil, domain.ErrNoInput
	}
	res := &Result{RunID: uuid.New().String(), StartedAt: uc.now()}
	log := uc.log.WithRun(res.RunID)

	var engineOpts []inventory.Option
	if req.Snapshot != nil {
		if uc.snapshots == nil {
			return nil, fmt.Errorf("%w: inventario inicial sin lector configurado", domain.ErrInvalidInput)
		}
		seeds, err := uc.snapshots.LoadSnapshots(ctx, *req.Snapshot)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, inventory.WithSnapshots(seeds))
		log.Info().Int("positions", len(seeds)).Msg("posiciones sembradas desde inventario inicial")
	}

	events, err := uc.movements.LoadMovements(ctx, req.Movements)
	if err != nil {
		return nil, err
	}
	for _, in := range req.Movements {
		res.Sources = append(res.Sources, in.Name)
	}

	inventory.SortEvents(events)
	log.Info().Int("events", len(events)).Msg("movimientos ordenados por fecha")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engineOpts = append(engineOpts, inventory.WithStrict(uc.opts.Strict))
	if uc.opts.TraceSKU != "" {
		engineOpts = append(engineOpts, inventory.WithTracer(newLogTracer(log, uc.opts.TraceSKU, uc.opts.TraceLocation)))
	}

	engine := inventory.NewEngine(engineOpts...)
	for _, ev := range events {
		outcome, err := engine.Apply(ev)
		if err != nil {
			return nil, err
		}
		if outcome == inventory.OutcomeDropped {
			pos, _ := engine.Position(ev.Key())
			log.Warn().
				Str("sku", ev.SKU).Str("location", ev.Location).
				Time("at", ev.Timestamp).Str("source", ev.ChangeSource).
				Str("purchase_price", pos.PurchasePrice.String()).
				Msg("movimiento sin regla aplicable (precio de compra negativo); no se aplica")
		}
	}
	res.Rows = engine.Rows()
	res.Stats = engine.Stats()
	res.FinishedAt = uc.now()

	log.Info().
		Int("unique_skus", res.Stats.UniqueSKUs).
		Int("positions", res.Stats.Positions).
		Int("applied", res.Stats.Applied).
		Int("skipped", res.Stats.Skipped).
		Int("dropped", res.Stats.Dropped).
		Dur("duration", res.FinishedAt.Sub(res.StartedAt)).
		Msg("valuación completada")

	for _, exp := range uc.exporters {
		if err := exp.Export(ctx, res); err != nil {
			return nil, fmt.Errorf("exportar resultado: %w", err)
		}
	}
	return res, nil
}
