package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/inventory"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// Columnas del export de movimientos.
const (
	ColItemNumber  = "ItemNumber"
	ColLocation    = "Location"
	ColChangeQTY   = "ChangeQTY"
	ColChangeValue = "ChangeValue"
	ColSource      = "ChangeSource"
	ColDateTime    = "StockChangeDateTime"
)

var movementColumns = []string{ColItemNumber, ColLocation, ColChangeQTY, ColChangeValue, ColSource, ColDateTime}

var _ valuation.MovementLoader = (*MovementReader)(nil)

// Options parámetros de lectura comunes a los lectores CSV.
type Options struct {
	ChunkSize  int
	DateLayout string
	Encoding   string
}

// MovementReader lee exports de movimientos de stock por lotes de ChunkSize filas.
type MovementReader struct {
	opts Options
	log  *logger.Logger
}

// NewMovementReader construye el lector.
func NewMovementReader(opts Options, log *logger.Logger) *MovementReader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 10000
	}
	return &MovementReader{opts: opts, log: log}
}

// LoadMovements lee los orígenes en el orden dado. Cualquier celda mal formada aborta la lectura.
func (r *MovementReader) LoadMovements(ctx context.Context, inputs []valuation.Input) ([]entity.StockChangeEvent, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoInput
	}
	var events []entity.StockChangeEvent
	for _, in := range inputs {
		var err error
		events, err = r.readOne(ctx, in, events)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *MovementReader) readOne(ctx context.Context, in valuation.Input, events []entity.StockChangeEvent) ([]entity.StockChangeEvent, error) {
	src, err := decodingReader(in.Reader, r.opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w: archivo vacío", in.Name, domain.ErrMissingColumn)
		}
		return nil, fmt.Errorf("%s: leer cabecera: %w", in.Name, err)
	}
	cols, err := columnIndex(in.Name, header, movementColumns...)
	if err != nil {
		return nil, err
	}

	batch := make([]entity.StockChangeEvent, 0, r.opts.ChunkSize)
	chunks, rows := 0, 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		events = append(events, batch...)
		chunks++
		r.log.Debug().Str("file", in.Name).Int("chunk", chunks).Int("rows", len(batch)).Msg("lote de movimientos leído")
		batch = batch[:0]
		return ctx.Err()
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", in.Name, domain.ErrMalformedInput, err)
		}
		line, _ := cr.FieldPos(0)
		ev, err := r.toEvent(in.Name, line, record, cols)
		if err != nil {
			return nil, err
		}
		ev.Seq = len(events) + len(batch)
		batch = append(batch, ev)
		rows++
		if len(batch) == r.opts.ChunkSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	r.log.Info().Str("file", in.Name).Int("rows", rows).Int("chunks", chunks).Msg("archivo de movimientos leído")
	return events, nil
}

func (r *MovementReader) toEvent(file string, line int, record []string, cols map[string]int) (entity.StockChangeEvent, error) {
	var ev entity.StockChangeEvent
	get := func(name string) (string, error) { return field(file, line, record, cols, name) }

	var err error
	if ev.SKU, err = get(ColItemNumber); err != nil {
		return ev, err
	}
	if ev.Location, err = get(ColLocation); err != nil {
		return ev, err
	}
	if ev.ChangeSource, err = get(ColSource); err != nil {
		return ev, err
	}
	ev.Kind = inventory.ClassifySource(ev.ChangeSource)

	raw, err := get(ColChangeQTY)
	if err != nil {
		return ev, err
	}
	if ev.ChangeQuantity, err = ParseNumber(raw); err != nil {
		return ev, &RowError{File: file, Line: line, Column: ColChangeQTY, Value: raw, Err: err}
	}
	if raw, err = get(ColChangeValue); err != nil {
		return ev, err
	}
	if ev.ChangeValue, err = ParseNumber(raw); err != nil {
		return ev, &RowError{File: file, Line: line, Column: ColChangeValue, Value: raw, Err: err}
	}
	if raw, err = get(ColDateTime); err != nil {
		return ev, err
	}
	if ev.Timestamp, err = ParseTimestamp(raw, r.opts.DateLayout); err != nil {
		return ev, &RowError{File: file, Line: line, Column: ColDateTime, Value: raw, Err: err}
	}
	return ev, nil
}
