package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// Columnas del inventario inicial.
const (
	ColSnapshotSKU      = "SKU"
	ColSnapshotLocation = "Stock Location"
	ColSnapshotLevel    = "Stock level at location"
	ColSnapshotValue    = "Stock value at location"
	ColSnapshotPrice    = "Purchase Price"
)

var snapshotColumns = []string{ColSnapshotSKU, ColSnapshotLocation, ColSnapshotLevel, ColSnapshotValue, ColSnapshotPrice}

var _ valuation.SnapshotLoader = (*SnapshotReader)(nil)

// SnapshotReader lee el inventario inicial por (SKU, bodega).
type SnapshotReader struct {
	opts Options
	log  *logger.Logger
}

// NewSnapshotReader construye el lector.
func NewSnapshotReader(opts Options, log *logger.Logger) *SnapshotReader {
	return &SnapshotReader{opts: opts, log: log}
}

// LoadSnapshots lee el archivo completo; si una clave se repite prevalece la última fila.
func (r *SnapshotReader) LoadSnapshots(ctx context.Context, in valuation.Input) (map[entity.PositionKey]entity.InitialSnapshot, error) {
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
	cols, err := columnIndex(in.Name, header, snapshotColumns...)
	if err != nil {
		return nil, err
	}

	out := make(map[entity.PositionKey]entity.InitialSnapshot)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", in.Name, domain.ErrMalformedInput, err)
		}
		line, _ := cr.FieldPos(0)
		snap, err := toSnapshot(in.Name, line, record, cols)
		if err != nil {
			return nil, err
		}
		if _, dup := out[snap.Key()]; dup {
			r.log.Warn().Str("file", in.Name).Int("line", line).
				Str("sku", snap.SKU).Str("location", snap.Location).
				Msg("clave repetida en inventario inicial; se usa la última fila")
		}
		out[snap.Key()] = snap
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.log.Info().Str("file", in.Name).Int("positions", len(out)).Msg("inventario inicial leído")
	return out, nil
}

func toSnapshot(file string, line int, record []string, cols map[string]int) (entity.InitialSnapshot, error) {
	var s entity.InitialSnapshot
	get := func(name string) (string, error) { return field(file, line, record, cols, name) }

	var err error
	if s.SKU, err = get(ColSnapshotSKU); err != nil {
		return s, err
	}
	if s.Location, err = get(ColSnapshotLocation); err != nil {
		return s, err
	}
	numbers := []struct {
		col string
		dst *decimal.Decimal
	}{
		{ColSnapshotLevel, &s.Level},
		{ColSnapshotValue, &s.Value},
		{ColSnapshotPrice, &s.DefaultPurchasePrice},
	}
	for _, n := range numbers {
		raw, err := get(n.col)
		if err != nil {
			return s, err
		}
		if *n.dst, err = ParseNumber(raw); err != nil {
			return s, &RowError{File: file, Line: line, Column: n.col, Value: raw, Err: err}
		}
	}
	return s, nil
}
