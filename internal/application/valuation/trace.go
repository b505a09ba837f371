package valuation

import (
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/inventory"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// logTracer registra en debug el antes/después de cada movimiento de una posición.
// location vacío traza todas las bodegas del SKU.
type logTracer struct {
	log      *logger.Logger
	sku      string
	location string
}

var _ inventory.Tracer = (*logTracer)(nil)

func newLogTracer(log *logger.Logger, sku, location string) *logTracer {
	return &logTracer{log: log, sku: sku, location: location}
}

func (t *logTracer) Enabled(key entity.PositionKey) bool {
	return key.SKU == t.sku && (t.location == "" || key.Location == t.location)
}

func (t *logTracer) Trace(e inventory.TraceEntry) {
	t.log.Debug().
		Str("sku", e.Event.SKU).
		Str("location", e.Event.Location).
		Time("at", e.Event.Timestamp).
		Str("source", e.Event.ChangeSource).
		Str("kind", e.Event.Kind.String()).
		Str("change_qty", e.Event.ChangeQuantity.String()).
		Str("change_value", e.Event.ChangeValue.String()).
		Bool("created", e.Created).
		Str("rule", e.Rule).
		Str("outcome", e.Outcome.String()).
		Str("level_before", e.Before.Level.String()).
		Str("value_before", e.Before.Value.String()).
		Str("pp_before", e.Before.PurchasePrice.String()).
		Str("level_after", e.After.Level.String()).
		Str("value_after", e.After.Value.String()).
		Str("pp_after", e.After.PurchasePrice.String()).
		Msg("traza de movimiento")
}
