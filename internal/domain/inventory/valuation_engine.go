package inventory

import (
	"fmt"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Outcome resultado de aplicar un movimiento a su posición.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeSkipped         // "Imported from file"
	OutcomeDropped         // precio de compra negativo, ninguna regla aplica
)

// String devuelve el nombre del resultado.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDropped:
		return "dropped"
	default:
		return "applied"
	}
}

// TraceEntry estado antes/después de un movimiento, para depuración.
type TraceEntry struct {
	Event   entity.StockChangeEvent
	Created bool // la posición se creó con este movimiento
	Before  entity.StockPosition
	After   entity.StockPosition
	Outcome Outcome
	Rule    string // regla aplicada: po, cost_basis, bootstrap, skip, none
}

// Tracer recibe el detalle de los movimientos cuyas claves habilita.
type Tracer interface {
	Enabled(key entity.PositionKey) bool
	Trace(entry TraceEntry)
}

// Option configura el Engine.
type Option func(*Engine)

// WithSnapshots siembra las posiciones que aparezcan en el inventario inicial.
func WithSnapshots(snapshots map[entity.PositionKey]entity.InitialSnapshot) Option {
	return func(e *Engine) { e.seeds = snapshots }
}

// WithStrict convierte los movimientos sin regla aplicable en error.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithTracer registra un tracer por movimiento.
func WithTracer(t Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// Engine motor de valuación: pliega movimientos ordenados cronológicamente sobre
// posiciones (SKU, bodega). No es seguro para uso concurrente; cada corrida crea el suyo.
type Engine struct {
	seeds     map[entity.PositionKey]entity.InitialSnapshot
	strict    bool
	tracer    Tracer
	positions map[entity.PositionKey]*entity.StockPosition
	order     []entity.PositionKey // orden de primera aparición
	skus      map[string]struct{}
	stats     entity.ValuationStats
}

// NewEngine construye un motor vacío.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		positions: make(map[entity.PositionKey]*entity.StockPosition),
		skus:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply aplica un movimiento a su posición. Los movimientos deben llegar en orden
// cronológico global. Sólo devuelve error en modo estricto.
func (e *Engine) Apply(ev entity.StockChangeEvent) (Outcome, error) {
	e.stats.Events++
	key := ev.Key()
	pos, created := e.lookup(key)

	tracing := e.tracer != nil && e.tracer.Enabled(key)
	var before entity.StockPosition
	if tracing {
		before = *pos
	}

	outcome, rule := e.apply(pos, ev)

	switch outcome {
	case OutcomeApplied:
		e.stats.Applied++
	case OutcomeSkipped:
		e.stats.Skipped++
	case OutcomeDropped:
		e.stats.Dropped++
	}

	if tracing {
		e.tracer.Trace(TraceEntry{
			Event:   ev,
			Created: created,
			Before:  before,
			After:   *pos,
			Outcome: outcome,
			Rule:    rule,
		})
	}

	if outcome == OutcomeDropped && e.strict {
		return outcome, fmt.Errorf("%w: sku=%s location=%s at=%s price=%s",
			domain.ErrNegativePurchasePrice, ev.SKU, ev.Location,
			ev.Timestamp.Format("2006-01-02 15:04:05"), pos.PurchasePrice.String())
	}
	return outcome, nil
}

// apply árbol de decisión por movimiento.
func (e *Engine) apply(pos *entity.StockPosition, ev entity.StockChangeEvent) (Outcome, string) {
	switch ev.Kind {
	case entity.SourceImported:
		return OutcomeSkipped, "skip"

	case entity.SourcePurchaseOrder:
		pos.Level = pos.Level.Add(ev.ChangeQuantity)
		pos.Value = pos.Value.Add(ev.ChangeValue)
		// con nivel cero se conserva el último costo conocido
		if price, ok := UnitCost(pos.Value, pos.Level); ok {
			pos.PurchasePrice = price
		}
		return OutcomeApplied, "po"
	}

	switch pos.PurchasePrice.Sign() {
	case 1:
		// consumo/ajuste valorizado al costo vigente; el costo no cambia
		pos.Level = pos.Level.Add(ev.ChangeQuantity)
		pos.Value = pos.Value.Add(ev.ChangeQuantity.Mul(pos.PurchasePrice))
		return OutcomeApplied, "cost_basis"
	case 0:
		// sin costo base: se toma el valor reportado por el movimiento
		pos.Level = pos.Level.Add(ev.ChangeQuantity)
		pos.Value = pos.Value.Add(ev.ChangeValue)
		if price, ok := UnitCost(pos.Value, pos.Level); ok {
			pos.PurchasePrice = price
		}
		return OutcomeApplied, "bootstrap"
	default:
		return OutcomeDropped, "none"
	}
}

// lookup resuelve la posición de la clave; la crea (o siembra) si no existe.
func (e *Engine) lookup(key entity.PositionKey) (*entity.StockPosition, bool) {
	if pos, ok := e.positions[key]; ok {
		return pos, false
	}
	var pos *entity.StockPosition
	if seed, ok := e.seeds[key]; ok {
		pos = SeedPosition(seed)
	} else {
		pos = &entity.StockPosition{Level: decimal.Zero, Value: decimal.Zero, PurchasePrice: decimal.Zero}
	}
	e.positions[key] = pos
	e.order = append(e.order, key)
	e.skus[key.SKU] = struct{}{}
	return pos, true
}

// Position devuelve una copia del estado actual de la clave.
func (e *Engine) Position(key entity.PositionKey) (entity.StockPosition, bool) {
	pos, ok := e.positions[key]
	if !ok {
		return entity.StockPosition{}, false
	}
	return *pos, true
}

// Rows devuelve el resumen final en orden de primera aparición.
func (e *Engine) Rows() []entity.ValuationRow {
	rows := make([]entity.ValuationRow, 0, len(e.order))
	for _, key := range e.order {
		pos := e.positions[key]
		rows = append(rows, entity.ValuationRow{
			SKU:             key.SKU,
			Location:        key.Location,
			FinalStockLevel: pos.Level,
			FinalStockValue: pos.Value,
			PurchasePrice:   pos.PurchasePrice,
		})
	}
	return rows
}

// Stats devuelve los contadores de la corrida.
func (e *Engine) Stats() entity.ValuationStats {
	s := e.stats
	s.UniqueSKUs = len(e.skus)
	s.Positions = len(e.order)
	return s
}

// Fold pliega la secuencia completa con un motor nuevo y devuelve el resumen.
// events debe venir ya ordenado (ver SortEvents).
func Fold(events []entity.StockChangeEvent, opts ...Option) ([]entity.ValuationRow, entity.ValuationStats, error) {
	e := NewEngine(opts...)
	for _, ev := range events {
		if _, err := e.Apply(ev); err != nil {
			return nil, e.Stats(), err
		}
	}
	return e.Rows(), e.Stats(), nil
}
