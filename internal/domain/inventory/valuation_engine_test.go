package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSKU      = "D-SAL-LAP"
	testLocation = "Sharjah Warehouse1"
)

var testKey = entity.PositionKey{SKU: testSKU, Location: testLocation}

var baseTime = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// event construye un movimiento clasificado a partir del texto de origen.
func event(minute int, source string, qty, value string) entity.StockChangeEvent {
	return entity.StockChangeEvent{
		SKU:            testSKU,
		Location:       testLocation,
		Timestamp:      baseTime.Add(time.Duration(minute) * time.Minute),
		ChangeQuantity: dec(qty),
		ChangeValue:    dec(value),
		ChangeSource:   source,
		Kind:           inventory.ClassifySource(source),
		Seq:            minute,
	}
}

func assertPosition(t *testing.T, pos entity.StockPosition, level, value, price string) {
	t.Helper()
	assert.Truef(t, dec(level).Equal(pos.Level), "level: esperado %s, obtenido %s", level, pos.Level)
	assert.Truef(t, dec(value).Equal(pos.Value), "value: esperado %s, obtenido %s", value, pos.Value)
	assert.Truef(t, dec(price).Equal(pos.PurchasePrice), "purchasePrice: esperado %s, obtenido %s", price, pos.PurchasePrice)
}

func position(t *testing.T, e *inventory.Engine) entity.StockPosition {
	t.Helper()
	pos, ok := e.Position(testKey)
	require.True(t, ok, "la posición debe existir")
	return pos
}

type recordingTracer struct {
	key     entity.PositionKey
	entries []inventory.TraceEntry
}

func (r *recordingTracer) Enabled(key entity.PositionKey) bool { return key == r.key }
func (r *recordingTracer) Trace(e inventory.TraceEntry)       { r.entries = append(r.entries, e) }

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de costo
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_OrdenCompraSobrePosicionVacia(t *testing.T) {
	e := inventory.NewEngine()

	out, err := e.Apply(event(0, "PO-1001 received", "10", "500"))
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeApplied, out)
	assertPosition(t, position(t, e), "10", "500", "50")
}

func TestEngine_AjusteConCostoBase(t *testing.T) {
	e := inventory.NewEngine()
	_, _ = e.Apply(event(0, "PO-1001", "10", "500"))

	// el valor informado se ignora: se valoriza al costo vigente
	_, err := e.Apply(event(1, "Sales Order SO-77", "-3", "-999"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "7", "350", "50")
}

func TestEngine_AjusteSinCostoBase(t *testing.T) {
	e := inventory.NewEngine()

	_, err := e.Apply(event(0, "Stock count", "5", "100"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "5", "100", "20")
}

func TestEngine_AjusteSinCostoBaseNivelCero(t *testing.T) {
	e := inventory.NewEngine()

	_, err := e.Apply(event(0, "Stock count", "0", "0"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "0", "0", "0")
}

func TestEngine_OrdenCompraNivelCeroConservaCosto(t *testing.T) {
	e := inventory.NewEngine()
	_, _ = e.Apply(event(0, "PO-1", "4", "80"))

	// devolución al proveedor que deja el nivel en cero: el costo no se reinicia
	_, err := e.Apply(event(1, "PO-1 return", "-4", "-80"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "0", "0", "20")
}

func TestEngine_OrdenCompraPromediaCosto(t *testing.T) {
	e := inventory.NewEngine()
	_, _ = e.Apply(event(0, "PO-1", "10", "100"))
	_, _ = e.Apply(event(1, "PO-2", "10", "300"))

	assertPosition(t, position(t, e), "20", "400", "20")
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla de descarte
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_ImportadoNoMuta(t *testing.T) {
	e := inventory.NewEngine()
	_, _ = e.Apply(event(0, "PO-9", "10", "500"))
	before := position(t, e)

	// contiene "PO" pero la regla de descarte tiene prioridad
	out, err := e.Apply(event(1, "Imported from file PO.csv", "1000", "1"))
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeSkipped, out)
	assert.Equal(t, before, position(t, e))
}

func TestEngine_ImportadoCreaPosicionVacia(t *testing.T) {
	e := inventory.NewEngine()

	out, err := e.Apply(event(0, "Imported from file", "7", "70"))
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeSkipped, out)
	assertPosition(t, position(t, e), "0", "0", "0")
	assert.Len(t, e.Rows(), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio de compra negativo
// ──────────────────────────────────────────────────────────────────────────────

func negativeCostEngine(t *testing.T, opts ...inventory.Option) *inventory.Engine {
	t.Helper()
	e := inventory.NewEngine(opts...)
	_, err := e.Apply(event(0, "PO-credit", "2", "-10"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "2", "-10", "-5")
	return e
}

func TestEngine_PrecioNegativoDescartaMovimiento(t *testing.T) {
	e := negativeCostEngine(t)

	out, err := e.Apply(event(1, "Adjustment", "5", "50"))
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeDropped, out)
	assertPosition(t, position(t, e), "2", "-10", "-5")
	assert.Equal(t, 1, e.Stats().Dropped)
}

func TestEngine_PrecioNegativoModoEstricto(t *testing.T) {
	e := negativeCostEngine(t, inventory.WithStrict(true))

	out, err := e.Apply(event(1, "Adjustment", "5", "50"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNegativePurchasePrice))
	assert.Equal(t, inventory.OutcomeDropped, out)
	assert.Contains(t, err.Error(), testSKU)
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_SemillaCalculaCosto(t *testing.T) {
	seeds := map[entity.PositionKey]entity.InitialSnapshot{
		testKey: {SKU: testSKU, Location: testLocation, Level: dec("4"), Value: dec("100"), DefaultPurchasePrice: dec("9")},
	}
	e := inventory.NewEngine(inventory.WithSnapshots(seeds))

	_, err := e.Apply(event(0, "Sale", "-1", "0"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "3", "75", "25")
}

func TestEngine_SemillaSinNivelUsaPrecioPorDefecto(t *testing.T) {
	seeds := map[entity.PositionKey]entity.InitialSnapshot{
		testKey: {SKU: testSKU, Location: testLocation, Level: dec("0"), Value: dec("0"), DefaultPurchasePrice: dec("7.5")},
	}
	e := inventory.NewEngine(inventory.WithSnapshots(seeds))

	_, err := e.Apply(event(0, "Imported from file", "1", "1"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "0", "0", "7.5")

	// con costo base sembrado, el ajuste se valoriza a 7.5
	_, err = e.Apply(event(1, "Count", "2", "1000"))
	require.NoError(t, err)
	assertPosition(t, position(t, e), "2", "15", "7.5")
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden, determinismo y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestFold_SensibleAlOrden(t *testing.T) {
	po := event(0, "PO-1", "10", "500")
	adj := event(1, "Count", "10", "100")

	inOrder, _, err := inventory.Fold([]entity.StockChangeEvent{po, adj})
	require.NoError(t, err)
	reversed, _, err := inventory.Fold([]entity.StockChangeEvent{adj, po})
	require.NoError(t, err)

	assert.True(t, dec("50").Equal(inOrder[0].PurchasePrice))
	assert.True(t, dec("30").Equal(reversed[0].PurchasePrice))
}

func TestFold_OrdenarAntesDePlegar(t *testing.T) {
	events := []entity.StockChangeEvent{
		event(5, "Count", "10", "100"),
		event(1, "PO-1", "10", "500"),
	}
	inventory.SortEvents(events)

	rows, _, err := inventory.Fold(events)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, dec("50").Equal(rows[0].PurchasePrice))
	assert.True(t, dec("1000").Equal(rows[0].FinalStockValue))
}

func TestFold_Determinista(t *testing.T) {
	events := []entity.StockChangeEvent{
		event(0, "PO-1", "3", "10"),
		event(1, "Sale", "-1", "0"),
		event(2, "PO-2", "5", "33"),
	}
	a, statsA, err := inventory.Fold(events)
	require.NoError(t, err)
	b, statsB, err := inventory.Fold(events)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, statsA, statsB)
}

func TestEngine_RowsEnOrdenDePrimeraAparicion(t *testing.T) {
	e := inventory.NewEngine()
	for i, k := range []entity.PositionKey{
		{SKU: "B", Location: "W1"},
		{SKU: "A", Location: "W2"},
		{SKU: "B", Location: "W1"},
		{SKU: "A", Location: "W1"},
	} {
		ev := event(i, "PO", "1", "1")
		ev.SKU, ev.Location = k.SKU, k.Location
		_, err := e.Apply(ev)
		require.NoError(t, err)
	}

	rows := e.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].SKU)
	assert.Equal(t, "W2", rows[1].Location)
	assert.Equal(t, "W1", rows[2].Location)

	stats := e.Stats()
	assert.Equal(t, 4, stats.Events)
	assert.Equal(t, 4, stats.Applied)
	assert.Equal(t, 2, stats.UniqueSKUs)
	assert.Equal(t, 3, stats.Positions)
}

func TestEngine_TracerSoloClaveFiltrada(t *testing.T) {
	tr := &recordingTracer{key: testKey}
	e := inventory.NewEngine(inventory.WithTracer(tr))

	other := event(0, "PO", "1", "1")
	other.SKU = "OTHER"
	_, _ = e.Apply(other)
	_, _ = e.Apply(event(1, "PO-5", "2", "10"))
	_, _ = e.Apply(event(2, "Imported from file", "2", "10"))

	require.Len(t, tr.entries, 2)
	first := tr.entries[0]
	assert.True(t, first.Created)
	assert.Equal(t, "po", first.Rule)
	assert.True(t, first.Before.Level.IsZero())
	assert.True(t, dec("5").Equal(first.After.PurchasePrice))
	assert.Equal(t, inventory.OutcomeSkipped, tr.entries[1].Outcome)
	assert.False(t, tr.entries[1].Created)
}
