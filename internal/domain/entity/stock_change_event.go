package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind clasificación cerrada del origen de un movimiento (se resuelve una vez al normalizar).
type SourceKind int

const (
	SourceAdjustment    SourceKind = iota // ajuste / consumo / venta: todo lo que no es PO
	SourcePurchaseOrder                   // orden de compra: fija o actualiza el costo unitario
	SourceImported                        // "Imported from file": se descarta
)

// String devuelve el nombre del tipo de origen.
func (k SourceKind) String() string {
	switch k {
	case SourcePurchaseOrder:
		return "PURCHASE_ORDER"
	case SourceImported:
		return "IMPORTED"
	default:
		return "ADJUSTMENT"
	}
}

// StockChangeEvent representa una fila del libro de movimientos de stock, ya tipada.
type StockChangeEvent struct {
	SKU            string
	Location       string
	Timestamp      time.Time
	ChangeQuantity decimal.Decimal // delta con signo de unidades
	ChangeValue    decimal.Decimal // delta con signo de valor; sólo se usa en PO o sin costo base
	ChangeSource   string          // texto original
	Kind           SourceKind
	Seq            int // orden de lectura global; desempata timestamps iguales
}

// Key devuelve la clave (SKU, bodega) del movimiento.
func (e StockChangeEvent) Key() PositionKey {
	return PositionKey{SKU: e.SKU, Location: e.Location}
}
