package entity

import "github.com/shopspring/decimal"

// ValuationRow fila final del resumen de valuación (una por posición observada).
type ValuationRow struct {
	SKU             string
	Location        string
	FinalStockLevel decimal.Decimal
	FinalStockValue decimal.Decimal
	PurchasePrice   decimal.Decimal
}

// ValuationStats contadores de una corrida.
type ValuationStats struct {
	Events     int // movimientos leídos
	Applied    int // movimientos que mutaron una posición
	Skipped    int // "Imported from file"
	Dropped    int // sin regla aplicable (precio de compra negativo)
	UniqueSKUs int
	Positions  int // pares (SKU, bodega)
}
