package entity

import "github.com/shopspring/decimal"

// PositionKey identifica una posición de stock: un SKU en una bodega.
type PositionKey struct {
	SKU      string
	Location string
}

// StockPosition estado acumulado de una posición (cantidad, valor y costo promedio).
// PurchasePrice = Value / Level cuando Level != 0; si no, conserva el último valor calculado.
type StockPosition struct {
	Level         decimal.Decimal
	Value         decimal.Decimal
	PurchasePrice decimal.Decimal
}

// InitialSnapshot registro del inventario inicial usado para sembrar posiciones.
type InitialSnapshot struct {
	SKU                  string
	Location             string
	Level                decimal.Decimal
	Value                decimal.Decimal
	DefaultPurchasePrice decimal.Decimal // respaldo cuando el costo calculado sería cero o indefinido
}

// Key devuelve la clave de la posición sembrada.
func (s InitialSnapshot) Key() PositionKey {
	return PositionKey{SKU: s.SKU, Location: s.Location}
}
