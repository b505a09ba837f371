package inventory

import (
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UnitCost implementa el costo promedio ponderado de una posición (servicio de dominio).
// CostoUnitario = ValorAcumulado / CantidadAcumulada. ok=false si la cantidad es cero:
// el llamador conserva el último costo conocido.
func UnitCost(value, level decimal.Decimal) (cost decimal.Decimal, ok bool) {
	if level.IsZero() {
		return decimal.Zero, false
	}
	return value.Div(level), true
}

// SeedPosition construye la posición inicial a partir del inventario inicial.
// Si el costo calculado es cero o la cantidad es cero se usa DefaultPurchasePrice.
func SeedPosition(s entity.InitialSnapshot) *entity.StockPosition {
	price, ok := UnitCost(s.Value, s.Level)
	if !ok || price.IsZero() {
		price = s.DefaultPurchasePrice
	}
	return &entity.StockPosition{
		Level:         s.Level,
		Value:         s.Value,
		PurchasePrice: price,
	}
}
