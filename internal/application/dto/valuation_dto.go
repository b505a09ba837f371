package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
)

// PositionDTO una fila del resumen final.
type PositionDTO struct {
	ItemNumber      string          `json:"item_number"`
	Location        string          `json:"location"`
	FinalStockLevel decimal.Decimal `json:"final_stock_level"`
	FinalStockValue decimal.Decimal `json:"final_stock_value"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
}

// StatsDTO contadores de la corrida.
type StatsDTO struct {
	Events     int `json:"events"`
	Applied    int `json:"applied"`
	Skipped    int `json:"skipped"` // "Imported from file"
	Dropped    int `json:"dropped"` // precio de compra negativo
	UniqueSKUs int `json:"unique_skus"`
	Positions  int `json:"positions"`
}

// ValuationResponse respuesta de POST /api/valuations.
type ValuationResponse struct {
	RunID     string        `json:"run_id"`
	ValuedAt  time.Time     `json:"valued_at"`
	Sources   []string      `json:"sources"`
	Stats     StatsDTO      `json:"stats"`
	Positions []PositionDTO `json:"positions"`
}

// RunPositionsResponse respuesta de GET /api/valuations/:runId.
type RunPositionsResponse struct {
	RunID     string        `json:"run_id"`
	Positions []PositionDTO `json:"positions"`
}

// ToPositionDTOs convierte las filas del resumen.
func ToPositionDTOs(rows []entity.ValuationRow) []PositionDTO {
	out := make([]PositionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, PositionDTO{
			ItemNumber:      r.SKU,
			Location:        r.Location,
			FinalStockLevel: r.FinalStockLevel,
			FinalStockValue: r.FinalStockValue,
			PurchasePrice:   r.PurchasePrice,
		})
	}
	return out
}

// ToValuationResponse arma la respuesta de una corrida.
func ToValuationResponse(res *valuation.Result) ValuationResponse {
	s := res.Stats
	return ValuationResponse{
		RunID:    res.RunID,
		ValuedAt: res.FinishedAt,
		Sources:  res.Sources,
		Stats: StatsDTO{
			Events: s.Events, Applied: s.Applied, Skipped: s.Skipped,
			Dropped: s.Dropped, UniqueSKUs: s.UniqueSKUs, Positions: s.Positions,
		},
		Positions: ToPositionDTOs(res.Rows),
	}
}
