package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
)

// SummaryRepository define el puerto de persistencia para el resumen plano de una corrida.
type SummaryRepository interface {
	SaveRun(ctx context.Context, runID string, valuedAt time.Time, rows []entity.ValuationRow) error
	ListRun(ctx context.Context, runID string) ([]entity.ValuationRow, error)
	LatestRun(ctx context.Context) (string, error)
}
