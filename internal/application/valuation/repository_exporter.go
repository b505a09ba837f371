package valuation

import (
	"context"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/repository"
)

var _ Exporter = (*RepositoryExporter)(nil)

// RepositoryExporter persiste el resumen de la corrida en una sola transacción.
type RepositoryExporter struct {
	tx TxRunner
}

// NewRepositoryExporter construye el exportador.
func NewRepositoryExporter(tx TxRunner) *RepositoryExporter {
	return &RepositoryExporter{tx: tx}
}

// Export guarda todas las filas de la corrida.
func (e *RepositoryExporter) Export(ctx context.Context, res *Result) error {
	return e.tx.Run(ctx, func(summaryRepo repository.SummaryRepository) error {
		return summaryRepo.SaveRun(ctx, res.RunID, res.FinishedAt, res.Rows)
	})
}
