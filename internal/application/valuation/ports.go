package valuation

import (
	"context"
	"io"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/repository"
)

// Input un flujo tabular con nombre (archivo en disco o parte multipart).
type Input struct {
	Name   string
	Reader io.Reader
}

// MovementLoader lee uno o más orígenes de movimientos y devuelve los eventos tipados
// en orden de lectura (Seq creciente). El orden cronológico lo establece el caso de uso.
type MovementLoader interface {
	LoadMovements(ctx context.Context, inputs []Input) ([]entity.StockChangeEvent, error)
}

// SnapshotLoader lee el inventario inicial.
type SnapshotLoader interface {
	LoadSnapshots(ctx context.Context, input Input) (map[entity.PositionKey]entity.InitialSnapshot, error)
}

// Exporter recibe el resultado de una corrida exitosa.
type Exporter interface {
	Export(ctx context.Context, result *Result) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Garantiza que una corrida se persiste completa o no se persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(summaryRepo repository.SummaryRepository) error) error
}
