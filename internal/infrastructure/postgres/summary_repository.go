package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/repository"
)

// ErrRunExists indica que el run_id ya fue persistido.
var ErrRunExists = errors.New("postgres: la corrida ya existe")

const summaryTable = "stock_valuation_summary"

// schemaSQL crea las tablas si no existen. position conserva el orden de salida del resumen.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS valuation_runs (
		run_id     TEXT PRIMARY KEY,
		valued_at  TIMESTAMPTZ NOT NULL,
		positions  INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS stock_valuation_summary (
		run_id            TEXT NOT NULL REFERENCES valuation_runs(run_id) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		item_number       TEXT NOT NULL,
		location          TEXT NOT NULL,
		final_stock_level NUMERIC NOT NULL,
		final_stock_value NUMERIC NOT NULL,
		purchase_price    NUMERIC NOT NULL,
		PRIMARY KEY (run_id, item_number, location)
	);`

var summaryColumns = []string{
	"run_id", "position", "item_number", "location",
	"final_stock_level", "final_stock_value", "purchase_price",
}

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

// SummaryRepo implementación sobre PostgreSQL (usable con pool o tx).
type SummaryRepo struct {
	q Querier
}

// NewSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSummaryRepository(q Querier) *SummaryRepo {
	return &SummaryRepo{q: q}
}

// EnsureSchema crea las tablas del resumen si no existen.
func (r *SummaryRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRun registra la cabecera de la corrida y copia todas sus filas con COPY.
// Para atomicidad llamar desde TxRunner.Run.
func (r *SummaryRepo) SaveRun(ctx context.Context, runID string, valuedAt time.Time, rows []entity.ValuationRow) error {
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO valuation_runs (run_id, valued_at, positions) VALUES ($1, $2, $3)`,
		runID, valuedAt, len(rows),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrRunExists, runID)
		}
		return fmt.Errorf("insert valuation run: %w", err)
	}

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{summaryTable}, summaryColumns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{runID, i, row.SKU, row.Location, row.FinalStockLevel, row.FinalStockValue, row.PurchasePrice}, nil
	}))
	if err != nil {
		return fmt.Errorf("copy summary rows: %w", err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy summary rows: %d de %d filas", n, len(rows))
	}
	return nil
}

// ListRun devuelve las filas de una corrida en su orden original; nil si no existe.
func (r *SummaryRepo) ListRun(ctx context.Context, runID string) ([]entity.ValuationRow, error) {
	query := `
		SELECT item_number, location, final_stock_level, final_stock_value, purchase_price
		FROM stock_valuation_summary WHERE run_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	defer rows.Close()

	var out []entity.ValuationRow
	for rows.Next() {
		var v entity.ValuationRow
		if err := rows.Scan(&v.SKU, &v.Location, &v.FinalStockLevel, &v.FinalStockValue, &v.PurchasePrice); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	return out, nil
}

// LatestRun devuelve el run_id más reciente, o "" si no hay corridas.
func (r *SummaryRepo) LatestRun(ctx context.Context) (string, error) {
	var runID string
	err := r.q.QueryRow(ctx, `SELECT run_id FROM valuation_runs ORDER BY valued_at DESC, created_at DESC LIMIT 1`).Scan(&runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest run: %w", err)
	}
	return runID, nil
}

// isUniqueViolation indica si err es un unique_violation (23505), p. ej. run_id repetido.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
