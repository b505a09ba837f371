package csvsource

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
)

// RowError error de una celda concreta; errors.Is sigue encontrando el sentinel de dominio.
type RowError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: columna %q valor %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

var errEmptyDate = errors.New("fecha vacía")

// ParseNumber convierte texto con separador de miles (coma) a decimal. Celda vacía = cero.
func ParseNumber(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: número %q", domain.ErrMalformedInput, s)
	}
	return d, nil
}

// ParseTimestamp interpreta StockChangeDateTime con el layout configurado (día/mes/año hora:min:seg).
func ParseTimestamp(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrMalformedInput, errEmptyDate)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q: %v", domain.ErrMalformedInput, s, err)
	}
	return t, nil
}
