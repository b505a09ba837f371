package csvsource

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-valuacion/internal/domain"
)

const utf8BOM = "\ufeff"

// columnIndex resuelve la posición de cada columna requerida en la cabecera.
func columnIndex(file string, header []string, required ...string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		name := strings.TrimSpace(h)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", file, domain.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return pos, nil
}

// field devuelve la celda de la columna o error si la fila es más corta que la cabecera.
func field(file string, line int, record []string, cols map[string]int, name string) (string, error) {
	i := cols[name]
	if i >= len(record) {
		return "", &RowError{File: file, Line: line, Column: name, Err: fmt.Errorf("%w: fila incompleta", domain.ErrMalformedInput)}
	}
	return record[i], nil
}
