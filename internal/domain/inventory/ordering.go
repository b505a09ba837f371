package inventory

import (
	"cmp"
	"slices"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
)

// SortEvents ordena in-place por timestamp ascendente; los empates conservan el orden
// de lectura (Seq). El plegado depende de este orden global entre todas las claves.
func SortEvents(events []entity.StockChangeEvent) {
	slices.SortStableFunc(events, func(a, b entity.StockChangeEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}
