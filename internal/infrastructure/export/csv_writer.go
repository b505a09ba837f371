package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
)

// Header columnas del resumen final, en el orden del archivo.
var Header = []string{"ItemNumber", "Location", "FinalStockLevel", "FinalStockValue", "PurchasePrice"}

// WriteCSV escribe el resumen con cabecera. Los decimales se emiten con String()
// para que dos corridas sobre la misma entrada produzcan bytes idénticos.
func WriteCSV(w io.Writer, rows []entity.ValuationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(Header))
	for _, r := range rows {
		record[0] = r.SKU
		record[1] = r.Location
		record[2] = r.FinalStockLevel.String()
		record[3] = r.FinalStockValue.String()
		record[4] = r.PurchasePrice.String()
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s/%s: %w", r.SKU, r.Location, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
