package inventory

import (
	"strings"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
)

// Marcadores del texto ChangeSource (sensibles a mayúsculas).
const (
	markerImported      = "Imported from file"
	markerPurchaseOrder = "PO"
)

// ClassifySource resuelve el texto libre del origen a un SourceKind.
// "Imported from file" tiene prioridad sobre "PO".
func ClassifySource(source string) entity.SourceKind {
	switch {
	case strings.Contains(source, markerImported):
		return entity.SourceImported
	case strings.Contains(source, markerPurchaseOrder):
		return entity.SourcePurchaseOrder
	default:
		return entity.SourceAdjustment
	}
}
