package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
)

// WriteXML escribe el resumen como <StockSummary> con un <Position> por (SKU, bodega).
func WriteXML(w io.Writer, res *valuation.Result) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("StockSummary")
	root.CreateAttr("runId", res.RunID)
	if !res.FinishedAt.IsZero() {
		root.CreateAttr("valuedAt", res.FinishedAt.UTC().Format(time.RFC3339))
	}
	root.CreateAttr("positions", strconv.Itoa(len(res.Rows)))

	for _, r := range res.Rows {
		pos := root.CreateElement("Position")
		pos.CreateAttr(Header[0], r.SKU)
		pos.CreateAttr(Header[1], r.Location)
		pos.CreateAttr(Header[2], r.FinalStockLevel.String())
		pos.CreateAttr(Header[3], r.FinalStockValue.String())
		pos.CreateAttr(Header[4], r.PurchasePrice.String())
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}
