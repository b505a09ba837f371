// Package pdf genera el reporte imprimible del resumen de valuación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Run ID     │  Fecha de valuación           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADÍSTICAS: movimientos / aplicados / omitidos / SKUs    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Bodega | Nivel | Valor | Precio compra         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor total del inventario                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/export"
	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportGenerator construye el reporte PDF con Maroto v2.
type ReportGenerator struct {
	title string
}

// NewReportGenerator construye el generador; title aparece en el encabezado y en los metadatos.
func NewReportGenerator(title string) *ReportGenerator {
	return &ReportGenerator{title: nonEmpty(title, "Valuación de inventario")}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) Generate(res *valuation.Result) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(res.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(res.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(res.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + run id (izq) y fecha de valuación (der).
func headerRow(title string, res *valuation.Result) core.Row {
	fecha := "—"
	if !res.FinishedAt.IsZero() {
		fecha = res.FinishedAt.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Corrida: "+res.RunID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("COSTO PROMEDIO MÓVIL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// statsRow: contadores de la corrida.
func statsRow(s entity.ValuationStats) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ESTADÍSTICAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf(
				"Movimientos: %d   |   Aplicados: %d   |   Omitidos: %d   |   Descartados: %d   |   SKUs: %d   |   Posiciones: %d",
				s.Events, s.Applied, s.Skipped, s.Dropped, s.UniqueSKUs, s.Positions,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de posiciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("SKU", 3, align.Left),
		h("Bodega", 3, align.Left),
		h("Nivel", 2, align.Right),
		h("Valor", 2, align.Right),
		h("Precio compra", 2, align.Right),
	)
}

// tableDetailRows: una fila por (SKU, bodega).
func tableDetailRows(rows []entity.ValuationRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, r := range rows {
		result = append(result, row.New(6).Add(
			cell(r.SKU, 3, align.Left),
			cell(r.Location, 3, align.Left),
			cell(formatAmount(r.FinalStockLevel, 2), 2, align.Right),
			cell(formatAmount(r.FinalStockValue, 2), 2, align.Right),
			cell(formatAmount(r.PurchasePrice, 4), 2, align.Right),
		))
	}
	return result
}

// totalsRow: valor total del inventario.
func totalsRow(rows []entity.ValuationRow) core.Row {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.FinalStockValue)
	}
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(formatAmount(total, 2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── Exporter ──────────────────────────────────────────────────────────────────

var _ valuation.Exporter = (*ReportExporter)(nil)

// ReportExporter escribe el reporte PDF de cada corrida en una ruta fija.
type ReportExporter struct {
	path string
	gen  *ReportGenerator
	log  *logger.Logger
}

// NewReportExporter construye el exportador.
func NewReportExporter(path string, gen *ReportGenerator, log *logger.Logger) *ReportExporter {
	return &ReportExporter{path: path, gen: gen, log: log}
}

// Export genera el PDF en memoria y lo escribe completo.
func (e *ReportExporter) Export(_ context.Context, res *valuation.Result) error {
	doc, err := e.gen.Generate(res)
	if err != nil {
		return err
	}
	err = export.WriteFileAtomic(e.path, func(w io.Writer) error {
		_, err := w.Write(doc)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info().Str("file", e.path).Int("bytes", len(doc)).Msg("reporte pdf generado")
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatAmount redondea a places decimales e inserta comas de miles.
// Ej: 1234567.891 → "1,234,567.89", -1500 → "-1,500.00"
func formatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	return sign + out
}

// groupThousands inserta comas de miles en un string de dígitos.
// Ej: "25000" → "25,000", "1000000" → "1,000,000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
