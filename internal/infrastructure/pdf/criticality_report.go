// Package pdf genera la versión imprimible del reporte de criticidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Unidad + umbrales   │  Fecha de generación         │
//	│  RESUMEN: Bloqueados / Pre-bloqueo                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BLOQUEADOS: Código | Producto | Lote | Vence | Días | Cant │
//	│  PRE-BLOQUEO: ídem                                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de colores                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/validade-api/internal/application/dto"
	"github.com/jhoicas/validade-api/internal/domain/expiry"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 33, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CriticalityPDFGenerator implementa usecase.CriticalityPDFGenerator usando Maroto v2.
type CriticalityPDFGenerator struct{}

// NewCriticalityPDFGenerator construye el generador.
func NewCriticalityPDFGenerator() *CriticalityPDFGenerator { return &CriticalityPDFGenerator{} }

// GenerateCriticalityPDF genera el PDF y devuelve sus bytes.
func (g *CriticalityPDFGenerator) GenerateCriticalityPDF(_ context.Context, r *dto.CriticalityReportResponse) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de criticidad", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRows("BLOQUEADOS (vencidos y críticos)", r.Blocked)...)
	m.AddRows(row.New(4))
	m.AddRows(sectionRows("PRE-BLOQUEO", r.PreBlock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(legendRow(r.Thresholds))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.CriticalityReportResponse) core.Row {
	unit := "Todas las unidades asignadas"
	if r.Unit != nil {
		unit = r.Unit.Code + " - " + r.Unit.Name
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE CRITICIDAD", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(unit, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Crítico ≤ %d días · Pre-bloqueo ≤ %d días",
				r.Thresholds.CriticalDays, r.Thresholds.PreBlockDays),
				props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func summaryRow(r *dto.CriticalityReportResponse) core.Row {
	box := func(label string, n int, c *props.Color) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New(strconv.Itoa(n), props.Text{Style: fontstyle.Bold, Size: 14, Color: c, Top: 5}),
		)
	}
	return row.New(14).Add(
		box("Bloqueados", r.Summary.TotalBlocked, statusColor(string(expiry.StatusCritical))),
		box("Pre-bloqueo", r.Summary.TotalPreBlock, statusColor(string(expiry.StatusPreBlock))),
	)
}

func sectionRows(title string, items []dto.CriticalityItem) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))),
	}
	if len(items) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin productos en esta categoría.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, tableHeaderRow())
	for _, it := range items {
		rows = append(rows, itemRow(it))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Código", 3, align.Left),
		h("Producto", 3, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 1, align.Center),
		h("Días", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Estado", 1, align.Center),
	)
}

// itemRow una fila por producto con código de barras del SKU para ubicarlo en depósito.
func itemRow(it dto.CriticalityItem) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 2, Left: 1, Right: 1}))
	}
	expires := "-"
	if it.ExpirationDate != nil {
		expires = it.ExpirationDate.Format("02/01/06")
	}
	days := "-"
	if it.Status.DaysRemaining != nil {
		days = strconv.Itoa(*it.Status.DaysRemaining)
	}
	return row.New(10).Add(
		col.New(3).Add(code.NewBar(it.Code, props.Barcode{Percent: 80, Center: true})),
		cell(truncate(it.Name, 38), 3, align.Left),
		cell(it.LotNumber, 2, align.Left),
		cell(expires, 1, align.Center),
		cell(days, 1, align.Center),
		cell(strconv.Itoa(it.Quantity), 1, align.Right),
		col.New(1).Add(text.New(it.Status.Label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: align.Center, Top: 2,
			Color: statusColor(it.Status.Status),
		})),
	)
}

func legendRow(t dto.ThresholdsResponse) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Vencido: fecha pasada. Crítico: hasta %d días. Pre-bloqueo: hasta %d días. "+
			"Los lotes sin fecha de vencimiento no participan del cálculo.", t.CriticalDays, t.PreBlockDays),
		props.Text{Size: 6.5, Color: colorGray, Top: 2},
	)))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// statusColor convierte el hex del estado a color de Maroto.
func statusColor(status string) *props.Color {
	c, err := hexColor(expiry.Status(status).Hex())
	if err != nil {
		return colorPrimary
	}
	return c
}

// hexColor parsea "#RRGGBB".
func hexColor(hex string) (*props.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("color inválido: %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, err
	}
	return &props.Color{Red: int(v >> 16 & 0xFF), Green: int(v >> 8 & 0xFF), Blue: int(v & 0xFF)}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
