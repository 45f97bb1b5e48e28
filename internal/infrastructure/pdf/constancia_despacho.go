// Package pdf implementa la generación de la constancia de despacho de
// bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Constancia de despacho │ Código + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO: Servicio + Observaciones                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Insumo | Lote | Vence | P.Unit | Total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cantidad total / Valor total                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ despachos.ConstanciaGenerator = (*ConstanciaGenerator)(nil)

// ConstanciaGenerator implementa despachos.ConstanciaGenerator usando Maroto v2.
type ConstanciaGenerator struct{}

// NewConstanciaGenerator construye el generador.
func NewConstanciaGenerator() *ConstanciaGenerator { return &ConstanciaGenerator{} }

// Generar genera el PDF de la constancia y devuelve sus bytes.
func (g *ConstanciaGenerator) Generar(d *entity.Despacho, servicio *entity.Servicio) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Constancia de Despacho "+d.CodigoDespacho, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinoRow(d, servicio))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(d.Detalles) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar constancia: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y código + fecha del despacho (der).
func headerRow(d *entity.Despacho) core.Row {
	fecha := d.FechaDespacho.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("BODEGA DE INSUMOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Constancia de despacho", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(d.CodigoDespacho, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// destinoRow: servicio destino y observaciones.
func destinoRow(d *entity.Despacho, servicio *entity.Servicio) core.Row {
	destino := "—"
	if servicio != nil {
		destino = servicio.Nombre
	}
	observaciones := "—"
	if d.Observaciones != nil && *d.Observaciones != "" {
		observaciones = *d.Observaciones
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("SERVICIO DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(destino, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Observaciones: "+observaciones, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de insumos despachados.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Insumo", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 2, align.Center),
		h("P.Unit.", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por fragmento de lote despachado.
func tableDetailRows(detalles []*entity.DespachoDetalle) []core.Row {
	result := make([]core.Row, 0, len(detalles))
	for _, d := range detalles {
		vence := "—"
		if d.FechaVencimiento != nil {
			vence = d.FechaVencimiento.Format("02/01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.Cantidad),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				d.NombreInsumo+" "+d.Presentacion,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				d.Lote,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				vence,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				d.PrecioUnitario.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				d.PrecioTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(d *entity.Despacho) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Cantidad total:"),
			label("Valor total:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", d.TotalCantidad)),
			value("Q "+d.TotalGeneral.StringFixed(2)),
		),
	)
}
