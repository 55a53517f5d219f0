// Package pdf genera el acta imprimible de un reproceso: insumos consumidos,
// salidas obtenidas y merma. Es presentación pura; ningún invariante del
// libro mayor vive aquí.
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

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 71, Green: 45, Blue: 22}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ActaGenerator genera el acta de reproceso con Maroto v2.
type ActaGenerator struct{}

// NewActaGenerator construye el generador.
func NewActaGenerator() *ActaGenerator { return &ActaGenerator{} }

// GenerarActaReproceso genera el PDF y devuelve sus bytes.
func (g *ActaGenerator) GenerarActaReproceso(rep *entity.Reproceso) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Reproceso "+rep.Documento, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(
			text.New("Acta de Reproceso", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary}),
			text.New(rep.Documento, props.Text{Size: 10, Top: 7, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(rep.Fecha.Format("02/01/2006"), props.Text{Size: 10, Align: align.Right}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(seccionRow("Viñetas de entrada"))
	m.AddRows(tablaHeaderRow("Viñeta", "Subproducto", "Peso (qq)", "% Prim / % Cat"))
	for _, ins := range rep.Insumos {
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(ins.NumeroSnapshot, props.Text{Size: 8})),
			col.New(3).Add(text.New(ins.SubproductoSnapshot, props.Text{Size: 8})),
			col.New(3).Add(text.New(ins.PesoSnapshot.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
			col.New(3).Add(text.New(
				fmt.Sprintf("%s%% / %s%%", ins.PctPrimeras.StringFixed(0), ins.PctCatadura.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right})),
		))
	}

	m.AddRows(seccionRow("Viñetas de salida"))
	m.AddRows(tablaHeaderRow("Viñeta", "Subproducto", "Peso (qq)", "Estado"))
	for _, s := range rep.Salidas {
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(s.Numero, props.Text{Size: 8})),
			col.New(3).Add(text.New(s.Subproducto, props.Text{Size: 8})),
			col.New(3).Add(text.New(s.PesoActual.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
			col.New(3).Add(text.New(s.Estado, props.Text{Size: 8, Align: align.Right})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	mermaColor := colorPrimary
	mermaTexto := "Merma: " + rep.Merma.StringFixed(2) + " qq"
	if rep.MermaAnomala() {
		mermaColor = colorAlert
		mermaTexto += " (ANÓMALA: salida mayor que entrada)"
	}
	m.AddRows(row.New(16).Add(
		col.New(6).Add(
			text.New("Total entrada: "+rep.TotalEntrada.StringFixed(2)+" qq", props.Text{Size: 9}),
			text.New("Total salida: "+rep.TotalSalida.StringFixed(2)+" qq", props.Text{Size: 9, Top: 5}),
		),
		col.New(6).Add(
			text.New(mermaTexto, props.Text{Size: 10, Style: fontstyle.Bold, Color: mermaColor, Align: align.Right}),
		),
	))
	if rep.Notas != "" {
		m.AddRows(row.New(8).Add(
			col.New(12).Add(text.New("Notas: "+rep.Notas, props.Text{Size: 8, Color: colorGray})),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

func seccionRow(titulo string) core.Row {
	return row.New(9).Add(
		col.New(12).Add(text.New(titulo, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3, Color: colorPrimary})),
	)
}

func tablaHeaderRow(c1, c2, c3, c4 string) core.Row {
	h := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray})
	}
	return row.New(6).Add(
		col.New(3).Add(h(c1, align.Left)),
		col.New(3).Add(h(c2, align.Left)),
		col.New(3).Add(h(c3, align.Right)),
		col.New(3).Add(h(c4, align.Right)),
	)
}
