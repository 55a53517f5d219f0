package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsumoReproceso referencia débil a una viñeta consumida por un reproceso,
// con snapshot de peso/tipo/número al momento de la selección y la proyección
// de salida asignada. La proyección jamás muta la viñeta de entrada.
type InsumoReproceso struct {
	VinetaID            string
	NumeroSnapshot      string
	SubproductoSnapshot string
	PesoSnapshot        decimal.Decimal
	PctPrimeras         decimal.Decimal // 0..100
	PctCatadura         decimal.Decimal // 0..100; PctPrimeras+PctCatadura ≤ 100
}

// Reproceso transforma viñetas existentes en viñetas nuevas con una merma.
// Las viñetas de entrada se referencian (no se poseen); las de salida son
// propiedad exclusiva del reproceso.
type Reproceso struct {
	ID                 string
	Documento          string // RP-n
	Fecha              time.Time
	Notas              string
	Finalizado         bool // candado de política; lo aplica la capa de autorización
	Insumos            []*InsumoReproceso
	Salidas            []*Vineta
	TotalEntrada       decimal.Decimal
	TotalSalida        decimal.Decimal
	Merma              decimal.Decimal // TotalEntrada - TotalSalida; puede ser negativa
	ProyectadoPrimeras decimal.Decimal
	ProyectadoCatadura decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RecalcularTotales deriva totales, merma, proyectados y reales a partir de
// insumos y salidas. Se invoca siempre antes de persistir.
func (r *Reproceso) RecalcularTotales() {
	cien := decimal.NewFromInt(100)
	entrada, proyP, proyC := decimal.Zero, decimal.Zero, decimal.Zero
	for _, in := range r.Insumos {
		entrada = entrada.Add(in.PesoSnapshot)
		proyP = proyP.Add(in.PesoSnapshot.Mul(in.PctPrimeras).Div(cien))
		proyC = proyC.Add(in.PesoSnapshot.Mul(in.PctCatadura).Div(cien))
	}
	salida := decimal.Zero
	for _, out := range r.Salidas {
		salida = salida.Add(out.PesoActual)
	}
	r.TotalEntrada = entrada
	r.TotalSalida = salida
	r.Merma = entrada.Sub(salida)
	r.ProyectadoPrimeras = proyP
	r.ProyectadoCatadura = proyC
}

// RealPrimeras suma el peso de las salidas clasificadas como primeras.
func (r *Reproceso) RealPrimeras() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.Salidas {
		if EsPrimeras(v.Subproducto) {
			total = total.Add(v.PesoActual)
		}
	}
	return total
}

// RealCatadura suma el peso de las salidas no clasificadas como primeras.
func (r *Reproceso) RealCatadura() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.Salidas {
		if !EsPrimeras(v.Subproducto) {
			total = total.Add(v.PesoActual)
		}
	}
	return total
}

// MermaAnomala indica salida mayor que entrada (merma negativa). Se permite
// guardar (corrección de datos en bodega) pero se marca para revisión.
func (r *Reproceso) MermaAnomala() bool {
	return r.Merma.IsNegative()
}
