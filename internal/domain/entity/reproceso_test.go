package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Escenario de referencia de bodega: entran 75 qq de catadura, salen 70 qq,
// la merma del reproceso es 5 qq.
func TestRecalcularTotales_ConservacionDePeso(t *testing.T) {
	rep := &entity.Reproceso{
		Insumos: []*entity.InsumoReproceso{
			{VinetaID: "a", PesoSnapshot: dec("50"), PctPrimeras: dec("60"), PctCatadura: dec("40")},
			{VinetaID: "b", PesoSnapshot: dec("25"), PctPrimeras: dec("80"), PctCatadura: dec("0")},
		},
		Salidas: []*entity.Vineta{
			{Subproducto: "Primeras", PesoActual: dec("48")},
			{Subproducto: "Catadura", PesoActual: dec("22")},
		},
	}

	rep.RecalcularTotales()

	assert.True(t, dec("75").Equal(rep.TotalEntrada), "entrada: %s", rep.TotalEntrada)
	assert.True(t, dec("70").Equal(rep.TotalSalida), "salida: %s", rep.TotalSalida)
	assert.True(t, dec("5").Equal(rep.Merma), "merma: %s", rep.Merma)
	assert.False(t, rep.MermaAnomala())

	// Proyección por insumo: 50×60% + 25×80% = 50 primeras; 50×40% = 20 catadura.
	assert.True(t, dec("50").Equal(rep.ProyectadoPrimeras), "proyectado primeras: %s", rep.ProyectadoPrimeras)
	assert.True(t, dec("20").Equal(rep.ProyectadoCatadura), "proyectado catadura: %s", rep.ProyectadoCatadura)

	assert.True(t, dec("48").Equal(rep.RealPrimeras()))
	assert.True(t, dec("22").Equal(rep.RealCatadura()))
}

// La merma negativa (salida > entrada) se conserva como dato y se marca
// anómala; el rechazo no es responsabilidad de la entidad.
func TestRecalcularTotales_MermaNegativaEsAnomala(t *testing.T) {
	rep := &entity.Reproceso{
		Insumos: []*entity.InsumoReproceso{
			{VinetaID: "a", PesoSnapshot: dec("10")},
		},
		Salidas: []*entity.Vineta{
			{Subproducto: "Catadura", PesoActual: dec("12")},
		},
	}

	rep.RecalcularTotales()

	assert.True(t, dec("-2").Equal(rep.Merma))
	assert.True(t, rep.MermaAnomala())
}

func TestRecalcularTotales_SinSalidas(t *testing.T) {
	rep := &entity.Reproceso{
		Insumos: []*entity.InsumoReproceso{
			{VinetaID: "a", PesoSnapshot: dec("30"), PctPrimeras: dec("100")},
		},
	}

	rep.RecalcularTotales()

	assert.True(t, dec("30").Equal(rep.TotalEntrada))
	assert.True(t, rep.TotalSalida.IsZero())
	assert.True(t, dec("30").Equal(rep.Merma), "sin salidas, toda la entrada es merma provisional")
}

// ── Rendimiento: totales reales por clasificación ─────────────────────────────

func TestRendimiento_RealesPorSubproducto(t *testing.T) {
	rend := &entity.Rendimiento{
		Vinetas: []*entity.Vineta{
			{Subproducto: "Primeras", PesoActual: dec("40")},
			{Subproducto: "primeras", PesoActual: dec("35")},
			{Subproducto: "Catadura", PesoActual: dec("7")},
			{Subproducto: "Chibola", PesoActual: dec("3")},
		},
	}

	assert.True(t, dec("75").Equal(rend.RealPrimeras()))
	assert.True(t, dec("10").Equal(rend.RealCatadura()), "todo lo que no es primeras suma a catadura")
}
