package reproceso_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmejiac/beneficio-api/internal/application/apptest"
	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/reproceso"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

// buildEngine arma el motor sobre un almacén con dos viñetas de catadura en
// stock: C-001 (50 qq) y C-002 (25 qq).
func buildEngine(t *testing.T) (*reproceso.UseCase, *apptest.Store, string, string) {
	t.Helper()
	store := apptest.NewStore()
	v1, v2 := uuid.New().String(), uuid.New().String()
	store.AgregarVineta(&entity.Vineta{
		ID: v1, Numero: "C-001", Subproducto: "Catadura",
		PesoOriginal: dec("50"), PesoActual: dec("50"), Estado: entity.EstadoEnStock,
	})
	store.AgregarVineta(&entity.Vineta{
		ID: v2, Numero: "C-002", Subproducto: "Catadura",
		PesoOriginal: dec("25"), PesoActual: dec("25"), Estado: entity.EstadoEnStock,
	})
	uc := reproceso.NewUseCase(
		&apptest.ReprocesoTx{S: store},
		&apptest.ReprocesoRepo{S: store},
		&apptest.VinetaRepo{S: store},
		testLogger(),
	)
	return uc, store, v1, v2
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardar: creación
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de bodega: entran 75 qq de catadura (50+25), salen 48 qq de
// primeras y 22 qq de catadura; la merma documentada es 5 qq.
func TestGuardar_CreaReprocesoYReclamaInsumos(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)

	doc, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{
			{VinetaID: v1, PctPrimeras: dec("60"), PctCatadura: dec("40")},
			{VinetaID: v2, PctPrimeras: dec("80")},
		},
		Salidas: []dto.VinetaDraft{
			{Numero: "R-001", Subproducto: "Primeras", Peso: dec("48")},
			{Numero: "R-002", Subproducto: "Catadura", Peso: dec("22")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "RP-1", doc.Documento)
	assert.True(t, dec("75").Equal(doc.TotalEntrada))
	assert.True(t, dec("70").Equal(doc.TotalSalida))
	assert.True(t, dec("5").Equal(doc.Merma))
	assert.False(t, doc.MermaAnomala())
	assert.True(t, dec("50").Equal(doc.ProyectadoPrimeras), "50×60% + 25×80%")
	assert.True(t, dec("20").Equal(doc.ProyectadoCatadura))

	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v1].Estado)
	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v2].Estado)

	require.Len(t, doc.Salidas, 2)
	for _, s := range doc.Salidas {
		assert.Equal(t, entity.EstadoEnStock, s.Estado, "las salidas nacen en stock")
		assert.Equal(t, doc.ID, s.ReprocesoID)
	}
}

// El snapshot del insumo congela peso y clasificación al momento de la
// selección; cambios posteriores en la viñeta no alteran el documento.
func TestGuardar_InsumoConservaSnapshot(t *testing.T) {
	uc, store, v1, _ := buildEngine(t)

	doc, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{{VinetaID: v1, PctPrimeras: dec("50"), PctCatadura: dec("50")}},
		Salidas: []dto.VinetaDraft{{Numero: "R-001", Subproducto: "Primeras", Peso: dec("45")}},
	})
	require.NoError(t, err)
	require.Len(t, doc.Insumos, 1)
	assert.Equal(t, "C-001", doc.Insumos[0].NumeroSnapshot)
	assert.True(t, dec("50").Equal(doc.Insumos[0].PesoSnapshot))

	// La viñeta cambia por fuera; el snapshot del documento no se mueve.
	store.Vinetas[v1].PesoActual = dec("10")
	releido, err := uc.GetByID(doc.ID)
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(releido.Insumos[0].PesoSnapshot))
}

func TestGuardar_SinInsumosEsValidacion(t *testing.T) {
	uc, _, _, _ := buildEngine(t)
	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{})
	_, ok := domain.EsValidacion(err)
	assert.True(t, ok)
}

func TestGuardar_InsumoRepetidoEsValidacion(t *testing.T) {
	uc, _, v1, _ := buildEngine(t)
	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{{VinetaID: v1}, {VinetaID: v1}},
	})
	ve, ok := domain.EsValidacion(err)
	require.True(t, ok)
	assert.Equal(t, v1, ve.Errores[0].VinetaID)
}

func TestGuardar_InsumoInexistenteEsValidacion(t *testing.T) {
	uc, _, _, _ := buildEngine(t)
	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{{VinetaID: uuid.New().String()}},
		Salidas: []dto.VinetaDraft{{Numero: "R-001", Subproducto: "Catadura", Peso: dec("1")}},
	})
	_, ok := domain.EsValidacion(err)
	assert.True(t, ok)
}

// Una viñeta ya consumida por otro reproceso no puede reclamarse; el guardado
// completo se rechaza y no queda reclamo parcial del resto.
func TestGuardar_InsumoNoDisponibleEsConflictoAtomico(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	store.Vinetas[v2].Estado = entity.EstadoMezclada

	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{{VinetaID: v1}, {VinetaID: v2}},
		Salidas: []dto.VinetaDraft{{Numero: "R-001", Subproducto: "Catadura", Peso: dec("60")}},
	})
	ce, ok := domain.EsConflicto(err)
	require.True(t, ok)
	assert.Equal(t, "C-002", ce.ID)
	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[v1].Estado, "el reclamo de C-001 se revierte con la transacción")
	assert.Empty(t, store.Reprocesos)
}

// La merma negativa se persiste y se marca anómala; no es un rechazo.
func TestGuardar_MermaNegativaSeGuardaYMarca(t *testing.T) {
	uc, _, v1, _ := buildEngine(t)

	doc, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{{VinetaID: v1}},
		Salidas: []dto.VinetaDraft{{Numero: "R-001", Subproducto: "Primeras", Peso: dec("55")}},
	})
	require.NoError(t, err)
	assert.True(t, dec("-5").Equal(doc.Merma))
	assert.True(t, doc.MermaAnomala())
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardar: edición
// ──────────────────────────────────────────────────────────────────────────────

func crearReproceso(t *testing.T, uc *reproceso.UseCase, v1, v2 string) *entity.Reproceso {
	t.Helper()
	doc, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		Insumos: []dto.InsumoDraft{
			{VinetaID: v1, PctPrimeras: dec("60"), PctCatadura: dec("40")},
			{VinetaID: v2, PctPrimeras: dec("80")},
		},
		Salidas: []dto.VinetaDraft{
			{Numero: "R-001", Subproducto: "Primeras", Peso: dec("48")},
			{Numero: "R-002", Subproducto: "Catadura", Peso: dec("22")},
		},
	})
	require.NoError(t, err)
	return doc
}

// Editar dejando el reproceso sin insumos se rechaza antes de escribir nada:
// los reclamos del guardado original sobreviven intactos.
func TestGuardar_EdicionSinInsumosEsValidacionSinEscrituras(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		ID:      doc.ID,
		Insumos: nil,
		Salidas: []dto.VinetaDraft{{Numero: "R-009", Subproducto: "Catadura", Peso: dec("1")}},
	})
	_, ok := domain.EsValidacion(err)
	require.True(t, ok)

	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v1].Estado,
		"el insumo no se revierte en un guardado rechazado")
	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v2].Estado)
	intacto, err := uc.GetByID(doc.ID)
	require.NoError(t, err)
	require.Len(t, intacto.Insumos, 2)
	assert.True(t, doc.TotalEntrada.Equal(intacto.TotalEntrada), "el documento no cambió")
	assert.Len(t, intacto.Salidas, 2, "las salidas originales siguen siendo las del documento")
}

// Retirar un insumo en la edición lo repone a EN_STOCK en el mismo guardado.
func TestGuardar_EdicionRetiraInsumoYLoRevierte(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	salidas := make([]dto.VinetaDraft, 0, len(doc.Salidas))
	for _, s := range doc.Salidas {
		salidas = append(salidas, dto.VinetaDraft{
			ID: s.ID, Numero: s.Numero, Subproducto: s.Subproducto, Peso: s.PesoActual,
		})
	}
	editado, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		ID:      doc.ID,
		Insumos: []dto.InsumoDraft{{VinetaID: v1, PctPrimeras: dec("60"), PctCatadura: dec("40")}},
		Salidas: salidas,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[v2].Estado, "el insumo retirado vuelve a stock")
	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v1].Estado)
	require.Len(t, editado.Insumos, 1)
	assert.True(t, dec("50").Equal(editado.TotalEntrada), "la entrada se recalcula sin el insumo retirado")
	assert.Equal(t, doc.Documento, editado.Documento)
}

// Un insumo conservado en la edición mantiene su snapshot original aunque la
// viñeta haya cambiado entre guardados.
func TestGuardar_EdicionConservaSnapshotDelInsumo(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)
	store.Vinetas[v1].PesoActual = dec("1")

	salidas := make([]dto.VinetaDraft, 0, len(doc.Salidas))
	for _, s := range doc.Salidas {
		salidas = append(salidas, dto.VinetaDraft{
			ID: s.ID, Numero: s.Numero, Subproducto: s.Subproducto, Peso: s.PesoActual,
		})
	}
	editado, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		ID: doc.ID,
		Insumos: []dto.InsumoDraft{
			{VinetaID: v1, PctPrimeras: dec("100")},
			{VinetaID: v2},
		},
		Salidas: salidas,
	})
	require.NoError(t, err)
	for _, ins := range editado.Insumos {
		if ins.VinetaID == v1 {
			assert.True(t, dec("50").Equal(ins.PesoSnapshot))
			assert.True(t, dec("100").Equal(ins.PctPrimeras), "la proyección sí se actualiza")
		}
	}
}

// Las salidas de un reproceso no pueden ser sus propios insumos.
func TestGuardar_SalidaPropiaComoInsumoEsConflicto(t *testing.T) {
	uc, _, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	_, err := uc.Guardar(context.Background(), dto.GuardarReprocesoRequest{
		ID:      doc.ID,
		Insumos: []dto.InsumoDraft{{VinetaID: doc.Salidas[0].ID}},
		Salidas: []dto.VinetaDraft{{Numero: "R-009", Subproducto: "Catadura", Peso: dec("1")}},
	})
	_, ok := domain.EsConflicto(err)
	assert.True(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminar
// ──────────────────────────────────────────────────────────────────────────────

func TestEliminar_RevierteInsumosYBorraSalidas(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	require.NoError(t, uc.Eliminar(context.Background(), doc.ID))
	assert.Empty(t, store.Reprocesos)
	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[v1].Estado)
	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[v2].Estado)
	assert.Len(t, store.Vinetas, 2, "las salidas del reproceso se borraron")
}

func TestEliminar_SalidaConsumidaBloqueaElBorrado(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)
	store.Vinetas[doc.Salidas[0].ID].Estado = entity.EstadoVendida

	err := uc.Eliminar(context.Background(), doc.ID)
	_, ok := domain.EsConflicto(err)
	require.True(t, ok)
	assert.Len(t, store.Reprocesos, 1)
	assert.Equal(t, entity.EstadoReprocesada, store.Vinetas[v1].Estado, "los insumos no se revirtieron")
}

// Repetir la eliminación no revierte insumos dos veces ni falla.
func TestEliminar_EsIdempotente(t *testing.T) {
	uc, store, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	require.NoError(t, uc.Eliminar(context.Background(), doc.ID))

	// Otra operación consume C-001 después del borrado.
	store.Vinetas[v1].Estado = entity.EstadoMezclada

	require.NoError(t, uc.Eliminar(context.Background(), doc.ID))
	assert.Equal(t, entity.EstadoMezclada, store.Vinetas[v1].Estado,
		"la segunda eliminación no toca viñetas ajenas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Seleccionables y candado
// ──────────────────────────────────────────────────────────────────────────────

func TestSeleccionables_EdicionIncluyeInsumosYExcluyeSalidasPropias(t *testing.T) {
	uc, _, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	libres, err := uc.Seleccionables("")
	require.NoError(t, err)
	numeros := make([]string, 0, len(libres))
	for _, v := range libres {
		numeros = append(numeros, v.Numero)
	}
	assert.ElementsMatch(t, []string{"R-001", "R-002"}, numeros,
		"sin contexto de edición solo las salidas en stock son elegibles")

	paraEdicion, err := uc.Seleccionables(doc.ID)
	require.NoError(t, err)
	numeros = numeros[:0]
	for _, v := range paraEdicion {
		numeros = append(numeros, v.Numero)
	}
	assert.ElementsMatch(t, []string{"C-001", "C-002"}, numeros,
		"al editar se ven los insumos vigentes y se ocultan las salidas propias")
}

func TestFinalizar_MarcaYReabre(t *testing.T) {
	uc, _, v1, v2 := buildEngine(t)
	doc := crearReproceso(t, uc, v1, v2)

	cerrado, err := uc.Finalizar(context.Background(), doc.ID, true)
	require.NoError(t, err)
	assert.True(t, cerrado.Finalizado)

	abierto, err := uc.Finalizar(context.Background(), doc.ID, false)
	require.NoError(t, err)
	assert.False(t, abierto.Finalizado)
}

func TestFinalizar_InexistenteEsNotFound(t *testing.T) {
	uc, _, _, _ := buildEngine(t)
	_, err := uc.Finalizar(context.Background(), uuid.New().String(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
