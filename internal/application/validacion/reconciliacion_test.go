package validacion_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/validacion"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

var ahora = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func vinetaEnStock(id, numero string, peso string) *entity.Vineta {
	p := decimal.RequireFromString(peso)
	return &entity.Vineta{
		ID: id, Numero: numero, Subproducto: "Catadura",
		PesoOriginal: p, PesoActual: p, Estado: entity.EstadoEnStock,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reemplazo total de la lista de viñetas de un documento: lo nuevo se crea,
// lo conservado se actualiza, lo ausente se elimina, y lo consumido aguas
// abajo bloquea el guardado completo.
// ──────────────────────────────────────────────────────────────────────────────

func TestReconciliar_DocumentoNuevo(t *testing.T) {
	drafts := []dto.VinetaDraft{
		{Numero: " V-001 ", Subproducto: "Primeras", Peso: decimal.NewFromFloat(40), Notas: "lote A"},
	}

	rec, err := validacion.Reconciliar(nil, drafts, ahora)
	require.NoError(t, err)
	require.Len(t, rec.Crear, 1)
	assert.Empty(t, rec.Actualizar)
	assert.Empty(t, rec.EliminarIDs)

	creada := rec.Crear[0]
	assert.NotEmpty(t, creada.ID)
	assert.Equal(t, "V-001", creada.Numero, "el número se normaliza al crear")
	assert.Equal(t, entity.EstadoEnStock, creada.Estado)
	assert.True(t, creada.PesoOriginal.Equal(creada.PesoActual))
}

func TestReconciliar_ActualizaConservadaEnStock(t *testing.T) {
	existente := vinetaEnStock("id-1", "V-001", "40")
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.NewFromFloat(38.5)},
	}

	rec, err := validacion.Reconciliar([]*entity.Vineta{existente}, drafts, ahora)
	require.NoError(t, err)
	require.Len(t, rec.Actualizar, 1)
	assert.Empty(t, rec.Crear)
	assert.Empty(t, rec.EliminarIDs)

	mod := rec.Actualizar[0]
	assert.True(t, decimal.NewFromFloat(38.5).Equal(mod.PesoActual))
	assert.True(t, mod.PesoOriginal.Equal(mod.PesoActual), "corregir el peso antes del consumo ajusta ambos pesos")
	// El original no se muta; la reconciliación trabaja sobre copias.
	assert.True(t, decimal.RequireFromString("40").Equal(existente.PesoActual))
}

func TestReconciliar_SinCambiosNoActualizaNada(t *testing.T) {
	existente := vinetaEnStock("id-1", "V-001", "40")
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("40")},
	}

	rec, err := validacion.Reconciliar([]*entity.Vineta{existente}, drafts, ahora)
	require.NoError(t, err)
	assert.Empty(t, rec.Crear)
	assert.Empty(t, rec.Actualizar)
	assert.Empty(t, rec.EliminarIDs)
}

func TestReconciliar_EliminaAusenteEnStock(t *testing.T) {
	existentes := []*entity.Vineta{
		vinetaEnStock("id-1", "V-001", "40"),
		vinetaEnStock("id-2", "V-002", "8"),
	}
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("40")},
	}

	rec, err := validacion.Reconciliar(existentes, drafts, ahora)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-2"}, rec.EliminarIDs)
}

// Una viñeta ya reprocesada no puede retirarse de su documento de origen:
// el guardado completo se rechaza.
func TestReconciliar_ConsumidaAusenteBloqueaGuardado(t *testing.T) {
	consumida := vinetaEnStock("id-2", "V-002", "8")
	consumida.Estado = entity.EstadoReprocesada
	existentes := []*entity.Vineta{vinetaEnStock("id-1", "V-001", "40"), consumida}
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("40")},
	}

	_, err := validacion.Reconciliar(existentes, drafts, ahora)
	ce, ok := domain.EsConflicto(err)
	require.True(t, ok, "retirar una viñeta consumida debe ser conflicto")
	assert.Equal(t, "V-002", ce.ID)
}

func TestReconciliar_ConsumidaConservadaSinCambiosPasa(t *testing.T) {
	consumida := vinetaEnStock("id-1", "V-001", "40")
	consumida.Estado = entity.EstadoMezclada
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("40")},
	}

	rec, err := validacion.Reconciliar([]*entity.Vineta{consumida}, drafts, ahora)
	require.NoError(t, err)
	assert.Empty(t, rec.Actualizar, "la viñeta consumida se conserva tal cual, sin escritura")
}

func TestReconciliar_ConsumidaConCambiosBloqueaGuardado(t *testing.T) {
	consumida := vinetaEnStock("id-1", "V-001", "40")
	consumida.Estado = entity.EstadoVendida
	drafts := []dto.VinetaDraft{
		{ID: "id-1", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("35")},
	}

	_, err := validacion.Reconciliar([]*entity.Vineta{consumida}, drafts, ahora)
	_, ok := domain.EsConflicto(err)
	assert.True(t, ok, "cambiar el peso de una viñeta vendida debe ser conflicto")
}

func TestReconciliar_IDAjenoEsValidacion(t *testing.T) {
	drafts := []dto.VinetaDraft{
		{ID: "id-fantasma", Numero: "V-001", Subproducto: "Catadura", Peso: decimal.RequireFromString("5")},
	}

	_, err := validacion.Reconciliar(nil, drafts, ahora)
	_, ok := domain.EsValidacion(err)
	assert.True(t, ok)
}
