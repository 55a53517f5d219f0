package vineta_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmejiac/beneficio-api/internal/application/apptest"
	"github.com/dmejiac/beneficio-api/internal/application/vineta"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/pkg/logger"
)

func buildMaquina(t *testing.T, estado string) (*vineta.EstadoUseCase, *apptest.Store, string) {
	t.Helper()
	store := apptest.NewStore()
	id := uuid.New().String()
	peso := decimal.NewFromFloat(10)
	store.AgregarVineta(&entity.Vineta{
		ID: id, Numero: "V-001", Subproducto: "Catadura",
		PesoOriginal: peso, PesoActual: peso, Estado: estado,
	})
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := vineta.NewEstadoUseCase(&apptest.VinetaTx{S: store}, &apptest.VinetaRepo{S: store}, log)
	return uc, store, id
}

func TestSetEstado_ConsumoDesdeStock(t *testing.T) {
	uc, store, id := buildMaquina(t, entity.EstadoEnStock)

	require.NoError(t, uc.SetEstado(context.Background(), id, entity.EstadoMezclada))
	assert.Equal(t, entity.EstadoMezclada, store.Vinetas[id].Estado)
}

func TestSetEstado_VentaDeConsumida(t *testing.T) {
	uc, store, id := buildMaquina(t, entity.EstadoUsadaEnTrilla)

	require.NoError(t, uc.SetEstado(context.Background(), id, entity.EstadoVendida))
	assert.Equal(t, entity.EstadoVendida, store.Vinetas[id].Estado)
}

func TestSetEstado_TransicionProhibidaEsConflicto(t *testing.T) {
	uc, store, id := buildMaquina(t, entity.EstadoVendida)

	err := uc.SetEstado(context.Background(), id, entity.EstadoMezclada)
	_, ok := domain.EsConflicto(err)
	require.True(t, ok, "VENDIDA es terminal")
	assert.Equal(t, entity.EstadoVendida, store.Vinetas[id].Estado)
}

func TestSetEstado_EstadoDesconocidoEsValidacion(t *testing.T) {
	uc, _, id := buildMaquina(t, entity.EstadoEnStock)

	err := uc.SetEstado(context.Background(), id, "EXTRAVIADA")
	_, ok := domain.EsValidacion(err)
	assert.True(t, ok)
}

// Marcar una viñeta inexistente no es error del consumidor externo: queda la
// advertencia de integridad en el log y la operación continúa.
func TestSetEstado_InexistenteEsNoOp(t *testing.T) {
	uc, _, _ := buildMaquina(t, entity.EstadoEnStock)
	assert.NoError(t, uc.SetEstado(context.Background(), uuid.New().String(), entity.EstadoVendida))
}

// ── RevertirAStock ────────────────────────────────────────────────────────────

func TestRevertirAStock_ReponeReprocesadas(t *testing.T) {
	uc, store, id := buildMaquina(t, entity.EstadoReprocesada)

	require.NoError(t, uc.RevertirAStock(context.Background(), []string{id}))
	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[id].Estado)

	// Repetir la reversión es no-op.
	require.NoError(t, uc.RevertirAStock(context.Background(), []string{id}))
	assert.Equal(t, entity.EstadoEnStock, store.Vinetas[id].Estado)
}

func TestRevertirAStock_ConsumidaPorOtraViaEsConflicto(t *testing.T) {
	uc, store, id := buildMaquina(t, entity.EstadoVendida)

	err := uc.RevertirAStock(context.Background(), []string{id})
	ce, ok := domain.EsConflicto(err)
	require.True(t, ok)
	assert.Equal(t, id, ce.ID)
	assert.Equal(t, entity.EstadoVendida, store.Vinetas[id].Estado, "la viñeta vendida no se toca")
}

func TestRevertirAStock_ListaVaciaEsNoOp(t *testing.T) {
	uc, _, _ := buildMaquina(t, entity.EstadoEnStock)
	assert.NoError(t, uc.RevertirAStock(context.Background(), nil))
}
