package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	apphttp "github.com/dmejiac/beneficio-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests subproductos — catálogo sugerido para el formulario de viñetas
// ──────────────────────────────────────────────────────────────────────────────

func TestSubproductos_DevuelveCatalogoSugerido(t *testing.T) {
	app := fiber.New()
	h := apphttp.NewVinetaHandler(nil) // el catálogo no toca el motor
	app.Get("/api/vinetas/subproductos", h.Subproductos)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/vinetas/subproductos", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var lista []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lista))
	assert.Equal(t, entity.SubproductosConocidos, lista)
	assert.Contains(t, lista, "Primeras")
	assert.Contains(t, lista, "Catadura")
}
