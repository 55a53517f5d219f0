package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/vineta"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

// VinetaHandler expone las viñetas a los consumidores externos (mezcla,
// trilla, venta): consulta y cambio de estado.
type VinetaHandler struct {
	uc *vineta.EstadoUseCase
}

// NewVinetaHandler construye el handler.
func NewVinetaHandler(uc *vineta.EstadoUseCase) *VinetaHandler {
	return &VinetaHandler{uc: uc}
}

// Subproductos godoc
// @Summary      Listar subproductos habituales
// @Description  Lista sugerida para el formulario de viñetas. No es exhaustiva ni se valida contra ella.
// @Tags         vinetas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/vinetas/subproductos [get]
func (h *VinetaHandler) Subproductos(c *fiber.Ctx) error {
	return c.JSON(entity.SubproductosConocidos)
}

// GetByID godoc
// @Summary      Obtener viñeta por ID
// @Tags         vinetas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la viñeta"
// @Success      200  {object}  dto.VinetaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vinetas/{id} [get]
func (h *VinetaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	v, err := h.uc.GetByID(id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(toVinetaResponse(v))
}

// SetEstado godoc
// @Summary      Cambiar el estado de una viñeta
// @Description  Para los subsistemas de mezcla, trilla y venta. Rechaza con 409 las transiciones desde estados consumidos (salvo hacia VENDIDA) y cualquier salida de VENDIDA.
// @Tags         vinetas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la viñeta"
// @Param        body  body  dto.CambiarEstadoRequest  true  "Estado destino"
// @Success      200   {object}  dto.VinetaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vinetas/{id}/estado [patch]
func (h *VinetaHandler) SetEstado(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.CambiarEstadoRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.uc.SetEstado(c.Context(), id, in.Estado); err != nil {
		return responderError(c, err)
	}
	v, err := h.uc.GetByID(id)
	if err != nil {
		// Marcar una viñeta inexistente no es error para el consumidor
		// externo; ya quedó la advertencia de integridad en el log.
		if errors.Is(err, domain.ErrNotFound) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return responderError(c, err)
	}
	return c.JSON(toVinetaResponse(v))
}
