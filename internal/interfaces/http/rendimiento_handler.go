package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/rendimiento"
)

// RendimientoHandler maneja las peticiones HTTP de rendimientos (protegido).
type RendimientoHandler struct {
	uc *rendimiento.UseCase
}

// NewRendimientoHandler construye el handler.
func NewRendimientoHandler(uc *rendimiento.UseCase) *RendimientoHandler {
	return &RendimientoHandler{uc: uc}
}

// List godoc
// @Summary      Listar rendimientos
// @Tags         rendimientos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.RendimientoResponse
// @Router       /api/rendimientos [get]
func (h *RendimientoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	docs, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.RendimientoResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toRendimientoResponse(d))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener rendimiento por ID
// @Tags         rendimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del rendimiento"
// @Success      200  {object}  dto.RendimientoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rendimientos/{id} [get]
func (h *RendimientoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	doc, err := h.uc.GetByID(id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(toRendimientoResponse(doc))
}

// Guardar godoc
// @Summary      Crear o editar un rendimiento
// @Description  Con id vacío crea el documento y asigna consecutivo REN-n; con id reemplaza órdenes y viñetas de forma reconciliada.
// @Tags         rendimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GuardarRendimientoRequest  true  "Órdenes y viñetas del rendimiento"
// @Success      200   {object}  dto.RendimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/rendimientos [post]
func (h *RendimientoHandler) Guardar(c *fiber.Ctx) error {
	var in dto.GuardarRendimientoRequest
	if !parseBody(c, &in) {
		return nil
	}
	doc, err := h.uc.Guardar(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	status := fiber.StatusOK
	if in.ID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toRendimientoResponse(doc))
}

// Eliminar godoc
// @Summary      Eliminar un rendimiento y sus viñetas
// @Description  Rechaza con 409 si alguna viñeta del documento ya fue consumida.
// @Tags         rendimientos
// @Security     Bearer
// @Param        id  path  string  true  "ID del rendimiento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/rendimientos/{id} [delete]
func (h *RendimientoHandler) Eliminar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Eliminar(c.Context(), id); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OrdenesDisponibles godoc
// @Summary      Órdenes de trilla sin rendimiento asociado
// @Description  Si se pasa rendimiento_id, incluye también las órdenes ya reclamadas por ese documento (para edición).
// @Tags         rendimientos
// @Security     Bearer
// @Produce      json
// @Param        rendimiento_id  query  string  false  "Rendimiento en edición"
// @Success      200  {array}  dto.OrdenTrillaResponse
// @Router       /api/rendimientos/ordenes-disponibles [get]
func (h *RendimientoHandler) OrdenesDisponibles(c *fiber.Ctx) error {
	ordenes, err := h.uc.OrdenesDisponibles(c.Query("rendimiento_id"))
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.OrdenTrillaResponse, 0, len(ordenes))
	for _, o := range ordenes {
		out = append(out, toOrdenResponse(o))
	}
	return c.JSON(out)
}
