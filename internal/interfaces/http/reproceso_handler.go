package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/reproceso"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/infrastructure/pdf"
)

// ReprocesoHandler maneja las peticiones HTTP de reprocesos (protegido).
// El candado finalizado se aplica aquí: un documento finalizado solo lo
// puede editar, eliminar o reabrir un admin.
type ReprocesoHandler struct {
	uc   *reproceso.UseCase
	acta *pdf.ActaGenerator
}

// NewReprocesoHandler construye el handler.
func NewReprocesoHandler(uc *reproceso.UseCase, acta *pdf.ActaGenerator) *ReprocesoHandler {
	return &ReprocesoHandler{uc: uc, acta: acta}
}

// puedeModificar verifica el candado finalizado contra el rol del token.
func (h *ReprocesoHandler) puedeModificar(c *fiber.Ctx, id string) error {
	if id == "" {
		return nil
	}
	r, err := h.uc.GetByID(id)
	if err != nil {
		return err
	}
	if r.Finalizado && GetRole(c) != entity.RoleAdmin {
		return domain.ErrFinalizado
	}
	return nil
}

// List godoc
// @Summary      Listar reprocesos
// @Tags         reprocesos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ReprocesoResponse
// @Router       /api/reprocesos [get]
func (h *ReprocesoHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	docs, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.ReprocesoResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toReprocesoResponse(d))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener reproceso por ID
// @Tags         reprocesos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reproceso"
// @Success      200  {object}  dto.ReprocesoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reprocesos/{id} [get]
func (h *ReprocesoHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	doc, err := h.uc.GetByID(id)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(toReprocesoResponse(doc))
}

// Guardar godoc
// @Summary      Crear o editar un reproceso
// @Description  Con id vacío crea el documento y asigna consecutivo RP-n; con id reemplaza insumos y salidas de forma reconciliada. Un reproceso finalizado solo lo edita un admin.
// @Tags         reprocesos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GuardarReprocesoRequest  true  "Insumos, proyecciones y salidas"
// @Success      200   {object}  dto.ReprocesoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reprocesos [post]
func (h *ReprocesoHandler) Guardar(c *fiber.Ctx) error {
	var in dto.GuardarReprocesoRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.puedeModificar(c, in.ID); err != nil {
		return responderError(c, err)
	}
	doc, err := h.uc.Guardar(c.Context(), in)
	if err != nil {
		return responderError(c, err)
	}
	status := fiber.StatusOK
	if in.ID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toReprocesoResponse(doc))
}

// Eliminar godoc
// @Summary      Eliminar un reproceso
// @Description  Repone los insumos a EN_STOCK y borra las salidas. Rechaza con 409 si una salida ya fue consumida aguas abajo.
// @Tags         reprocesos
// @Security     Bearer
// @Param        id  path  string  true  "ID del reproceso"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reprocesos/{id} [delete]
func (h *ReprocesoHandler) Eliminar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.puedeModificar(c, id); err != nil {
		// La eliminación repetida de un documento inexistente es un no-op.
		if err == domain.ErrNotFound {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return responderError(c, err)
	}
	if err := h.uc.Eliminar(c.Context(), id); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Finalizar godoc
// @Summary      Marcar o reabrir el candado de un reproceso
// @Description  body {"finalizado": true|false}. Reabrir (false) requiere rol admin.
// @Tags         reprocesos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del reproceso"
// @Param        body  body  dto.FinalizarReprocesoRequest  true  "Estado del candado"
// @Success      200   {object}  dto.ReprocesoResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/reprocesos/{id}/finalizar [post]
func (h *ReprocesoHandler) Finalizar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.FinalizarReprocesoRequest
	if !parseBody(c, &in) {
		return nil
	}
	if !in.Finalizado && GetRole(c) != entity.RoleAdmin {
		return responderError(c, domain.ErrForbidden)
	}
	doc, err := h.uc.Finalizar(c.Context(), id, in.Finalizado)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(toReprocesoResponse(doc))
}

// Seleccionables godoc
// @Summary      Viñetas elegibles como insumo
// @Description  Viñetas en stock con peso sobre el umbral de balanza. Si se pasa reproceso_id, incluye los insumos vigentes de ese documento y excluye sus salidas.
// @Tags         reprocesos
// @Security     Bearer
// @Produce      json
// @Param        reproceso_id  query  string  false  "Reproceso en edición"
// @Success      200  {array}  dto.VinetaResponse
// @Router       /api/reprocesos/seleccionables [get]
func (h *ReprocesoHandler) Seleccionables(c *fiber.Ctx) error {
	vinetas, err := h.uc.Seleccionables(c.Query("reproceso_id"))
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.VinetaResponse, 0, len(vinetas))
	for _, v := range vinetas {
		out = append(out, toVinetaResponse(v))
	}
	return c.JSON(out)
}

// Acta godoc
// @Summary      Acta PDF de un reproceso
// @Tags         reprocesos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del reproceso"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reprocesos/{id}/acta [get]
func (h *ReprocesoHandler) Acta(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	doc, err := h.uc.GetByID(id)
	if err != nil {
		return responderError(c, err)
	}
	contenido, err := h.acta.GenerarActaReproceso(doc)
	if err != nil {
		return responderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="acta-`+doc.Documento+`.pdf"`)
	return c.Send(contenido)
}
