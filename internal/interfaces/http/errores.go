package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/domain"
)

// validate valida los DTOs de entrada (tags `validate`) antes de llegar al motor.
var validate = validator.New()

// parseBody parsea y valida el cuerpo JSON; responde 400 con el campo ofensor.
func parseBody(c *fiber.Ctx, out any) (ok bool) {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "campo inválido: " + vErrs[0].Field(),
			})
			return false
		}
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		return false
	}
	return true
}

// responderError traduce los errores del dominio a códigos HTTP. Los
// ValidationError llevan el detalle por campo/viñeta; los ConflictError,
// el recurso ofensor.
func responderError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.EsValidacion(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Detalle: ve.Errores,
		})
	}
	if ce, ok := domain.EsConflicto(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CONFLICT",
			Message: ce.Razon,
			Detalle: fiber.Map{"recurso": ce.Recurso, "id": ce.ID},
		})
	}
	if se, ok := domain.EsAlmacenamiento(err); ok {
		// Falla de transporte con la base; reintentable por el cliente.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code:    "STORAGE",
			Message: "error de almacenamiento, reintente la operación",
			Detalle: fiber.Map{"operacion": se.Op},
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrFinalizado):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
