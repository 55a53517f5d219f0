// Package validacion agrupa las reglas de validación de viñetas digitadas,
// compartidas por los motores de rendimiento y reproceso.
package validacion

import (
	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

// ValidarNumero valida un número de viñeta contra el propio formulario:
// vacío o repetido dentro del formulario es rechazo inmediato. La unicidad
// contra el resto del sistema la verifica el motor dentro de su transacción.
// enFormulario son los demás números del mismo formulario (ya normalizados).
func ValidarNumero(candidato string, enFormulario []string) (razon string, ok bool) {
	n := entity.NormalizarNumero(candidato)
	if n == "" {
		return "el número de viñeta es obligatorio", false
	}
	for _, otro := range enFormulario {
		if n == otro {
			return "número repetido en el formulario", false
		}
	}
	return "", true
}

// ValidarDrafts aplica las reglas por fila a las viñetas digitadas: número
// obligatorio y único dentro del formulario, subproducto obligatorio y peso
// positivo. Devuelve nil si todo es válido.
func ValidarDrafts(drafts []dto.VinetaDraft) *domain.ValidationError {
	ve := &domain.ValidationError{}
	vistos := make([]string, 0, len(drafts))
	for _, d := range drafts {
		ref := d.ID
		if ref == "" {
			ref = entity.NormalizarNumero(d.Numero)
		}
		if razon, ok := ValidarNumero(d.Numero, vistos); !ok {
			ve.Agregar("numero", ref, razon)
		} else {
			vistos = append(vistos, entity.NormalizarNumero(d.Numero))
		}
		if entity.NormalizarNumero(d.Subproducto) == "" {
			ve.Agregar("subproducto", ref, "el subproducto es obligatorio")
		}
		if !d.Peso.GreaterThan(decimal.Zero) {
			ve.Agregar("peso", ref, "el peso debe ser mayor que cero")
		}
	}
	if ve.Vacio() {
		return nil
	}
	return ve
}
