package validacion

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

// Reconciliacion es el resultado de comparar las viñetas propias de un
// documento contra la lista digitada que las reemplaza.
type Reconciliacion struct {
	Crear       []*entity.Vineta
	Actualizar  []*entity.Vineta
	EliminarIDs []string
}

// Reconciliar calcula el reemplazo total de la lista de viñetas de un
// documento. Reglas:
//   - draft sin ID: viñeta nueva, nace EN_STOCK con PesoOriginal = PesoActual.
//   - draft con ID y viñeta EN_STOCK: se actualizan número, subproducto, notas
//     y peso (el peso corrige ambos pesos; la viñeta aún no fue consumida).
//   - draft con ID y viñeta ya consumida: solo se conserva; cualquier cambio
//     de número, subproducto o peso es ConflictError.
//   - viñeta existente ausente de la lista: se elimina si está EN_STOCK;
//     si ya fue consumida aguas abajo, ConflictError y nada se escribe.
func Reconciliar(existentes []*entity.Vineta, drafts []dto.VinetaDraft, now time.Time) (*Reconciliacion, error) {
	porID := make(map[string]*entity.Vineta, len(existentes))
	for _, v := range existentes {
		porID[v.ID] = v
	}

	rec := &Reconciliacion{}
	conservadas := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		if d.ID == "" {
			rec.Crear = append(rec.Crear, &entity.Vineta{
				ID:           uuid.New().String(),
				Numero:       entity.NormalizarNumero(d.Numero),
				Subproducto:  d.Subproducto,
				PesoOriginal: d.Peso,
				PesoActual:   d.Peso,
				Estado:       entity.EstadoEnStock,
				Notas:        d.Notas,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			continue
		}
		actual, ok := porID[d.ID]
		if !ok {
			ve := &domain.ValidationError{}
			return nil, ve.Agregar("id", d.ID, "la viñeta no pertenece a este documento")
		}
		conservadas[d.ID] = true
		numero := entity.NormalizarNumero(d.Numero)
		cambio := numero != actual.Numero ||
			d.Subproducto != actual.Subproducto ||
			!d.Peso.Equal(actual.PesoActual)
		if actual.Estado != entity.EstadoEnStock {
			if cambio {
				return nil, &domain.ConflictError{
					Recurso: "vineta",
					ID:      actual.Numero,
					Razon:   "ya fue consumida por otra operación; no admite cambios",
				}
			}
			continue
		}
		if cambio || d.Notas != actual.Notas {
			mod := *actual
			mod.Numero = numero
			mod.Subproducto = d.Subproducto
			mod.PesoOriginal = d.Peso
			mod.PesoActual = d.Peso
			mod.Notas = d.Notas
			mod.UpdatedAt = now
			rec.Actualizar = append(rec.Actualizar, &mod)
		}
	}

	for _, v := range existentes {
		if conservadas[v.ID] {
			continue
		}
		if v.Estado != entity.EstadoEnStock {
			return nil, &domain.ConflictError{
				Recurso: "vineta",
				ID:      v.Numero,
				Razon:   "ya fue consumida por otra operación; no puede retirarse del documento",
			}
		}
		rec.EliminarIDs = append(rec.EliminarIDs, v.ID)
	}
	return rec, nil
}
