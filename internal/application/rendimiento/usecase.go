package rendimiento

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/validacion"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/consecutivo"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
	"github.com/dmejiac/beneficio-api/pkg/logger"
)

// UseCase es el motor de rendimientos: cierra órdenes de trilla tomando un
// snapshot de sus totales proyectados y materializa las viñetas físicamente
// pesadas. Todo guardado es una transacción: documento, viñetas y reclamos de
// órdenes se escriben completos o no se escribe nada.
type UseCase struct {
	txRunner  TxRunner
	rendRepo  repository.RendimientoRepository
	ordenRepo repository.OrdenTrillaRepository
	log       *logger.Logger
}

// NewUseCase construye el motor de rendimientos.
func NewUseCase(txRunner TxRunner, rendRepo repository.RendimientoRepository, ordenRepo repository.OrdenTrillaRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, rendRepo: rendRepo, ordenRepo: ordenRepo, log: log}
}

// OrdenesDisponibles lista las órdenes de trilla sin reclamar. Al editar,
// excluirRendimientoID deja seleccionables los reclamos propios del documento.
func (uc *UseCase) OrdenesDisponibles(excluirRendimientoID string) ([]*entity.OrdenTrilla, error) {
	return uc.ordenRepo.ListDisponibles(excluirRendimientoID)
}

// GetByID obtiene un rendimiento con sus viñetas y órdenes.
func (uc *UseCase) GetByID(id string) (*entity.Rendimiento, error) {
	r, err := uc.rendRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// List lista rendimientos paginados.
func (uc *UseCase) List(limit, offset int) ([]*entity.Rendimiento, error) {
	return uc.rendRepo.List(limit, offset)
}

// Guardar crea (ID vacío) o edita un rendimiento. La edición reemplaza la
// lista de viñetas completa; el número de documento nunca cambia.
func (uc *UseCase) Guardar(ctx context.Context, in dto.GuardarRendimientoRequest) (*entity.Rendimiento, error) {
	ve := &domain.ValidationError{}
	if len(in.OrdenesIDs) == 0 {
		ve.Agregar("ordenes_ids", "", "seleccione al menos una orden de trilla")
	}
	if len(in.Vinetas) == 0 {
		ve.Agregar("vinetas", "", "registre al menos una viñeta")
	}
	if vErr := validacion.ValidarDrafts(in.Vinetas); vErr != nil {
		ve.Errores = append(ve.Errores, vErr.Errores...)
	}
	if !ve.Vacio() {
		return nil, ve
	}

	var guardado *entity.Rendimiento
	err := uc.txRunner.Run(ctx, func(
		rendRepo repository.RendimientoRepository,
		vinetaRepo repository.VinetaRepository,
		ordenRepo repository.OrdenTrillaRepository,
	) error {
		var existente *entity.Rendimiento
		if in.ID != "" {
			var err error
			existente, err = rendRepo.GetByID(in.ID)
			if err != nil {
				return err
			}
			if existente == nil {
				return domain.ErrNotFound
			}
		}

		if err := uc.validarUnicidad(vinetaRepo, in.Vinetas, existente); err != nil {
			return err
		}

		ordenes, err := ordenRepo.ListByIDs(in.OrdenesIDs)
		if err != nil {
			return err
		}
		if len(ordenes) != len(in.OrdenesIDs) {
			ve := &domain.ValidationError{}
			return ve.Agregar("ordenes_ids", "", "alguna orden de trilla no existe")
		}
		proyP, proyC := decimal.Zero, decimal.Zero
		for _, o := range ordenes {
			proyP = proyP.Add(o.TotalPrimeras)
			proyC = proyC.Add(o.TotalCatadura)
		}

		now := time.Now()
		if existente == nil {
			guardado = &entity.Rendimiento{
				ID:                 uuid.New().String(),
				Fecha:              now,
				OrdenesTrillaIDs:   in.OrdenesIDs,
				ProyectadoPrimeras: proyP,
				ProyectadoCatadura: proyC,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			docs, err := rendRepo.ListDocumentos()
			if err != nil {
				return err
			}
			n := consecutivo.Siguiente(docs, entity.PrefijoRendimiento)
			guardado.Documento = consecutivo.Documento(entity.PrefijoRendimiento, n)

			rec, err := validacion.Reconciliar(nil, in.Vinetas, now)
			if err != nil {
				return err
			}
			for _, v := range rec.Crear {
				v.RendimientoID = guardado.ID
			}
			guardado.Vinetas = rec.Crear
			if err := rendRepo.Create(guardado); err != nil {
				return err
			}
			return vinetaRepo.CreateMany(rec.Crear)
		}

		rec, err := validacion.Reconciliar(existente.Vinetas, in.Vinetas, now)
		if err != nil {
			return err
		}
		for _, v := range rec.Crear {
			v.RendimientoID = existente.ID
		}
		if len(rec.EliminarIDs) > 0 {
			if err := vinetaRepo.Delete(rec.EliminarIDs); err != nil {
				return err
			}
		}
		for _, v := range rec.Actualizar {
			if err := vinetaRepo.Update(v); err != nil {
				return err
			}
		}
		if err := vinetaRepo.CreateMany(rec.Crear); err != nil {
			return err
		}

		existente.OrdenesTrillaIDs = in.OrdenesIDs
		existente.ProyectadoPrimeras = proyP
		existente.ProyectadoCatadura = proyC
		existente.UpdatedAt = now
		if err := rendRepo.Update(existente); err != nil {
			return err
		}
		existente.Vinetas, err = vinetaRepo.ListByRendimiento(existente.ID)
		if err != nil {
			return err
		}
		guardado = existente
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("rendimiento", guardado.Documento).
		Int("vinetas", len(guardado.Vinetas)).
		Msg("rendimiento guardado")
	return guardado, nil
}

// Eliminar anula un rendimiento y sus viñetas. Si alguna viñeta propia ya fue
// consumida aguas abajo, el documento no puede eliminarse.
func (uc *UseCase) Eliminar(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		rendRepo repository.RendimientoRepository,
		vinetaRepo repository.VinetaRepository,
		_ repository.OrdenTrillaRepository,
	) error {
		r, err := rendRepo.GetByID(id)
		if err != nil {
			return err
		}
		if r == nil {
			// Eliminación repetida: no hay nada que revertir.
			uc.log.Warn().Str("rendimiento_id", id).Msg("eliminación de rendimiento inexistente")
			return nil
		}
		ids := make([]string, 0, len(r.Vinetas))
		for _, v := range r.Vinetas {
			if v.Estado != entity.EstadoEnStock {
				return &domain.ConflictError{
					Recurso: "vineta",
					ID:      v.Numero,
					Razon:   "ya fue consumida por otra operación; el rendimiento no puede eliminarse",
				}
			}
			ids = append(ids, v.ID)
		}
		if len(ids) > 0 {
			if err := vinetaRepo.Delete(ids); err != nil {
				return err
			}
		}
		return rendRepo.Delete(id)
	})
}

// validarUnicidad verifica cada número digitado contra el resto del sistema,
// excluyendo las viñetas propias del documento en edición.
func (uc *UseCase) validarUnicidad(vinetaRepo repository.VinetaRepository, drafts []dto.VinetaDraft, existente *entity.Rendimiento) error {
	var excluir []string
	if existente != nil {
		for _, v := range existente.Vinetas {
			excluir = append(excluir, v.ID)
		}
	}
	ve := &domain.ValidationError{}
	for _, d := range drafts {
		enUso, err := vinetaRepo.NumeroEnUso(entity.NormalizarNumero(d.Numero), excluir)
		if err != nil {
			return err
		}
		if enUso {
			ve.Agregar("numero", d.ID, "el número de viñeta ya existe en el sistema")
		}
	}
	if ve.Vacio() {
		return nil
	}
	return ve
}
