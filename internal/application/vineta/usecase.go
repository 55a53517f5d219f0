package vineta

import (
	"context"

	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
	"github.com/dmejiac/beneficio-api/pkg/logger"
)

// EstadoUseCase es la máquina de estados de viñetas. La invocan los motores
// de rendimiento/reproceso y los consumidores externos (mezcla, trilla,
// venta) sin conocer el documento dueño de la viñeta.
type EstadoUseCase struct {
	txRunner   TxRunner
	vinetaRepo repository.VinetaRepository
	log        *logger.Logger
}

// NewEstadoUseCase construye la máquina de estados.
func NewEstadoUseCase(txRunner TxRunner, vinetaRepo repository.VinetaRepository, log *logger.Logger) *EstadoUseCase {
	return &EstadoUseCase{txRunner: txRunner, vinetaRepo: vinetaRepo, log: log}
}

// GetByID obtiene una viñeta.
func (uc *EstadoUseCase) GetByID(id string) (*entity.Vineta, error) {
	v, err := uc.vinetaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// SetEstado escribe el nuevo estado de una viñeta validando la transición.
// Si la viñeta no existe se registra una advertencia de integridad y la
// operación continúa: es un problema de higiene de datos, no del usuario.
func (uc *EstadoUseCase) SetEstado(ctx context.Context, id, nuevo string) error {
	if !entity.EstadoValido(nuevo) {
		ve := &domain.ValidationError{}
		return ve.Agregar("estado", id, "estado desconocido")
	}
	return uc.txRunner.Run(ctx, func(vinetaRepo repository.VinetaRepository) error {
		v, err := vinetaRepo.GetByID(id)
		if err != nil {
			return err
		}
		if v == nil {
			uc.log.Warn().
				Str("vineta_id", id).
				Str("estado", nuevo).
				Msg("advertencia de integridad: viñeta no encontrada al cambiar estado")
			return nil
		}
		if !entity.TransicionValida(v.Estado, nuevo) {
			return &domain.ConflictError{
				Recurso: "vineta",
				ID:      v.Numero,
				Razon:   "transición de estado no permitida: " + v.Estado + " → " + nuevo,
			}
		}
		encontrada, err := vinetaRepo.CambiarEstado(id, nuevo)
		if err != nil {
			return err
		}
		if !encontrada {
			uc.log.Warn().
				Str("vineta_id", id).
				Msg("advertencia de integridad: viñeta desapareció durante el cambio de estado")
		}
		return nil
	})
}

// RevertirAStock repone EN_STOCK en lote; lo usa el motor de reprocesos al
// retirar insumos o eliminar un documento. Una viñeta consumida por otra vía
// no se revierte: es ConflictError, nunca reversión silenciosa.
func (uc *EstadoUseCase) RevertirAStock(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return uc.txRunner.Run(ctx, func(vinetaRepo repository.VinetaRepository) error {
		revertidas, enOtroEstado, err := vinetaRepo.RevertirAStock(ids)
		if err != nil {
			return err
		}
		if len(enOtroEstado) > 0 {
			return &domain.ConflictError{
				Recurso: "vineta",
				ID:      enOtroEstado[0],
				Razon:   "fue consumida por otra operación; no puede revertirse a stock",
			}
		}
		if faltantes := len(ids) - len(revertidas) - len(enOtroEstado); faltantes > 0 {
			uc.log.Warn().
				Int("faltantes", faltantes).
				Msg("advertencia de integridad: viñetas no encontradas al revertir a stock")
		}
		return nil
	})
}
