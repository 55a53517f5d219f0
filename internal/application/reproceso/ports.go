package reproceso

import (
	"context"

	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD. Un guardado
// de reproceso escribe el documento, sus salidas y los cambios de estado de
// viñetas ajenas (reclamos y reversiones); la atomicidad evita que dos
// reprocesos concurrentes reclamen la misma viñeta EN_STOCK.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reproRepo repository.ReprocesoRepository,
		vinetaRepo repository.VinetaRepository,
	) error) error
}
