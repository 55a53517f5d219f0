package rendimiento

import (
	"context"

	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Un guardado de rendimiento toca el documento,
// sus viñetas y los reclamos de órdenes; todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		rendRepo repository.RendimientoRepository,
		vinetaRepo repository.VinetaRepository,
		ordenRepo repository.OrdenTrillaRepository,
	) error) error
}
