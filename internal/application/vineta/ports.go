package vineta

import (
	"context"

	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de viñetas atado a ella. El cambio de estado lee y escribe
// la misma fila; la transacción evita que dos consumidores externos marquen
// la misma viñeta a la vez.
type TxRunner interface {
	Run(ctx context.Context, fn func(vinetaRepo repository.VinetaRepository) error) error
}
