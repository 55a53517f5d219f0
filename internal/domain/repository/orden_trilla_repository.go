package repository

import "github.com/dmejiac/beneficio-api/internal/domain/entity"

// OrdenTrillaRepository es el puerto de solo lectura hacia las órdenes de
// trilla (subsistema externo). El núcleo únicamente necesita listarlas y
// resolver sus totales para los proyectados de un rendimiento.
type OrdenTrillaRepository interface {
	ListByIDs(ids []string) ([]*entity.OrdenTrilla, error)

	// ListDisponibles devuelve órdenes sin reclamo de otro rendimiento. Si
	// excluirRendimientoID no es vacío, los reclamos de ese rendimiento se
	// tratan como libres (siguen seleccionables durante la edición).
	ListDisponibles(excluirRendimientoID string) ([]*entity.OrdenTrilla, error)
}
