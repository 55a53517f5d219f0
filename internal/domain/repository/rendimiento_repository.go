package repository

import "github.com/dmejiac/beneficio-api/internal/domain/entity"

// RendimientoRepository define el puerto de persistencia de rendimientos.
// Create y Update registran también el reclamo de las órdenes de trilla
// (tabla de reclamos con unicidad por orden); un reclamo duplicado debe
// traducirse a ConflictError, nunca a escritura parcial.
type RendimientoRepository interface {
	Create(r *entity.Rendimiento) error
	Update(r *entity.Rendimiento) error
	GetByID(id string) (*entity.Rendimiento, error)
	List(limit, offset int) ([]*entity.Rendimiento, error)
	Delete(id string) error

	// ListDocumentos devuelve los números de documento existentes (REN-n)
	// para el consecutivo; se consulta dentro de la transacción del guardado.
	ListDocumentos() ([]string, error)
}
