package repository

import "github.com/dmejiac/beneficio-api/internal/domain/entity"

// ReprocesoRepository define el puerto de persistencia de reprocesos,
// incluidos los insumos (snapshot + proyección por viñeta de entrada).
type ReprocesoRepository interface {
	Create(r *entity.Reproceso) error
	Update(r *entity.Reproceso) error
	GetByID(id string) (*entity.Reproceso, error)
	List(limit, offset int) ([]*entity.Reproceso, error)
	Delete(id string) error

	// ListDocumentos devuelve los números de documento existentes (RP-n).
	ListDocumentos() ([]string, error)
}
