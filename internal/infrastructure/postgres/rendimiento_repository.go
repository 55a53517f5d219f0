package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

var _ repository.RendimientoRepository = (*RendimientoRepo)(nil)

// RendimientoRepo implementación sobre PostgreSQL (usable con pool o tx).
// El reclamo de órdenes vive en rendimiento_ordenes con unicidad por orden:
// dos rendimientos concurrentes no pueden reclamar la misma orden.
type RendimientoRepo struct {
	q Querier
}

// NewRendimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRendimientoRepository(q Querier) *RendimientoRepo {
	return &RendimientoRepo{q: q}
}

// Create persiste el documento y reclama sus órdenes.
func (r *RendimientoRepo) Create(rend *entity.Rendimiento) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO rendimientos (id, documento, fecha, proyectado_primeras, proyectado_catadura, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rend.ID, rend.Documento, rend.Fecha, rend.ProyectadoPrimeras, rend.ProyectadoCatadura,
		rend.CreatedAt, rend.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Recurso: "rendimiento", ID: rend.Documento, Razon: "número de documento duplicado"}
		}
		return storageError("create rendimiento", err)
	}
	return r.reclamarOrdenes(rend.ID, rend.OrdenesTrillaIDs)
}

// Update actualiza el documento y reemplaza sus reclamos de órdenes.
func (r *RendimientoRepo) Update(rend *entity.Rendimiento) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE rendimientos
		SET proyectado_primeras = $2, proyectado_catadura = $3, updated_at = $4
		WHERE id = $1`,
		rend.ID, rend.ProyectadoPrimeras, rend.ProyectadoCatadura, rend.UpdatedAt)
	if err != nil {
		return storageError("update rendimiento", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.q.Exec(context.Background(),
		`DELETE FROM rendimiento_ordenes WHERE rendimiento_id = $1`, rend.ID)
	if err != nil {
		return storageError("limpiar reclamos", err)
	}
	return r.reclamarOrdenes(rend.ID, rend.OrdenesTrillaIDs)
}

func (r *RendimientoRepo) reclamarOrdenes(rendimientoID string, ordenIDs []string) error {
	for _, ordenID := range ordenIDs {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO rendimiento_ordenes (rendimiento_id, orden_trilla_id)
			VALUES ($1, $2)`, rendimientoID, ordenID)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.ConflictError{Recurso: "orden_trilla", ID: ordenID, Razon: "ya fue reclamada por otro rendimiento"}
			}
			return storageError("reclamar orden", err)
		}
	}
	return nil
}

// GetByID obtiene un rendimiento con sus viñetas y órdenes; nil si no existe.
func (r *RendimientoRepo) GetByID(id string) (*entity.Rendimiento, error) {
	var rend entity.Rendimiento
	err := r.q.QueryRow(context.Background(), `
		SELECT id, documento, fecha, proyectado_primeras, proyectado_catadura, created_at, updated_at
		FROM rendimientos WHERE id = $1`, id).Scan(
		&rend.ID, &rend.Documento, &rend.Fecha,
		&rend.ProyectadoPrimeras, &rend.ProyectadoCatadura, &rend.CreatedAt, &rend.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get rendimiento", err)
	}
	if err := r.cargarDetalle(&rend); err != nil {
		return nil, err
	}
	return &rend, nil
}

// List lista rendimientos paginados con sus viñetas.
func (r *RendimientoRepo) List(limit, offset int) ([]*entity.Rendimiento, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, documento, fecha, proyectado_primeras, proyectado_catadura, created_at, updated_at
		FROM rendimientos ORDER BY fecha DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, storageError("list rendimientos", err)
	}
	defer rows.Close()
	var list []*entity.Rendimiento
	for rows.Next() {
		var rend entity.Rendimiento
		if err := rows.Scan(&rend.ID, &rend.Documento, &rend.Fecha,
			&rend.ProyectadoPrimeras, &rend.ProyectadoCatadura, &rend.CreatedAt, &rend.UpdatedAt); err != nil {
			return nil, storageError("scan rendimiento", err)
		}
		list = append(list, &rend)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterar rendimientos", err)
	}
	for _, rend := range list {
		if err := r.cargarDetalle(rend); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *RendimientoRepo) cargarDetalle(rend *entity.Rendimiento) error {
	vinetas, err := NewVinetaRepository(r.q).ListByRendimiento(rend.ID)
	if err != nil {
		return err
	}
	rend.Vinetas = vinetas

	rows, err := r.q.Query(context.Background(),
		`SELECT orden_trilla_id FROM rendimiento_ordenes WHERE rendimiento_id = $1`, rend.ID)
	if err != nil {
		return storageError("list reclamos", err)
	}
	rend.OrdenesTrillaIDs, err = collectIDs(rows)
	return err
}

// Delete elimina el documento y libera sus reclamos de órdenes. Las viñetas
// propias las elimina el motor antes, en la misma transacción.
func (r *RendimientoRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM rendimiento_ordenes WHERE rendimiento_id = $1`, id)
	if err != nil {
		return storageError("liberar reclamos", err)
	}
	_, err = r.q.Exec(context.Background(), `DELETE FROM rendimientos WHERE id = $1`, id)
	if err != nil {
		return storageError("delete rendimiento", err)
	}
	return nil
}

// ListDocumentos devuelve los números de documento existentes (para el consecutivo).
func (r *RendimientoRepo) ListDocumentos() ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT documento FROM rendimientos`)
	if err != nil {
		return nil, storageError("list documentos rendimiento", err)
	}
	return collectIDs(rows)
}
