package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

var _ repository.ReprocesoRepository = (*ReprocesoRepo)(nil)

// ReprocesoRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los insumos (referencia débil + snapshot + proyección) viven en
// reproceso_insumos y se reemplazan completos en cada Update.
type ReprocesoRepo struct {
	q Querier
}

// NewReprocesoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReprocesoRepository(q Querier) *ReprocesoRepo {
	return &ReprocesoRepo{q: q}
}

// Create persiste el documento, sus insumos y totales.
func (r *ReprocesoRepo) Create(rep *entity.Reproceso) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO reprocesos (id, documento, fecha, notas, finalizado, total_entrada, total_salida,
			merma, proyectado_primeras, proyectado_catadura, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rep.ID, rep.Documento, rep.Fecha, rep.Notas, rep.Finalizado,
		rep.TotalEntrada, rep.TotalSalida, rep.Merma,
		rep.ProyectadoPrimeras, rep.ProyectadoCatadura, rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Recurso: "reproceso", ID: rep.Documento, Razon: "número de documento duplicado"}
		}
		return storageError("create reproceso", err)
	}
	return r.insertarInsumos(rep.ID, rep.Insumos)
}

// Update actualiza el documento y reemplaza sus insumos completos.
func (r *ReprocesoRepo) Update(rep *entity.Reproceso) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE reprocesos
		SET notas = $2, finalizado = $3, total_entrada = $4, total_salida = $5, merma = $6,
			proyectado_primeras = $7, proyectado_catadura = $8, updated_at = $9
		WHERE id = $1`,
		rep.ID, rep.Notas, rep.Finalizado, rep.TotalEntrada, rep.TotalSalida, rep.Merma,
		rep.ProyectadoPrimeras, rep.ProyectadoCatadura, rep.UpdatedAt)
	if err != nil {
		return storageError("update reproceso", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	_, err = r.q.Exec(context.Background(),
		`DELETE FROM reproceso_insumos WHERE reproceso_id = $1`, rep.ID)
	if err != nil {
		return storageError("limpiar insumos", err)
	}
	return r.insertarInsumos(rep.ID, rep.Insumos)
}

func (r *ReprocesoRepo) insertarInsumos(reprocesoID string, insumos []*entity.InsumoReproceso) error {
	query := `
		INSERT INTO reproceso_insumos (reproceso_id, vineta_id, numero_snapshot, subproducto_snapshot,
			peso_snapshot, pct_primeras, pct_catadura)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, ins := range insumos {
		_, err := r.q.Exec(context.Background(), query,
			reprocesoID, ins.VinetaID, ins.NumeroSnapshot, ins.SubproductoSnapshot,
			ins.PesoSnapshot, ins.PctPrimeras, ins.PctCatadura)
		if err != nil {
			return storageError("insertar insumo", err)
		}
	}
	return nil
}

// GetByID obtiene un reproceso con insumos y salidas; nil si no existe.
func (r *ReprocesoRepo) GetByID(id string) (*entity.Reproceso, error) {
	var rep entity.Reproceso
	err := r.q.QueryRow(context.Background(), `
		SELECT id, documento, fecha, notas, finalizado, total_entrada, total_salida,
			merma, proyectado_primeras, proyectado_catadura, created_at, updated_at
		FROM reprocesos WHERE id = $1`, id).Scan(
		&rep.ID, &rep.Documento, &rep.Fecha, &rep.Notas, &rep.Finalizado,
		&rep.TotalEntrada, &rep.TotalSalida, &rep.Merma,
		&rep.ProyectadoPrimeras, &rep.ProyectadoCatadura, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get reproceso", err)
	}
	if err := r.cargarDetalle(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// List lista reprocesos paginados con insumos y salidas.
func (r *ReprocesoRepo) List(limit, offset int) ([]*entity.Reproceso, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, documento, fecha, notas, finalizado, total_entrada, total_salida,
			merma, proyectado_primeras, proyectado_catadura, created_at, updated_at
		FROM reprocesos ORDER BY fecha DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, storageError("list reprocesos", err)
	}
	defer rows.Close()
	var list []*entity.Reproceso
	for rows.Next() {
		var rep entity.Reproceso
		if err := rows.Scan(&rep.ID, &rep.Documento, &rep.Fecha, &rep.Notas, &rep.Finalizado,
			&rep.TotalEntrada, &rep.TotalSalida, &rep.Merma,
			&rep.ProyectadoPrimeras, &rep.ProyectadoCatadura, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, storageError("scan reproceso", err)
		}
		list = append(list, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterar reprocesos", err)
	}
	for _, rep := range list {
		if err := r.cargarDetalle(rep); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ReprocesoRepo) cargarDetalle(rep *entity.Reproceso) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT vineta_id, numero_snapshot, subproducto_snapshot, peso_snapshot, pct_primeras, pct_catadura
		FROM reproceso_insumos WHERE reproceso_id = $1 ORDER BY numero_snapshot`, rep.ID)
	if err != nil {
		return storageError("list insumos", err)
	}
	defer rows.Close()
	rep.Insumos = nil
	for rows.Next() {
		var ins entity.InsumoReproceso
		if err := rows.Scan(&ins.VinetaID, &ins.NumeroSnapshot, &ins.SubproductoSnapshot,
			&ins.PesoSnapshot, &ins.PctPrimeras, &ins.PctCatadura); err != nil {
			return storageError("scan insumo", err)
		}
		rep.Insumos = append(rep.Insumos, &ins)
	}
	if err := rows.Err(); err != nil {
		return storageError("iterar insumos", err)
	}
	rep.Salidas, err = NewVinetaRepository(r.q).ListBySalidaReproceso(rep.ID)
	return err
}

// Delete elimina el documento y sus insumos. Las salidas y la reversión de
// estados corren por cuenta del motor, en la misma transacción.
func (r *ReprocesoRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM reproceso_insumos WHERE reproceso_id = $1`, id)
	if err != nil {
		return storageError("delete insumos", err)
	}
	_, err = r.q.Exec(context.Background(), `DELETE FROM reprocesos WHERE id = $1`, id)
	if err != nil {
		return storageError("delete reproceso", err)
	}
	return nil
}

// ListDocumentos devuelve los números de documento existentes (para el consecutivo).
func (r *ReprocesoRepo) ListDocumentos() ([]string, error) {
	rows, err := r.q.Query(context.Background(), `SELECT documento FROM reprocesos`)
	if err != nil {
		return nil, storageError("list documentos reproceso", err)
	}
	return collectIDs(rows)
}
