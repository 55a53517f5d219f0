package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

var _ repository.OrdenTrillaRepository = (*OrdenTrillaRepo)(nil)

// OrdenTrillaRepo lectura de órdenes de trilla. El núcleo no las administra;
// solo consulta totales y disponibilidad de reclamo.
type OrdenTrillaRepo struct {
	q Querier
}

// NewOrdenTrillaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrdenTrillaRepository(q Querier) *OrdenTrillaRepo {
	return &OrdenTrillaRepo{q: q}
}

// ListByIDs obtiene órdenes por lote de ids.
func (r *OrdenTrillaRepo) ListByIDs(ids []string) ([]*entity.OrdenTrilla, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(context.Background(), `
		SELECT id, numero, total_trillar, total_primeras, total_catadura, fecha
		FROM ordenes_trilla WHERE id = ANY($1) ORDER BY numero`, ids)
	if err != nil {
		return nil, storageError("list ordenes by ids", err)
	}
	return collectOrdenes(rows)
}

// ListDisponibles lista órdenes sin reclamar por ningún rendimiento. Con
// excluirRendimientoID, los reclamos propios del documento en edición cuentan
// como libres.
func (r *OrdenTrillaRepo) ListDisponibles(excluirRendimientoID string) ([]*entity.OrdenTrilla, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT o.id, o.numero, o.total_trillar, o.total_primeras, o.total_catadura, o.fecha
		FROM ordenes_trilla o
		WHERE NOT EXISTS (
			SELECT 1 FROM rendimiento_ordenes ro
			WHERE ro.orden_trilla_id = o.id
			AND ($1 = '' OR ro.rendimiento_id <> $1)
		)
		ORDER BY o.fecha DESC`, excluirRendimientoID)
	if err != nil {
		return nil, storageError("list ordenes disponibles", err)
	}
	return collectOrdenes(rows)
}

func collectOrdenes(rows pgx.Rows) ([]*entity.OrdenTrilla, error) {
	defer rows.Close()
	var list []*entity.OrdenTrilla
	for rows.Next() {
		var o entity.OrdenTrilla
		if err := rows.Scan(&o.ID, &o.Numero, &o.TotalTrillar, &o.TotalPrimeras, &o.TotalCatadura, &o.Fecha); err != nil {
			return nil, storageError("scan orden", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterar ordenes", err)
	}
	return list, nil
}
