package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

var _ repository.VinetaRepository = (*VinetaRepo)(nil)

const vinetaColumns = `id, numero, subproducto, peso_original, peso_actual, estado, notas,
	COALESCE(rendimiento_id, ''), COALESCE(reproceso_id, ''), created_at, updated_at`

// VinetaRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla vinetas es el índice explícito viñeta → documento dueño: el cambio
// de estado cruzado es un UPDATE por id, no un recorrido de documentos.
type VinetaRepo struct {
	q Querier
}

// NewVinetaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVinetaRepository(q Querier) *VinetaRepo {
	return &VinetaRepo{q: q}
}

// CreateMany persiste viñetas nuevas. Una violación del índice único de
// número (carrera con otro guardado concurrente) se reporta como conflicto.
func (r *VinetaRepo) CreateMany(vinetas []*entity.Vineta) error {
	query := `
		INSERT INTO vinetas (id, numero, subproducto, peso_original, peso_actual, estado, notas, rendimiento_id, reproceso_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)`
	for _, v := range vinetas {
		_, err := r.q.Exec(context.Background(), query,
			v.ID, v.Numero, v.Subproducto, v.PesoOriginal, v.PesoActual,
			v.Estado, v.Notas, v.RendimientoID, v.ReprocesoID, v.CreatedAt, v.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.ConflictError{Recurso: "vineta", ID: v.Numero, Razon: "el número de viñeta ya existe en el sistema"}
			}
			return storageError("create vineta", err)
		}
	}
	return nil
}

// GetByID obtiene una viñeta por ID; nil si no existe.
func (r *VinetaRepo) GetByID(id string) (*entity.Vineta, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+vinetaColumns+` FROM vinetas WHERE id = $1`, id)
	v, err := scanVineta(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get vineta", err)
	}
	return v, nil
}

// ListByIDs obtiene viñetas por lote de ids.
func (r *VinetaRepo) ListByIDs(ids []string) ([]*entity.Vineta, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT `+vinetaColumns+` FROM vinetas WHERE id = ANY($1) ORDER BY numero`, ids)
	if err != nil {
		return nil, storageError("list vinetas by ids", err)
	}
	return collectVinetas(rows)
}

// ListByRendimiento lista las viñetas propias de un rendimiento.
func (r *VinetaRepo) ListByRendimiento(rendimientoID string) ([]*entity.Vineta, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+vinetaColumns+` FROM vinetas WHERE rendimiento_id = $1 ORDER BY numero`, rendimientoID)
	if err != nil {
		return nil, storageError("list vinetas by rendimiento", err)
	}
	return collectVinetas(rows)
}

// ListBySalidaReproceso lista las viñetas de salida propias de un reproceso.
func (r *VinetaRepo) ListBySalidaReproceso(reprocesoID string) ([]*entity.Vineta, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+vinetaColumns+` FROM vinetas WHERE reproceso_id = $1 ORDER BY numero`, reprocesoID)
	if err != nil {
		return nil, storageError("list vinetas by reproceso", err)
	}
	return collectVinetas(rows)
}

// ListSeleccionables lista candidatas a insumo de reproceso: disponibles con
// peso sobre el epsilon, más los insumos vigentes del reproceso en edición,
// excluyendo las salidas de ese mismo reproceso.
func (r *VinetaRepo) ListSeleccionables(epsilon decimal.Decimal, incluirInsumosDe, excluirSalidasDe string) ([]*entity.Vineta, error) {
	query := `
		SELECT ` + vinetaColumns + `
		FROM vinetas v
		WHERE (
			(v.estado IN ($1, $2) AND v.peso_actual > $3)
			OR ($4 <> '' AND EXISTS (
				SELECT 1 FROM reproceso_insumos ri
				WHERE ri.vineta_id = v.id AND ri.reproceso_id = $4))
		)
		AND ($5 = '' OR v.reproceso_id IS DISTINCT FROM $5)
		ORDER BY v.numero`
	rows, err := r.q.Query(context.Background(), query,
		entity.EstadoEnStock, entity.EstadoParcialMezcla, epsilon, incluirInsumosDe, excluirSalidasDe)
	if err != nil {
		return nil, storageError("list vinetas seleccionables", err)
	}
	return collectVinetas(rows)
}

// NumeroEnUso verifica la unicidad global del número normalizado, ignorando
// las viñetas del documento en edición.
func (r *VinetaRepo) NumeroEnUso(numero string, excluirIDs []string) (bool, error) {
	if excluirIDs == nil {
		excluirIDs = []string{}
	}
	var enUso bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM vinetas WHERE numero = $1 AND NOT (id = ANY($2)))`,
		numero, excluirIDs).Scan(&enUso)
	if err != nil {
		return false, storageError("numero en uso", err)
	}
	return enUso, nil
}

// Update modifica los campos editables de una viñeta aún en stock.
func (r *VinetaRepo) Update(v *entity.Vineta) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE vinetas
		SET numero = $2, subproducto = $3, peso_original = $4, peso_actual = $5, notas = $6, updated_at = $7
		WHERE id = $1`,
		v.ID, v.Numero, v.Subproducto, v.PesoOriginal, v.PesoActual, v.Notas, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Recurso: "vineta", ID: v.Numero, Razon: "el número de viñeta ya existe en el sistema"}
		}
		return storageError("update vineta", err)
	}
	return nil
}

// Delete elimina viñetas por lote de ids.
func (r *VinetaRepo) Delete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(context.Background(), `DELETE FROM vinetas WHERE id = ANY($1)`, ids)
	if err != nil {
		return storageError("delete vinetas", err)
	}
	return nil
}

// CambiarEstado escribe el estado sin condición previa; false si nadie coincide.
func (r *VinetaRepo) CambiarEstado(id, estado string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE vinetas SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return false, storageError("cambiar estado", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Reclamar marca REPROCESADA de forma condicional: solo si la viñeta sigue
// disponible. El UPDATE condicionado es el candado optimista contra dos
// reprocesos concurrentes reclamando la misma viñeta.
func (r *VinetaRepo) Reclamar(id string) (bool, error) {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE vinetas SET estado = $2, updated_at = now()
		WHERE id = $1 AND estado IN ($3, $4)`,
		id, entity.EstadoReprocesada, entity.EstadoEnStock, entity.EstadoParcialMezcla)
	if err != nil {
		return false, storageError("reclamar vineta", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RevertirAStock repone EN_STOCK a las viñetas que siguen REPROCESADA.
// Las que ya están EN_STOCK se ignoran (reversión repetida es no-op); las que
// están en cualquier otro estado se devuelven como conflicto sin tocarlas.
func (r *VinetaRepo) RevertirAStock(ids []string) (revertidas []string, enOtroEstado []string, err error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	rows, err := r.q.Query(context.Background(), `
		UPDATE vinetas SET estado = $2, updated_at = now()
		WHERE id = ANY($1) AND estado = $3
		RETURNING id`,
		ids, entity.EstadoEnStock, entity.EstadoReprocesada)
	if err != nil {
		return nil, nil, storageError("revertir a stock", err)
	}
	revertidas, err = collectIDs(rows)
	if err != nil {
		return nil, nil, err
	}
	rows, err = r.q.Query(context.Background(),
		`SELECT id FROM vinetas WHERE id = ANY($1) AND estado <> $2`,
		ids, entity.EstadoEnStock)
	if err != nil {
		return nil, nil, storageError("revertir a stock (verificación)", err)
	}
	enOtroEstado, err = collectIDs(rows)
	if err != nil {
		return nil, nil, err
	}
	return revertidas, enOtroEstado, nil
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageError("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterar ids", err)
	}
	return ids, nil
}

func scanVineta(row pgx.Row) (*entity.Vineta, error) {
	var v entity.Vineta
	err := row.Scan(&v.ID, &v.Numero, &v.Subproducto, &v.PesoOriginal, &v.PesoActual,
		&v.Estado, &v.Notas, &v.RendimientoID, &v.ReprocesoID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVinetas(rows pgx.Rows) ([]*entity.Vineta, error) {
	defer rows.Close()
	var list []*entity.Vineta
	for rows.Next() {
		v, err := scanVineta(rows)
		if err != nil {
			return nil, storageError("scan vineta", err)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterar vinetas", err)
	}
	return list, nil
}
