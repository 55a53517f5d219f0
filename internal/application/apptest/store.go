// Package apptest provee un almacén en memoria que implementa los puertos de
// persistencia de los motores, con semántica transaccional real: los TxRunner
// trabajan sobre una copia y solo publican al confirmar. Solo para pruebas.
package apptest

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

// errViolacionDueno emula el CHECK de vinetas: un dueño y solo uno.
var errViolacionDueno = errors.New("violación de constraint: la viñeta requiere exactamente un documento dueño")

// Store contiene el estado compartido de los fakes.
type Store struct {
	Vinetas      map[string]*entity.Vineta
	Rendimientos map[string]*entity.Rendimiento
	Reprocesos   map[string]*entity.Reproceso
	Ordenes      map[string]*entity.OrdenTrilla
	OrdenClaims  map[string]string // orden_trilla_id → rendimiento_id
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		Vinetas:      make(map[string]*entity.Vineta),
		Rendimientos: make(map[string]*entity.Rendimiento),
		Reprocesos:   make(map[string]*entity.Reproceso),
		Ordenes:      make(map[string]*entity.OrdenTrilla),
		OrdenClaims:  make(map[string]string),
	}
}

func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.Vinetas {
		cp := *v
		c.Vinetas[k] = &cp
	}
	for k, r := range s.Rendimientos {
		cp := *r
		cp.Vinetas = nil
		cp.OrdenesTrillaIDs = append([]string(nil), r.OrdenesTrillaIDs...)
		c.Rendimientos[k] = &cp
	}
	for k, r := range s.Reprocesos {
		cp := *r
		cp.Salidas = nil
		cp.Insumos = make([]*entity.InsumoReproceso, 0, len(r.Insumos))
		for _, ins := range r.Insumos {
			i := *ins
			cp.Insumos = append(cp.Insumos, &i)
		}
		c.Reprocesos[k] = &cp
	}
	for k, o := range s.Ordenes {
		cp := *o
		c.Ordenes[k] = &cp
	}
	for k, v := range s.OrdenClaims {
		c.OrdenClaims[k] = v
	}
	return c
}

func (s *Store) replaceWith(o *Store) {
	s.Vinetas = o.Vinetas
	s.Rendimientos = o.Rendimientos
	s.Reprocesos = o.Reprocesos
	s.Ordenes = o.Ordenes
	s.OrdenClaims = o.OrdenClaims
}

// AgregarOrden registra una orden de trilla (read model del subsistema de trilla).
func (s *Store) AgregarOrden(o *entity.OrdenTrilla) { s.Ordenes[o.ID] = o }

// AgregarVineta registra una viñeta ya existente.
func (s *Store) AgregarVineta(v *entity.Vineta) { s.Vinetas[v.ID] = v }

// ── VinetaRepo ────────────────────────────────────────────────────────────────

// VinetaRepo fake de repository.VinetaRepository.
type VinetaRepo struct{ S *Store }

var _ repository.VinetaRepository = (*VinetaRepo)(nil)

func (r *VinetaRepo) CreateMany(vinetas []*entity.Vineta) error {
	for _, v := range vinetas {
		// Misma regla que el CHECK de la tabla: exactamente un documento dueño.
		if (v.RendimientoID == "") == (v.ReprocesoID == "") {
			return &domain.StorageError{Op: "create vineta", Err: errViolacionDueno}
		}
		for _, otra := range r.S.Vinetas {
			if otra.Numero == v.Numero {
				return &domain.ConflictError{Recurso: "vineta", ID: v.Numero, Razon: "número de viñeta duplicado"}
			}
		}
		cp := *v
		r.S.Vinetas[v.ID] = &cp
	}
	return nil
}

func (r *VinetaRepo) GetByID(id string) (*entity.Vineta, error) {
	v, ok := r.S.Vinetas[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *VinetaRepo) ListByIDs(ids []string) ([]*entity.Vineta, error) {
	var out []*entity.Vineta
	for _, id := range ids {
		if v, ok := r.S.Vinetas[id]; ok {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *VinetaRepo) listPor(filtro func(*entity.Vineta) bool) []*entity.Vineta {
	var out []*entity.Vineta
	for _, v := range r.S.Vinetas {
		if filtro(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out
}

func (r *VinetaRepo) ListByRendimiento(rendimientoID string) ([]*entity.Vineta, error) {
	return r.listPor(func(v *entity.Vineta) bool { return v.RendimientoID == rendimientoID }), nil
}

func (r *VinetaRepo) ListBySalidaReproceso(reprocesoID string) ([]*entity.Vineta, error) {
	return r.listPor(func(v *entity.Vineta) bool { return v.ReprocesoID == reprocesoID }), nil
}

func (r *VinetaRepo) ListSeleccionables(epsilon decimal.Decimal, incluirInsumosDe, excluirSalidasDe string) ([]*entity.Vineta, error) {
	insumosVigentes := make(map[string]bool)
	if incluirInsumosDe != "" {
		if rep, ok := r.S.Reprocesos[incluirInsumosDe]; ok {
			for _, ins := range rep.Insumos {
				insumosVigentes[ins.VinetaID] = true
			}
		}
	}
	return r.listPor(func(v *entity.Vineta) bool {
		if excluirSalidasDe != "" && v.ReprocesoID == excluirSalidasDe {
			return false
		}
		return v.Disponible(epsilon) || insumosVigentes[v.ID]
	}), nil
}

func (r *VinetaRepo) NumeroEnUso(numero string, excluirIDs []string) (bool, error) {
	excluir := make(map[string]bool, len(excluirIDs))
	for _, id := range excluirIDs {
		excluir[id] = true
	}
	for _, v := range r.S.Vinetas {
		if v.Numero == numero && !excluir[v.ID] {
			return true, nil
		}
	}
	return false, nil
}

func (r *VinetaRepo) Update(v *entity.Vineta) error {
	if _, ok := r.S.Vinetas[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.S.Vinetas[v.ID] = &cp
	return nil
}

func (r *VinetaRepo) Delete(ids []string) error {
	for _, id := range ids {
		delete(r.S.Vinetas, id)
	}
	return nil
}

func (r *VinetaRepo) CambiarEstado(id, estado string) (bool, error) {
	v, ok := r.S.Vinetas[id]
	if !ok {
		return false, nil
	}
	v.Estado = estado
	return true, nil
}

func (r *VinetaRepo) Reclamar(id string) (bool, error) {
	v, ok := r.S.Vinetas[id]
	if !ok {
		return false, nil
	}
	if v.Estado != entity.EstadoEnStock && v.Estado != entity.EstadoParcialMezcla {
		return false, nil
	}
	v.Estado = entity.EstadoReprocesada
	return true, nil
}

func (r *VinetaRepo) RevertirAStock(ids []string) (revertidas, enOtroEstado []string, err error) {
	for _, id := range ids {
		v, ok := r.S.Vinetas[id]
		if !ok {
			continue
		}
		switch v.Estado {
		case entity.EstadoReprocesada:
			v.Estado = entity.EstadoEnStock
			revertidas = append(revertidas, id)
		case entity.EstadoEnStock:
			// reversión repetida: no-op
		default:
			enOtroEstado = append(enOtroEstado, id)
		}
	}
	return revertidas, enOtroEstado, nil
}

// ── RendimientoRepo ───────────────────────────────────────────────────────────

// RendimientoRepo fake de repository.RendimientoRepository.
type RendimientoRepo struct{ S *Store }

var _ repository.RendimientoRepository = (*RendimientoRepo)(nil)

func (r *RendimientoRepo) reclamar(rendimientoID string, ordenIDs []string) error {
	for orden, dueno := range r.S.OrdenClaims {
		if dueno == rendimientoID {
			delete(r.S.OrdenClaims, orden)
		}
	}
	for _, id := range ordenIDs {
		if dueno, ok := r.S.OrdenClaims[id]; ok && dueno != rendimientoID {
			return &domain.ConflictError{Recurso: "orden_trilla", ID: id, Razon: "ya fue reclamada por otro rendimiento"}
		}
		r.S.OrdenClaims[id] = rendimientoID
	}
	return nil
}

func (r *RendimientoRepo) Create(rend *entity.Rendimiento) error {
	cp := *rend
	cp.Vinetas = nil
	r.S.Rendimientos[rend.ID] = &cp
	return r.reclamar(rend.ID, rend.OrdenesTrillaIDs)
}

func (r *RendimientoRepo) Update(rend *entity.Rendimiento) error {
	if _, ok := r.S.Rendimientos[rend.ID]; !ok {
		return domain.ErrNotFound
	}
	return r.Create(rend)
}

func (r *RendimientoRepo) GetByID(id string) (*entity.Rendimiento, error) {
	rend, ok := r.S.Rendimientos[id]
	if !ok {
		return nil, nil
	}
	cp := *rend
	cp.Vinetas, _ = (&VinetaRepo{S: r.S}).ListByRendimiento(id)
	return &cp, nil
}

func (r *RendimientoRepo) List(limit, offset int) ([]*entity.Rendimiento, error) {
	var docs []string
	for id := range r.S.Rendimientos {
		docs = append(docs, id)
	}
	sort.Strings(docs)
	var out []*entity.Rendimiento
	for i, id := range docs {
		if i < offset || len(out) >= limit {
			continue
		}
		rend, _ := r.GetByID(id)
		out = append(out, rend)
	}
	return out, nil
}

func (r *RendimientoRepo) Delete(id string) error {
	for orden, dueno := range r.S.OrdenClaims {
		if dueno == id {
			delete(r.S.OrdenClaims, orden)
		}
	}
	delete(r.S.Rendimientos, id)
	return nil
}

func (r *RendimientoRepo) ListDocumentos() ([]string, error) {
	var out []string
	for _, rend := range r.S.Rendimientos {
		out = append(out, rend.Documento)
	}
	return out, nil
}

// ── ReprocesoRepo ─────────────────────────────────────────────────────────────

// ReprocesoRepo fake de repository.ReprocesoRepository.
type ReprocesoRepo struct{ S *Store }

var _ repository.ReprocesoRepository = (*ReprocesoRepo)(nil)

func (r *ReprocesoRepo) Create(rep *entity.Reproceso) error {
	cp := *rep
	cp.Salidas = nil
	cp.Insumos = make([]*entity.InsumoReproceso, 0, len(rep.Insumos))
	for _, ins := range rep.Insumos {
		i := *ins
		cp.Insumos = append(cp.Insumos, &i)
	}
	r.S.Reprocesos[rep.ID] = &cp
	return nil
}

func (r *ReprocesoRepo) Update(rep *entity.Reproceso) error {
	if _, ok := r.S.Reprocesos[rep.ID]; !ok {
		return domain.ErrNotFound
	}
	return r.Create(rep)
}

func (r *ReprocesoRepo) GetByID(id string) (*entity.Reproceso, error) {
	rep, ok := r.S.Reprocesos[id]
	if !ok {
		return nil, nil
	}
	cp := *rep
	cp.Insumos = make([]*entity.InsumoReproceso, 0, len(rep.Insumos))
	for _, ins := range rep.Insumos {
		i := *ins
		cp.Insumos = append(cp.Insumos, &i)
	}
	cp.Salidas, _ = (&VinetaRepo{S: r.S}).ListBySalidaReproceso(id)
	return &cp, nil
}

func (r *ReprocesoRepo) List(limit, offset int) ([]*entity.Reproceso, error) {
	var ids []string
	for id := range r.S.Reprocesos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Reproceso
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		rep, _ := r.GetByID(id)
		out = append(out, rep)
	}
	return out, nil
}

func (r *ReprocesoRepo) Delete(id string) error {
	delete(r.S.Reprocesos, id)
	return nil
}

func (r *ReprocesoRepo) ListDocumentos() ([]string, error) {
	var out []string
	for _, rep := range r.S.Reprocesos {
		out = append(out, rep.Documento)
	}
	return out, nil
}

// ── OrdenRepo ─────────────────────────────────────────────────────────────────

// OrdenRepo fake de repository.OrdenTrillaRepository.
type OrdenRepo struct{ S *Store }

var _ repository.OrdenTrillaRepository = (*OrdenRepo)(nil)

func (r *OrdenRepo) ListByIDs(ids []string) ([]*entity.OrdenTrilla, error) {
	var out []*entity.OrdenTrilla
	for _, id := range ids {
		if o, ok := r.S.Ordenes[id]; ok {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OrdenRepo) ListDisponibles(excluirRendimientoID string) ([]*entity.OrdenTrilla, error) {
	var out []*entity.OrdenTrilla
	for _, o := range r.S.Ordenes {
		dueno, reclamada := r.S.OrdenClaims[o.ID]
		if reclamada && dueno != excluirRendimientoID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

// ── TxRunners ─────────────────────────────────────────────────────────────────

// RendimientoTx corre la función sobre una copia del almacén y publica solo
// si no hay error, imitando commit/rollback.
type RendimientoTx struct{ S *Store }

func (t *RendimientoTx) Run(_ context.Context, fn func(
	repository.RendimientoRepository,
	repository.VinetaRepository,
	repository.OrdenTrillaRepository,
) error) error {
	trabajo := t.S.clone()
	if err := fn(&RendimientoRepo{S: trabajo}, &VinetaRepo{S: trabajo}, &OrdenRepo{S: trabajo}); err != nil {
		return err
	}
	t.S.replaceWith(trabajo)
	return nil
}

// ReprocesoTx idem para el motor de reprocesos.
type ReprocesoTx struct{ S *Store }

func (t *ReprocesoTx) Run(_ context.Context, fn func(
	repository.ReprocesoRepository,
	repository.VinetaRepository,
) error) error {
	trabajo := t.S.clone()
	if err := fn(&ReprocesoRepo{S: trabajo}, &VinetaRepo{S: trabajo}); err != nil {
		return err
	}
	t.S.replaceWith(trabajo)
	return nil
}

// VinetaTx idem para los cambios de estado externos.
type VinetaTx struct{ S *Store }

func (t *VinetaTx) Run(_ context.Context, fn func(repository.VinetaRepository) error) error {
	trabajo := t.S.clone()
	if err := fn(&VinetaRepo{S: trabajo}); err != nil {
		return err
	}
	t.S.replaceWith(trabajo)
	return nil
}
