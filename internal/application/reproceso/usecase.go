package reproceso

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/application/dto"
	"github.com/dmejiac/beneficio-api/internal/application/validacion"
	"github.com/dmejiac/beneficio-api/internal/domain"
	"github.com/dmejiac/beneficio-api/internal/domain/consecutivo"
	"github.com/dmejiac/beneficio-api/internal/domain/entity"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
	"github.com/dmejiac/beneficio-api/pkg/logger"
)

// EpsilonPeso es el umbral de balanza por debajo del cual una viñeta se
// considera agotada y deja de ser seleccionable como insumo.
var EpsilonPeso = decimal.NewFromFloat(0.01)

// UseCase es el motor de reprocesos: consume viñetas existentes como insumo,
// proyecta la salida por viñeta, materializa las viñetas de salida y calcula
// la merma. Los cambios de estado cruzados (reclamo y reversión) ocurren en
// la misma transacción que el documento; dentro de un guardado las
// reversiones se aplican antes que los reclamos.
type UseCase struct {
	txRunner   TxRunner
	reproRepo  repository.ReprocesoRepository
	vinetaRepo repository.VinetaRepository
	log        *logger.Logger
}

// NewUseCase construye el motor de reprocesos.
func NewUseCase(txRunner TxRunner, reproRepo repository.ReprocesoRepository, vinetaRepo repository.VinetaRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, reproRepo: reproRepo, vinetaRepo: vinetaRepo, log: log}
}

// Seleccionables lista las viñetas elegibles como insumo. Al editar,
// excluirReprocesoID mantiene visibles los insumos vigentes de ese reproceso
// y oculta sus propias salidas (un reproceso no puede consumirse a sí mismo).
func (uc *UseCase) Seleccionables(excluirReprocesoID string) ([]*entity.Vineta, error) {
	return uc.vinetaRepo.ListSeleccionables(EpsilonPeso, excluirReprocesoID, excluirReprocesoID)
}

// GetByID obtiene un reproceso con insumos y salidas.
func (uc *UseCase) GetByID(id string) (*entity.Reproceso, error) {
	r, err := uc.reproRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// List lista reprocesos paginados.
func (uc *UseCase) List(limit, offset int) ([]*entity.Reproceso, error) {
	return uc.reproRepo.List(limit, offset)
}

// Guardar crea (ID vacío) o edita un reproceso completo. Orden interno del
// guardado: validar → reversiones de insumos retirados → reclamos de insumos
// nuevos → salidas → totales → persistir. Cualquier falla deja todo intacto.
func (uc *UseCase) Guardar(ctx context.Context, in dto.GuardarReprocesoRequest) (*entity.Reproceso, error) {
	ve := &domain.ValidationError{}
	if len(in.Insumos) == 0 {
		ve.Agregar("insumos", "", "seleccione al menos una viñeta de entrada")
	}
	vistos := make(map[string]bool, len(in.Insumos))
	for _, ins := range in.Insumos {
		if vistos[ins.VinetaID] {
			ve.Agregar("insumos", ins.VinetaID, "viñeta repetida como insumo")
		}
		vistos[ins.VinetaID] = true
	}
	if vErr := validacion.ValidarDrafts(in.Salidas); vErr != nil {
		ve.Errores = append(ve.Errores, vErr.Errores...)
	}
	if !ve.Vacio() {
		return nil, ve
	}

	var guardado *entity.Reproceso
	err := uc.txRunner.Run(ctx, func(
		reproRepo repository.ReprocesoRepository,
		vinetaRepo repository.VinetaRepository,
	) error {
		var existente *entity.Reproceso
		if in.ID != "" {
			var err error
			existente, err = reproRepo.GetByID(in.ID)
			if err != nil {
				return err
			}
			if existente == nil {
				return domain.ErrNotFound
			}
		}

		// Un insumo no puede ser salida del mismo reproceso (ciclo).
		if existente != nil {
			salidasPropias := make(map[string]bool, len(existente.Salidas))
			for _, s := range existente.Salidas {
				salidasPropias[s.ID] = true
			}
			for _, ins := range in.Insumos {
				if salidasPropias[ins.VinetaID] {
					return &domain.ConflictError{
						Recurso: "vineta",
						ID:      ins.VinetaID,
						Razon:   "es salida de este mismo reproceso; no puede ser insumo",
					}
				}
			}
		}

		if err := uc.validarUnicidadSalidas(vinetaRepo, in.Salidas, existente); err != nil {
			return err
		}

		now := time.Now()
		var salidasActuales []*entity.Vineta
		if existente != nil {
			salidasActuales = existente.Salidas
		}
		rec, err := validacion.Reconciliar(salidasActuales, in.Salidas, now)
		if err != nil {
			return err
		}

		// Deltas de estado de los insumos. Las reversiones de insumos
		// retirados van primero: una viñeta retirada y vuelta a agregar en el
		// mismo guardado debe verse disponible para su propio reclamo.
		previos := make(map[string]*entity.InsumoReproceso)
		if existente != nil {
			for _, ins := range existente.Insumos {
				previos[ins.VinetaID] = ins
			}
		}
		var retirados []string
		for id, ins := range previos {
			if !vistos[ins.VinetaID] {
				retirados = append(retirados, id)
			}
		}
		if len(retirados) > 0 {
			_, enOtroEstado, err := vinetaRepo.RevertirAStock(retirados)
			if err != nil {
				return err
			}
			if len(enOtroEstado) > 0 {
				return &domain.ConflictError{
					Recurso: "vineta",
					ID:      enOtroEstado[0],
					Razon:   "fue consumida por otra operación; no puede revertirse a stock",
				}
			}
		}

		insumos, err := uc.armarInsumos(vinetaRepo, in.Insumos, previos)
		if err != nil {
			return err
		}

		if existente == nil {
			guardado = &entity.Reproceso{
				ID:        uuid.New().String(),
				Fecha:     now,
				Notas:     in.Notas,
				Insumos:   insumos,
				Salidas:   rec.Crear,
				CreatedAt: now,
				UpdatedAt: now,
			}
			for _, v := range rec.Crear {
				v.ReprocesoID = guardado.ID
			}
			docs, err := reproRepo.ListDocumentos()
			if err != nil {
				return err
			}
			n := consecutivo.Siguiente(docs, entity.PrefijoReproceso)
			guardado.Documento = consecutivo.Documento(entity.PrefijoReproceso, n)
			guardado.RecalcularTotales()
			if err := reproRepo.Create(guardado); err != nil {
				return err
			}
			if err := vinetaRepo.CreateMany(rec.Crear); err != nil {
				return err
			}
			return nil
		}

		for _, v := range rec.Crear {
			v.ReprocesoID = existente.ID
		}
		if len(rec.EliminarIDs) > 0 {
			if err := vinetaRepo.Delete(rec.EliminarIDs); err != nil {
				return err
			}
		}
		for _, v := range rec.Actualizar {
			if err := vinetaRepo.Update(v); err != nil {
				return err
			}
		}
		if err := vinetaRepo.CreateMany(rec.Crear); err != nil {
			return err
		}

		existente.Notas = in.Notas
		existente.Insumos = insumos
		existente.UpdatedAt = now
		existente.Salidas, err = vinetaRepo.ListBySalidaReproceso(existente.ID)
		if err != nil {
			return err
		}
		existente.RecalcularTotales()
		if err := reproRepo.Update(existente); err != nil {
			return err
		}
		guardado = existente
		return nil
	})
	if err != nil {
		return nil, err
	}
	if guardado.MermaAnomala() {
		uc.log.Warn().
			Str("reproceso", guardado.Documento).
			Str("merma", guardado.Merma.String()).
			Msg("merma negativa: la salida supera la entrada")
	}
	uc.log.Info().
		Str("reproceso", guardado.Documento).
		Int("insumos", len(guardado.Insumos)).
		Int("salidas", len(guardado.Salidas)).
		Msg("reproceso guardado")
	return guardado, nil
}

// Eliminar anula un reproceso: repone sus insumos a EN_STOCK y borra sus
// salidas. Si una salida ya fue consumida aguas abajo, o un insumo fue
// consumido por otra vía, el borrado se rechaza completo. Repetir el borrado
// de un reproceso ya eliminado no revierte nada (idempotente).
func (uc *UseCase) Eliminar(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		reproRepo repository.ReprocesoRepository,
		vinetaRepo repository.VinetaRepository,
	) error {
		r, err := reproRepo.GetByID(id)
		if err != nil {
			return err
		}
		if r == nil {
			uc.log.Warn().Str("reproceso_id", id).Msg("eliminación de reproceso inexistente")
			return nil
		}
		salidaIDs := make([]string, 0, len(r.Salidas))
		for _, s := range r.Salidas {
			if s.Estado != entity.EstadoEnStock {
				return &domain.ConflictError{
					Recurso: "vineta",
					ID:      s.Numero,
					Razon:   "la salida ya fue consumida aguas abajo; el reproceso no puede eliminarse",
				}
			}
			salidaIDs = append(salidaIDs, s.ID)
		}
		insumoIDs := make([]string, 0, len(r.Insumos))
		for _, ins := range r.Insumos {
			insumoIDs = append(insumoIDs, ins.VinetaID)
		}
		_, enOtroEstado, err := vinetaRepo.RevertirAStock(insumoIDs)
		if err != nil {
			return err
		}
		if len(enOtroEstado) > 0 {
			return &domain.ConflictError{
				Recurso: "vineta",
				ID:      enOtroEstado[0],
				Razon:   "fue consumida por otra operación; no puede revertirse a stock",
			}
		}
		if len(salidaIDs) > 0 {
			if err := vinetaRepo.Delete(salidaIDs); err != nil {
				return err
			}
		}
		return reproRepo.Delete(id)
	})
}

// Finalizar marca o desmarca el candado de un reproceso. No toca insumos ni
// salidas; quién puede editar un documento finalizado lo decide la capa HTTP.
func (uc *UseCase) Finalizar(ctx context.Context, id string, finalizado bool) (*entity.Reproceso, error) {
	var guardado *entity.Reproceso
	err := uc.txRunner.Run(ctx, func(
		reproRepo repository.ReprocesoRepository,
		vinetaRepo repository.VinetaRepository,
	) error {
		r, err := reproRepo.GetByID(id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		r.Finalizado = finalizado
		r.UpdatedAt = time.Now()
		if err := reproRepo.Update(r); err != nil {
			return err
		}
		guardado = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("reproceso", guardado.Documento).
		Bool("finalizado", finalizado).
		Msg("candado de reproceso actualizado")
	return guardado, nil
}

// armarInsumos construye la lista de insumos del documento: los conservados
// mantienen su snapshot original (peso al momento de la selección); los nuevos
// se reclaman y toman snapshot del estado actual de la viñeta. Las proyecciones
// se ajustan a la regla del presupuesto de 100%.
func (uc *UseCase) armarInsumos(vinetaRepo repository.VinetaRepository, drafts []dto.InsumoDraft, previos map[string]*entity.InsumoReproceso) ([]*entity.InsumoReproceso, error) {
	insumos := make([]*entity.InsumoReproceso, 0, len(drafts))
	for _, d := range drafts {
		pctP, pctC := AjustarProyeccion(d.PctPrimeras, d.PctCatadura)
		if prev, ok := previos[d.VinetaID]; ok {
			mod := *prev
			mod.PctPrimeras = pctP
			mod.PctCatadura = pctC
			insumos = append(insumos, &mod)
			continue
		}
		v, err := vinetaRepo.GetByID(d.VinetaID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			ve := &domain.ValidationError{}
			return nil, ve.Agregar("insumos", d.VinetaID, "la viñeta no existe")
		}
		reclamada, err := vinetaRepo.Reclamar(d.VinetaID)
		if err != nil {
			return nil, err
		}
		if !reclamada {
			return nil, &domain.ConflictError{
				Recurso: "vineta",
				ID:      v.Numero,
				Razon:   "ya no está disponible; otra operación la consumió",
			}
		}
		insumos = append(insumos, &entity.InsumoReproceso{
			VinetaID:            v.ID,
			NumeroSnapshot:      v.Numero,
			SubproductoSnapshot: v.Subproducto,
			PesoSnapshot:        v.PesoActual,
			PctPrimeras:         pctP,
			PctCatadura:         pctC,
		})
	}
	return insumos, nil
}

// validarUnicidadSalidas verifica los números de las salidas contra el resto
// del sistema, excluyendo las salidas propias del reproceso en edición.
func (uc *UseCase) validarUnicidadSalidas(vinetaRepo repository.VinetaRepository, drafts []dto.VinetaDraft, existente *entity.Reproceso) error {
	var excluir []string
	if existente != nil {
		for _, s := range existente.Salidas {
			excluir = append(excluir, s.ID)
		}
	}
	ve := &domain.ValidationError{}
	for _, d := range drafts {
		enUso, err := vinetaRepo.NumeroEnUso(entity.NormalizarNumero(d.Numero), excluir)
		if err != nil {
			return err
		}
		if enUso {
			ve.Agregar("numero", d.ID, "el número de viñeta ya existe en el sistema")
		}
	}
	if ve.Vacio() {
		return nil
	}
	return ve
}
