package repository

import (
	"github.com/shopspring/decimal"

	"github.com/dmejiac/beneficio-api/internal/domain/entity"
)

// VinetaRepository define el puerto de persistencia de viñetas. Las viñetas
// viven en una tabla indexada por número y por documento dueño, de modo que
// el cambio de estado cruzado (scan-and-patch del sistema original) sea un
// UPDATE acotado y no un recorrido de todos los documentos.
type VinetaRepository interface {
	CreateMany(vinetas []*entity.Vineta) error
	GetByID(id string) (*entity.Vineta, error)
	ListByIDs(ids []string) ([]*entity.Vineta, error)
	ListByRendimiento(rendimientoID string) ([]*entity.Vineta, error)
	ListBySalidaReproceso(reprocesoID string) ([]*entity.Vineta, error)

	// ListSeleccionables devuelve candidatas a insumo de reproceso: estado
	// EN_STOCK o PARCIALMENTE_MEZCLADA con peso > epsilon, más los insumos
	// vigentes de incluirInsumosDe (para edición), excluyendo las salidas de
	// excluirSalidasDe (un reproceso no consume su propia salida).
	ListSeleccionables(epsilon decimal.Decimal, incluirInsumosDe, excluirSalidasDe string) ([]*entity.Vineta, error)

	// NumeroEnUso verifica unicidad global del número normalizado, ignorando
	// las viñetas excluidas (las que el documento en edición va a reemplazar).
	NumeroEnUso(numero string, excluirIDs []string) (bool, error)

	// Update modifica peso/subproducto/notas de una viñeta de salida aún en stock.
	Update(v *entity.Vineta) error
	Delete(ids []string) error

	// CambiarEstado escribe el estado sin condición previa. Devuelve false si
	// ninguna viñeta coincide (el caller lo registra como IntegrityWarning).
	CambiarEstado(id, estado string) (bool, error)

	// Reclamar marca la viñeta REPROCESADA solo si sigue disponible
	// (EN_STOCK o PARCIALMENTE_MEZCLADA). false = otra operación la consumió.
	Reclamar(id string) (bool, error)

	// RevertirAStock repone EN_STOCK a viñetas que siguen REPROCESADA. Las ya
	// EN_STOCK se ignoran (reversión repetida es no-op); las consumidas por
	// otra vía vuelven en enOtroEstado sin tocarse y son error del caller.
	RevertirAStock(ids []string) (revertidas []string, enOtroEstado []string, err error)
}
