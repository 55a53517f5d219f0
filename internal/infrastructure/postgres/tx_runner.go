package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmejiac/beneficio-api/internal/application/rendimiento"
	"github.com/dmejiac/beneficio-api/internal/application/reproceso"
	"github.com/dmejiac/beneficio-api/internal/application/vineta"
	"github.com/dmejiac/beneficio-api/internal/domain/repository"
)

// Ensure TxRunner implements the engine ports.
var _ rendimiento.TxRunner = (*RendimientoTxRunner)(nil)
var _ reproceso.TxRunner = (*ReprocesoTxRunner)(nil)
var _ vineta.TxRunner = (*VinetaTxRunner)(nil)

// RendimientoTxRunner ejecuta un guardado de rendimiento dentro de una
// transacción PostgreSQL: documento, viñetas y reclamos de órdenes en un
// solo Commit.
type RendimientoTxRunner struct {
	pool *pgxpool.Pool
}

// NewRendimientoTxRunner construye el runner con el pool.
func NewRendimientoTxRunner(pool *pgxpool.Pool) *RendimientoTxRunner {
	return &RendimientoTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *RendimientoTxRunner) Run(ctx context.Context, fn func(
	rendRepo repository.RendimientoRepository,
	vinetaRepo repository.VinetaRepository,
	ordenRepo repository.OrdenTrillaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRendimientoRepository(tx), NewVinetaRepository(tx), NewOrdenTrillaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}

// ReprocesoTxRunner ejecuta un guardado o borrado de reproceso dentro de una
// transacción: el documento, sus salidas y los cambios de estado de viñetas
// ajenas (reclamos/reversiones) caen juntos o no caen.
type ReprocesoTxRunner struct {
	pool *pgxpool.Pool
}

// NewReprocesoTxRunner construye el runner con el pool.
func NewReprocesoTxRunner(pool *pgxpool.Pool) *ReprocesoTxRunner {
	return &ReprocesoTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *ReprocesoTxRunner) Run(ctx context.Context, fn func(
	reproRepo repository.ReprocesoRepository,
	vinetaRepo repository.VinetaRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewReprocesoRepository(tx), NewVinetaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}

// VinetaTxRunner ejecuta un cambio de estado aislado (consumidores externos:
// mezcla, trilla, venta) dentro de una transacción corta.
type VinetaTxRunner struct {
	pool *pgxpool.Pool
}

// NewVinetaTxRunner construye el runner con el pool.
func NewVinetaTxRunner(pool *pgxpool.Pool) *VinetaTxRunner {
	return &VinetaTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo de viñetas atado a la tx.
func (r *VinetaTxRunner) Run(ctx context.Context, fn func(vinetaRepo repository.VinetaRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewVinetaRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}
