package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcastellanos/bodega-api/internal/application/compras"
	"github.com/jcastellanos/bodega-api/internal/application/despachos"
	"github.com/jcastellanos/bodega-api/internal/application/reajustes"
	"github.com/jcastellanos/bodega-api/internal/domain/repository"
)

// Asegurar que TxRunner implementa los puertos de los tres casos de uso.
var _ compras.TxRunner = (*TxRunner)(nil)
var _ despachos.TxRunner = (*TxRunner)(nil)
var _ reajustes.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCompra inicia una transacción con los repos que necesita registrar o
// anular un ingreso de compras; Commit si fn retorna nil, Rollback si no.
func (r *TxRunner) RunCompra(ctx context.Context, fn func(
	compraRepo repository.CompraRepository,
	invRepo repository.InventarioRepository,
	histRepo repository.HistorialRepository,
	despachoRepo repository.DespachoRepository,
	reajusteRepo repository.ReajusteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewCompraRepository(tx),
		NewInventarioRepository(tx),
		NewHistorialRepository(tx),
		NewDespachoRepository(tx),
		NewReajusteRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDespacho inicia una transacción con los repos del despacho.
func (r *TxRunner) RunDespacho(ctx context.Context, fn func(
	despachoRepo repository.DespachoRepository,
	invRepo repository.InventarioRepository,
	histRepo repository.HistorialRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewDespachoRepository(tx),
		NewInventarioRepository(tx),
		NewHistorialRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReajuste inicia una transacción con los repos para aplicar o revertir un
// reajuste.
func (r *TxRunner) RunReajuste(ctx context.Context, fn func(
	reajusteRepo repository.ReajusteRepository,
	invRepo repository.InventarioRepository,
	histRepo repository.HistorialRepository,
	despachoRepo repository.DespachoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewReajusteRepository(tx),
		NewInventarioRepository(tx),
		NewHistorialRepository(tx),
		NewDespachoRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
