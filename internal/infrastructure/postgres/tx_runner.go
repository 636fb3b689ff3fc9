package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/validade-api/internal/application/importer"
)

var _ importer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunImport inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Con dryRun siempre hace Rollback.
func (r *TxRunner) RunImport(ctx context.Context, dryRun bool, fn func(importer.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(importTx{tx: tx}); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// importTx transacción de importación; cada fila corre en un SAVEPOINT (tx anidada de pgx).
type importTx struct {
	tx pgx.Tx
}

func importRepos(q Querier) importer.Repos {
	return importer.Repos{
		Units:    NewUnitRepository(q),
		Products: NewProductRepository(q),
		Lots:     NewLotRepository(q),
	}
}

func (t importTx) Repos() importer.Repos {
	return importRepos(t.tx)
}

// Savepoint ejecuta fn en un savepoint; si fn falla se deshace solo el savepoint y la tx sigue usable.
func (t importTx) Savepoint(ctx context.Context, fn func(importer.Repos) error) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(importRepos(sp)); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
