package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

// scopeOpts are the options every transfer scope must be opened with.
var scopeOpts = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func newScopePool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}

	t.Cleanup(pool.Close)

	return pool
}

func TestTxManager(t *testing.T) {
	t.Run("opens a read committed scope and commits", func(t *testing.T) {
		pool := newScopePool(t)
		pool.ExpectBeginTx(scopeOpts)
		pool.ExpectCommit()

		tx, err := newTxManagerWithPool(pool).Begin(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := tx.Commit(context.Background()); err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		if err := pool.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations were not met: %v", err)
		}
	})

	t.Run("surfaces begin failures", func(t *testing.T) {
		pool := newScopePool(t)
		beginErr := errors.New("begin failed")
		pool.ExpectBeginTx(scopeOpts).WillReturnError(beginErr)

		if _, err := newTxManagerWithPool(pool).Begin(context.Background()); !errors.Is(err, beginErr) {
			t.Fatalf("expected begin error, got %v", err)
		}
	})

	t.Run("rollback aborts the scope", func(t *testing.T) {
		pool := newScopePool(t)
		pool.ExpectBeginTx(scopeOpts)
		pool.ExpectRollback()

		tx, err := newTxManagerWithPool(pool).Begin(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := tx.Rollback(context.Background()); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}

		if err := pool.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations were not met: %v", err)
		}
	})

	t.Run("exposes the underlying pgx transaction to repositories", func(t *testing.T) {
		pool := newScopePool(t)
		pool.ExpectBeginTx(scopeOpts)
		pool.ExpectRollback()

		tx, err := newTxManagerWithPool(pool).Begin(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer tx.Rollback(context.Background())

		pgTx, ok := tx.(*Tx)
		if !ok {
			t.Fatalf("expected *Tx, got %T", tx)
		}

		if pgTx.PgxTx() == nil {
			t.Fatal("expected access to the underlying pgx.Tx")
		}
	})
}
