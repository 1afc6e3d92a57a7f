package biz

import (
	"context"

	"github.com/PerryRichardson/storefront/internal/storage"
)

type AbstractService struct {
	store *storage.Client
}

// RunInTransaction runs fn with a transaction carried in the context. If the
// context already carries one, fn joins it and commit stays with the outer
// caller. Panics roll back and re-raise.
func (a *AbstractService) RunInTransaction(ctx context.Context, fn func(context.Context) error) (err error) {
	if tx := storage.TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := a.store.Tx(ctx)
	if err != nil {
		return err
	}

	committed := false

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()

			panic(r)
		}

		if !committed {
			_ = tx.Rollback()
		}
	}()

	txCtx := storage.NewTxContext(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true

	return nil
}
