package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoTransaction is returned when a Tx is committed or rolled back twice.
var ErrNoTransaction = errors.New("no transaction in progress")

type contextKey int

const (
	transactionKey contextKey = iota
)

// Tx is the gorm transaction carried by a context created with NewTransactionContext.
type Tx struct {
	id  int64
	db  *gorm.DB
	log *zap.SugaredLogger
}

// Commit commits the transaction carried by ctx. A ctx without one is a no-op.
func Commit(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, transactionKey, nil), tx.Commit()
}

// Rollback discards the transaction carried by ctx. A ctx without one is a no-op.
func Rollback(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, transactionKey, nil), tx.Rollback()
}

// FromContext returns the open transaction of ctx, or nil.
func FromContext(ctx context.Context) *gorm.DB {
	if tx, found := ctx.Value(transactionKey).(*Tx); found && tx.db != nil {
		return tx.db
	}
	return nil
}

// InTransaction runs fn inside a transaction of s. fn's error rolls the transaction
// back and is returned unchanged. When ctx already carries a transaction fn joins it
// and the caller stays responsible for committing.
func InTransaction(ctx context.Context, s Store, fn func(ctx context.Context) error) error {
	if FromContext(ctx) != nil {
		return fn(ctx)
	}

	txCtx, err := s.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	if err := fn(txCtx); err != nil {
		_, _ = Rollback(txCtx)
		return err
	}
	_, err = Commit(txCtx)
	return err
}

func newTransactionContext(ctx context.Context, db *gorm.DB, log *zap.SugaredLogger) (context.Context, error) {
	if FromContext(ctx) != nil {
		return ctx, nil
	}

	tx, err := beginTx(db.Session(&gorm.Session{Context: ctx}), log)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, transactionKey, tx), nil
}

func beginTx(db *gorm.DB, log *zap.SugaredLogger) (*Tx, error) {
	gtx := db.Begin()
	if gtx.Error != nil {
		return nil, fmt.Errorf("beginning transaction: %w", gtx.Error)
	}

	// txid_current is postgres only; sqlite transactions are logged with id 0.
	var txid struct{ ID int64 }
	if db.Dialector.Name() == "postgres" {
		gtx.Raw("select txid_current() as id").Scan(&txid)
	}

	return &Tx{id: txid.ID, db: gtx, log: log}, nil
}

func (t *Tx) Commit() error {
	if t.db == nil {
		return ErrNoTransaction
	}
	if err := t.db.Commit().Error; err != nil {
		t.log.Errorw("failed to commit transaction", "txid", t.id, "error", err)
		return err
	}
	t.db = nil
	t.log.Debugw("transaction committed", "txid", t.id)
	return nil
}

func (t *Tx) Rollback() error {
	if t.db == nil {
		return ErrNoTransaction
	}
	if err := t.db.Rollback().Error; err != nil {
		t.log.Errorw("failed to roll back transaction", "txid", t.id, "error", err)
		return err
	}
	t.db = nil
	t.log.Debugw("transaction rolled back", "txid", t.id)
	return nil
}
