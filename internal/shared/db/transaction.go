// Package db holds transaction plumbing and query scopes shared by repositories.
package db

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type txKey struct{}

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// TransactionManager runs a function inside one database transaction and
// exposes the transaction to repositories through the context.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls reuse the outer transaction. Hooks registered with AfterCommit
// run after a successful commit.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	hooks := &commitHooks{}
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(context.WithValue(txCtx, commitHooksKey{}, hooks))
	})
	if err != nil {
		return err
	}

	hooks.mu.Lock()
	fns := hooks.fns
	hooks.mu.Unlock()
	for _, f := range fns {
		f()
	}
	return nil
}

// AfterCommit defers f until the transaction bound to ctx commits. Without a
// transaction f runs immediately. A rolled back transaction drops f.
func AfterCommit(ctx context.Context, f func()) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		f()
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, f)
	hooks.mu.Unlock()
}

// GetTxFromContext returns the transaction bound to ctx, or defaultDB.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}

// Transactor is the part of TransactionManager that use cases depend on.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ Transactor = (*TransactionManager)(nil)
