package service

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner abstracts the database transaction so the ledger write and the
// side-effect application for one payment event share a single atomic unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// GormTxRunner injects the transactional *gorm.DB into the context; every
// store in this package picks it up via dbFrom.
type GormTxRunner struct {
	DB *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{DB: db}
}

func (r *GormTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction bound to ctx, or the fallback handle when
// the caller is not inside RunInTx.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
