package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/catalog/backend/internal/application/catalog"
	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/integration"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// ExternalRefRepo returns the sync-record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ExternalRefRepo() integration.ExternalRefRepository {
	return NewGormExternalRefRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcatalog.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
