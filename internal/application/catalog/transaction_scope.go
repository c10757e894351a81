package catalog

import (
	"context"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/integration"
)

// TransactionScope provides transactional access to the catalog repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. The product write and the sync-record upsert of one
// operation always share a scope: a failed outbound push aborts both.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the catalog repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ExternalRefRepo returns the sync-record repository scoped to the current transaction
	ExternalRefRepo() integration.ExternalRefRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	refRepo     integration.ExternalRefRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	refRepo integration.ExternalRefRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		refRepo:     refRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ExternalRefRepo returns the sync-record repository.
func (s *NoOpTransactionScope) ExternalRefRepo() integration.ExternalRefRepository {
	return s.refRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
