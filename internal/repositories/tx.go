package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the repositories bound to one open transaction.
type TxRepos struct {
	Products ProductRepository
	Orders   OrderRepository
}

// TxManager runs a function inside a single transaction. The transaction
// commits only when fn returns nil; any error (or panic) rolls it back, so
// callers see either all of fn's writes or none of them.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(repos TxRepos) error) error
}

// GORMTxManager implements TxManager on a GORM connection.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{db: db}
}

// WithTransaction opens a transaction, hands tx-bound repositories to fn and
// commits or rolls back depending on fn's result. Context cancellation
// surfaces as an error from the store and rolls back like any other failure.
func (m *GORMTxManager) WithTransaction(ctx context.Context, fn func(repos TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Products: NewGORMProductRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
		})
	})
}

var _ TxManager = (*GORMTxManager)(nil)
var _ ProductRepository = (*GORMProductRepository)(nil)
var _ OrderRepository = (*GORMOrderRepository)(nil)
var _ UserRepository = (*GORMUserRepository)(nil)
var _ RoleRepository = (*GORMRoleRepository)(nil)
