package repositories

import "context"

// MockTxManager implements TxManager over the in-memory repositories. It
// snapshots their state before running fn and restores it on error, so tests
// observe the same all-or-nothing behavior a real transaction gives.
type MockTxManager struct {
	Products *MockProductRepository
	Orders   *MockOrderRepository
}

// NewMockTxManager creates a new instance of MockTxManager.
func NewMockTxManager(products *MockProductRepository, orders *MockOrderRepository) *MockTxManager {
	return &MockTxManager{Products: products, Orders: orders}
}

// WithTransaction runs fn against the shared in-memory repositories and
// rolls their state back when fn fails or the context is done.
func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(repos TxRepos) error) error {
	productSnap := m.Products.snapshot()
	orderSnap := m.Orders.snapshot()

	err := fn(TxRepos{Products: m.Products, Orders: m.Orders})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		m.Products.restore(productSnap)
		m.Orders.restore(orderSnap)
		return err
	}
	return nil
}

var _ TxManager = (*MockTxManager)(nil)
