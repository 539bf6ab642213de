package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukapos/dukapos-api/internal/checkout/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
)

type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(database.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) GetProductForSale(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.SaleProduct, error) {
	args := m.Called(ctx, tx, shopID, productID)
	if p := args.Get(0); p != nil {
		return p.(*domain.SaleProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) GetServiceForSale(ctx context.Context, tx database.DBTX, shopID, serviceID string) (*domain.SaleService, error) {
	args := m.Called(ctx, tx, shopID, serviceID)
	if s := args.Get(0); s != nil {
		return s.(*domain.SaleService), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) InsertTransaction(ctx context.Context, tx database.DBTX, t *domain.Transaction) error {
	args := m.Called(ctx, tx, t)
	return args.Error(0)
}

func (m *MockCheckoutRepository) InsertTransactionItem(ctx context.Context, tx database.DBTX, item *domain.TransactionItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockCheckoutRepository) ListTransactions(ctx context.Context, shopID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, shopID, limit)
	if transactions := args.Get(0); transactions != nil {
		return transactions.([]domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) GetTransactionByID(ctx context.Context, shopID, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, shopID, id)
	if t := args.Get(0); t != nil {
		return t.(*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCheckoutRepository) GetItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	args := m.Called(ctx, transactionID)
	if items := args.Get(0); items != nil {
		return items.([]domain.TransactionItem), args.Error(1)
	}
	return nil, args.Error(1)
}
