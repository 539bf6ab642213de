package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	checkoutDomain "github.com/dukapos/dukapos-api/internal/checkout/domain"
)

type MockLowStockReader struct {
	mock.Mock
}

func (m *MockLowStockReader) GetLowStock(ctx context.Context, shopID string) ([]catalogDomain.Product, error) {
	args := m.Called(ctx, shopID)
	if products := args.Get(0); products != nil {
		return products.([]catalogDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTransactionReader struct {
	mock.Mock
}

func (m *MockTransactionReader) ListTransactions(ctx context.Context, shopID string, limit int) ([]checkoutDomain.Transaction, error) {
	args := m.Called(ctx, shopID, limit)
	if transactions := args.Get(0); transactions != nil {
		return transactions.([]checkoutDomain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}
