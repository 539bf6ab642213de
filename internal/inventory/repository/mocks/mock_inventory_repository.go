package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(database.DBTX), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) GetProductStockForUpdate(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.ProductStockRow, error) {
	args := m.Called(ctx, tx, shopID, productID)
	if row := args.Get(0); row != nil {
		return row.(*domain.ProductStockRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) UpdateProductStock(ctx context.Context, tx database.DBTX, shopID, productID string, newStock int) error {
	args := m.Called(ctx, tx, shopID, productID, newStock)
	return args.Error(0)
}

func (m *MockInventoryRepository) InsertInventoryLog(ctx context.Context, tx database.DBTX, log *domain.InventoryLog) error {
	args := m.Called(ctx, tx, log)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListLowStockProducts(ctx context.Context, shopID string) ([]catalogDomain.Product, error) {
	args := m.Called(ctx, shopID)
	if products := args.Get(0); products != nil {
		return products.([]catalogDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) ListLogs(ctx context.Context, shopID string, limit int) ([]domain.InventoryLog, error) {
	args := m.Called(ctx, shopID, limit)
	if logs := args.Get(0); logs != nil {
		return logs.([]domain.InventoryLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventoryRepository) ListShopIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids := args.Get(0); ids != nil {
		return ids.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
