package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	inventoryDomain "github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
)

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) ApplyStockChange(ctx context.Context, tx database.DBTX, params inventoryDomain.StockChangeParams) (*inventoryDomain.StockChange, error) {
	args := m.Called(ctx, tx, params)
	if change := args.Get(0); change != nil {
		return change.(*inventoryDomain.StockChange), args.Error(1)
	}
	return nil, args.Error(1)
}
