package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/domain"
	invRepo "github.com/dukapos/dukapos-api/internal/inventory/repository"
	repoMocks "github.com/dukapos/dukapos-api/internal/inventory/repository/mocks"
	dbMocks "github.com/dukapos/dukapos-api/internal/platform/database/mocks"
)

const (
	testShopID = "AB12C"
	testUserID = "user-1"
)

func TestStockLedger_ApplyStockChange(t *testing.T) {
	ctx := context.TODO()

	t.Run("Sale decrements and logs applied change", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		txnID := "txn-1"
		mockRepo.On("GetProductStockForUpdate", ctx, mockTx, testShopID, "p1").
			Return(&domain.ProductStockRow{ID: "p1", Name: "Sugar 1kg", StockQuantity: 5}, nil).Once()
		mockRepo.On("UpdateProductStock", ctx, mockTx, testShopID, "p1", 2).Return(nil).Once()
		mockRepo.On("InsertInventoryLog", ctx, mockTx, mock.MatchedBy(func(log *domain.InventoryLog) bool {
			return log.ChangeType == domain.ChangeSale &&
				log.QuantityChange == -3 &&
				log.PreviousStock == 5 &&
				log.NewStock == 2 &&
				log.TransactionID != nil && *log.TransactionID == txnID
		})).Return(nil).Once()

		change, err := ledger.ApplyStockChange(ctx, mockTx, domain.StockChangeParams{
			ShopID:        testShopID,
			ProductID:     "p1",
			ChangeType:    domain.ChangeSale,
			Delta:         -3,
			UserID:        testUserID,
			TransactionID: &txnID,
		})
		assert.NoError(t, err)
		assert.Equal(t, 5, change.PreviousStock)
		assert.Equal(t, 2, change.NewStock)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Sale past zero clamps and logs the applied delta", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		mockRepo.On("GetProductStockForUpdate", ctx, mockTx, testShopID, "p1").
			Return(&domain.ProductStockRow{ID: "p1", Name: "Sugar 1kg", StockQuantity: 2}, nil).Once()
		mockRepo.On("UpdateProductStock", ctx, mockTx, testShopID, "p1", 0).Return(nil).Once()
		mockRepo.On("InsertInventoryLog", ctx, mockTx, mock.MatchedBy(func(log *domain.InventoryLog) bool {
			// -2 applied, not the requested -5, so replaying logs matches stock.
			return log.QuantityChange == -2 && log.NewStock == 0
		})).Return(nil).Once()

		change, err := ledger.ApplyStockChange(ctx, mockTx, domain.StockChangeParams{
			ShopID:     testShopID,
			ProductID:  "p1",
			ChangeType: domain.ChangeSale,
			Delta:      -5,
			UserID:     testUserID,
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, change.NewStock)
	})

	t.Run("Adjustment below zero is not clamped", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		mockRepo.On("GetProductStockForUpdate", ctx, mockTx, testShopID, "p1").
			Return(&domain.ProductStockRow{ID: "p1", Name: "Sugar 1kg", StockQuantity: 2}, nil).Once()
		mockRepo.On("UpdateProductStock", ctx, mockTx, testShopID, "p1", -3).
			Return(invRepo.ErrStockOutOfBounds).Once()

		_, err := ledger.ApplyStockChange(ctx, mockTx, domain.StockChangeParams{
			ShopID:     testShopID,
			ProductID:  "p1",
			ChangeType: domain.ChangeAdjustment,
			Delta:      -5,
			UserID:     testUserID,
		})
		assert.ErrorIs(t, err, invRepo.ErrStockOutOfBounds)
		mockRepo.AssertNotCalled(t, "InsertInventoryLog", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid change type", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		_, err := ledger.ApplyStockChange(ctx, mockTx, domain.StockChangeParams{
			ShopID:     testShopID,
			ProductID:  "p1",
			ChangeType: "donation",
			Delta:      1,
		})
		assert.ErrorIs(t, err, ErrInvalidChangeType)
	})
}

func TestStockLedger_Restock(t *testing.T) {
	ctx := context.TODO()

	t.Run("Runs in its own transaction", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductStockForUpdate", ctx, mockTx, testShopID, "p1").
			Return(&domain.ProductStockRow{ID: "p1", Name: "Sugar 1kg", StockQuantity: 5}, nil).Once()
		mockRepo.On("UpdateProductStock", ctx, mockTx, testShopID, "p1", 15).Return(nil).Once()
		mockRepo.On("InsertInventoryLog", ctx, mockTx, mock.MatchedBy(func(log *domain.InventoryLog) bool {
			return log.ChangeType == domain.ChangeRestock && log.QuantityChange == 10 && log.TransactionID == nil
		})).Return(nil).Once()
		mockTx.On("Commit").Return(nil).Once()
		mockTx.On("Rollback").Return(nil).Maybe()

		change, err := ledger.Restock(ctx, testShopID, testUserID, "p1", 10)
		assert.NoError(t, err)
		assert.Equal(t, 15, change.NewStock)
		mockRepo.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("Rejects non-positive quantity", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		ledger := NewStockLedger(mockRepo)

		_, err := ledger.Restock(ctx, testShopID, testUserID, "p1", 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("Rolls back on update failure", func(t *testing.T) {
		mockRepo := new(repoMocks.MockInventoryRepository)
		mockTx := new(dbMocks.MockDBTX)
		ledger := NewStockLedger(mockRepo)

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductStockForUpdate", ctx, mockTx, testShopID, "p1").
			Return(&domain.ProductStockRow{ID: "p1", Name: "Sugar 1kg", StockQuantity: 5}, nil).Once()
		mockRepo.On("UpdateProductStock", ctx, mockTx, testShopID, "p1", 15).
			Return(errors.New("connection reset")).Once()
		mockTx.On("Rollback").Return(nil).Once()

		_, err := ledger.Restock(ctx, testShopID, testUserID, "p1", 10)
		assert.Error(t, err)
		mockTx.AssertNotCalled(t, "Commit")
		mockTx.AssertExpectations(t)
	})
}

func TestStockLedger_Adjust(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(repoMocks.MockInventoryRepository)
	ledger := NewStockLedger(mockRepo)

	_, err := ledger.Adjust(ctx, testShopID, testUserID, "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidDelta)
	mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestStockLedger_GetLowStock(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(repoMocks.MockInventoryRepository)
	ledger := NewStockLedger(mockRepo)

	expected := []catalogDomain.Product{{ID: "p1", Name: "Sugar 1kg", StockQuantity: 1, MinStockLevel: 5}}
	mockRepo.On("ListLowStockProducts", ctx, testShopID).Return(expected, nil).Once()

	products, err := ledger.GetLowStock(ctx, testShopID)
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
}

func TestLowStockWatcher_Run(t *testing.T) {
	ctx := context.TODO()
	mockRepo := new(repoMocks.MockInventoryRepository)
	ledger := NewStockLedger(mockRepo)
	watcher := NewLowStockWatcher(ledger, mockRepo)

	mockRepo.On("ListShopIDs", ctx).Return([]string{"AB12C", "XY34Z"}, nil).Once()
	mockRepo.On("ListLowStockProducts", ctx, "AB12C").
		Return([]catalogDomain.Product{{ID: "p1"}}, nil).Once()
	mockRepo.On("ListLowStockProducts", ctx, "XY34Z").
		Return([]catalogDomain.Product{}, nil).Once()

	watcher.Run(ctx)
	mockRepo.AssertExpectations(t)
}
