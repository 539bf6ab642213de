package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dukapos/dukapos-api/internal/checkout/domain"
	checkoutRepo "github.com/dukapos/dukapos-api/internal/checkout/repository"
	repoMocks "github.com/dukapos/dukapos-api/internal/checkout/repository/mocks"
	ledgerMocks "github.com/dukapos/dukapos-api/internal/checkout/service/mocks"
	inventoryDomain "github.com/dukapos/dukapos-api/internal/inventory/domain"
	dbMocks "github.com/dukapos/dukapos-api/internal/platform/database/mocks"
)

const (
	testShopID = "AB12C"
	testUserID = "user-1"
)

func newCheckoutFixture() (*repoMocks.MockCheckoutRepository, *ledgerMocks.MockStockLedger, *dbMocks.MockDBTX, CheckoutService) {
	mockRepo := new(repoMocks.MockCheckoutRepository)
	mockLedger := new(ledgerMocks.MockStockLedger)
	mockTx := new(dbMocks.MockDBTX)
	svc := NewCheckoutService(mockRepo, mockLedger)
	return mockRepo, mockLedger, mockTx, svc
}

func TestCheckoutService_Checkout_Validation(t *testing.T) {
	ctx := context.TODO()

	t.Run("Empty cart", func(t *testing.T) {
		mockRepo, _, _, svc := newCheckoutFixture()

		_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			PaymentMethod: domain.PaymentCash,
		})
		assert.ErrorIs(t, err, ErrEmptyCart)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("Invalid payment method", func(t *testing.T) {
		_, _, _, svc := newCheckoutFixture()

		_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 1}},
			PaymentMethod: "barter",
		})
		assert.ErrorIs(t, err, ErrInvalidPayment)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		_, _, _, svc := newCheckoutFixture()

		_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 0}},
			PaymentMethod: domain.PaymentCash,
		})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("Unknown item type", func(t *testing.T) {
		_, _, _, svc := newCheckoutFixture()

		_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			Items:         []domain.CartItemRequest{{Type: "voucher", ID: "v1", Quantity: 1}},
			PaymentMethod: domain.PaymentCash,
		})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})
}

func TestCheckoutService_Checkout_StockChecks(t *testing.T) {
	ctx := context.TODO()
	req := domain.CheckoutRequest{
		Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 3}},
		PaymentMethod: domain.PaymentCash,
	}

	t.Run("Product not found rolls back", func(t *testing.T) {
		mockRepo, _, mockTx, svc := newCheckoutFixture()

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
			Return(nil, checkoutRepo.ErrProductNotFound).Once()
		mockTx.On("Rollback").Return(nil).Once()

		_, err := svc.Checkout(ctx, testShopID, testUserID, req)
		assert.ErrorIs(t, err, checkoutRepo.ErrProductNotFound)
		mockRepo.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)
		mockTx.AssertNotCalled(t, "Commit")
		mockTx.AssertExpectations(t)
	})

	t.Run("Out of stock", func(t *testing.T) {
		mockRepo, _, mockTx, svc := newCheckoutFixture()

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
			Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 0}, nil).Once()
		mockTx.On("Rollback").Return(nil).Once()

		_, err := svc.Checkout(ctx, testShopID, testUserID, req)
		assert.ErrorIs(t, err, ErrOutOfStock)
		mockTx.AssertNotCalled(t, "Commit")
	})

	t.Run("Same product across lines is checked against combined demand", func(t *testing.T) {
		mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

		// Two lines of 3 against stock 5: each line fits on its own, the
		// cart as a whole does not.
		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
			Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}, nil).Twice()
		mockTx.On("Rollback").Return(nil).Once()

		_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			Items: []domain.CartItemRequest{
				{Type: domain.ItemProduct, ID: "p1", Quantity: 3},
				{Type: domain.ItemProduct, ID: "p1", Quantity: 3},
			},
			PaymentMethod: domain.PaymentCash,
		})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)
		mockLedger.AssertNotCalled(t, "ApplyStockChange", mock.Anything, mock.Anything, mock.Anything)
		mockTx.AssertNotCalled(t, "Commit")
		mockTx.AssertExpectations(t)
	})

	t.Run("Duplicate lines within stock still commit", func(t *testing.T) {
		mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
			Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}, nil).Twice()
		mockRepo.On("InsertTransaction", ctx, mockTx, mock.Anything).Return(nil).Once()
		mockRepo.On("InsertTransactionItem", ctx, mockTx, mock.Anything).Return(nil).Twice()
		mockLedger.On("ApplyStockChange", ctx, mockTx, mock.MatchedBy(func(p inventoryDomain.StockChangeParams) bool {
			return p.ProductID == "p1" && p.Delta == -2
		})).Return(&inventoryDomain.StockChange{ProductID: "p1", PreviousStock: 5, NewStock: 3}, nil).Twice()
		mockTx.On("Commit").Return(nil).Once()
		mockTx.On("Rollback").Return(nil).Maybe()

		txn, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
			Items: []domain.CartItemRequest{
				{Type: domain.ItemProduct, ID: "p1", Quantity: 2},
				{Type: domain.ItemProduct, ID: "p1", Quantity: 2},
			},
			PaymentMethod: domain.PaymentCash,
		})
		assert.NoError(t, err)
		assert.Len(t, txn.Items, 2)
		mockRepo.AssertExpectations(t)
		mockLedger.AssertExpectations(t)
	})

	t.Run("Insufficient stock writes nothing", func(t *testing.T) {
		mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

		mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
		mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
			Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 2}, nil).Once()
		mockTx.On("Rollback").Return(nil).Once()

		_, err := svc.Checkout(ctx, testShopID, testUserID, req)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		mockRepo.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)
		mockLedger.AssertNotCalled(t, "ApplyStockChange", mock.Anything, mock.Anything, mock.Anything)
		mockTx.AssertNotCalled(t, "Commit")
	})
}

func TestCheckoutService_Checkout_TotalMismatch(t *testing.T) {
	ctx := context.TODO()
	mockRepo, _, mockTx, svc := newCheckoutFixture()

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
		Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 10}, nil).Once()
	mockTx.On("Rollback").Return(nil).Once()

	_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
		Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 2}},
		PaymentMethod: domain.PaymentCash,
		Total:         999, // server computes 240
	})
	assert.ErrorIs(t, err, ErrTotalMismatch)
	mockRepo.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)
	mockTx.AssertNotCalled(t, "Commit")
}

func TestCheckoutService_Checkout_Success(t *testing.T) {
	ctx := context.TODO()
	mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

	req := domain.CheckoutRequest{
		Items: []domain.CartItemRequest{
			{Type: domain.ItemProduct, ID: "p1", Quantity: 2},
			{Type: domain.ItemService, ID: "s1", Quantity: 1},
		},
		PaymentMethod: domain.PaymentMobileMoney,
		Total:         340,
	}

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
		Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}, nil).Once()
	mockRepo.On("GetServiceForSale", ctx, mockTx, testShopID, "s1").
		Return(&domain.SaleService{ID: "s1", Name: "Phone repair", Price: 100}, nil).Once()
	mockRepo.On("InsertTransaction", ctx, mockTx, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.ShopID == testShopID &&
			txn.TotalAmount == 340 &&
			txn.Status == domain.StatusCompleted &&
			txn.TransactionNumber != ""
	})).Return(nil).Once()
	mockRepo.On("InsertTransactionItem", ctx, mockTx, mock.MatchedBy(func(item *domain.TransactionItem) bool {
		return item.ItemType == domain.ItemProduct && item.Name == "Sugar 1kg" && item.Subtotal == 240
	})).Return(nil).Once()
	mockRepo.On("InsertTransactionItem", ctx, mockTx, mock.MatchedBy(func(item *domain.TransactionItem) bool {
		return item.ItemType == domain.ItemService && item.Name == "Phone repair" && item.Subtotal == 100
	})).Return(nil).Once()
	// Only the product line touches the ledger.
	mockLedger.On("ApplyStockChange", ctx, mockTx, mock.MatchedBy(func(p inventoryDomain.StockChangeParams) bool {
		return p.ProductID == "p1" &&
			p.ChangeType == inventoryDomain.ChangeSale &&
			p.Delta == -2 &&
			p.TransactionID != nil
	})).Return(&inventoryDomain.StockChange{ProductID: "p1", PreviousStock: 5, NewStock: 3}, nil).Once()
	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil).Maybe()

	txn, err := svc.Checkout(ctx, testShopID, testUserID, req)
	assert.NoError(t, err)
	assert.NotNil(t, txn)
	assert.Equal(t, 340.0, txn.TotalAmount)
	assert.Len(t, txn.Items, 2)
	assert.Contains(t, txn.TransactionNumber, "TXN-")
	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestCheckoutService_Checkout_LedgerFailureRollsBack(t *testing.T) {
	ctx := context.TODO()
	mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Once()
	mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").
		Return(&domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}, nil).Once()
	mockRepo.On("InsertTransaction", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockRepo.On("InsertTransactionItem", ctx, mockTx, mock.Anything).Return(nil).Once()
	ledgerErr := errors.New("deadlock detected")
	mockLedger.On("ApplyStockChange", ctx, mockTx, mock.Anything).Return(nil, ledgerErr).Once()
	mockTx.On("Rollback").Return(nil).Once()

	_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
		Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 1}},
		PaymentMethod: domain.PaymentCard,
	})
	assert.ErrorIs(t, err, ledgerErr)
	mockTx.AssertNotCalled(t, "Commit")
	mockTx.AssertExpectations(t)
}

func TestCheckoutService_Checkout_RetriesOnDuplicateNumber(t *testing.T) {
	ctx := context.TODO()
	mockRepo, mockLedger, mockTx, svc := newCheckoutFixture()

	product := &domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}

	// First attempt collides on the transaction number and aborts; the retry
	// starts a fresh transaction and succeeds.
	mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Twice()
	mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").Return(product, nil).Twice()
	mockRepo.On("InsertTransaction", ctx, mockTx, mock.Anything).
		Return(checkoutRepo.ErrDuplicateTransactionNumber).Once()
	mockRepo.On("InsertTransaction", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockRepo.On("InsertTransactionItem", ctx, mockTx, mock.Anything).Return(nil).Once()
	mockLedger.On("ApplyStockChange", ctx, mockTx, mock.Anything).
		Return(&inventoryDomain.StockChange{ProductID: "p1", PreviousStock: 5, NewStock: 4}, nil).Once()
	mockTx.On("Commit").Return(nil).Once()
	mockTx.On("Rollback").Return(nil)

	txn, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
		Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
	})
	assert.NoError(t, err)
	assert.NotNil(t, txn)
	mockRepo.AssertExpectations(t)
}

func TestCheckoutService_Checkout_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.TODO()
	mockRepo, _, mockTx, svc := newCheckoutFixture()

	product := &domain.SaleProduct{ID: "p1", Name: "Sugar 1kg", Price: 120, StockQuantity: 5}

	mockRepo.On("BeginTx", ctx).Return(mockTx, nil).Times(maxCheckoutAttempts)
	mockRepo.On("GetProductForSale", ctx, mockTx, testShopID, "p1").Return(product, nil).Times(maxCheckoutAttempts)
	mockRepo.On("InsertTransaction", ctx, mockTx, mock.Anything).
		Return(checkoutRepo.ErrDuplicateTransactionNumber).Times(maxCheckoutAttempts)
	mockTx.On("Rollback").Return(nil)

	_, err := svc.Checkout(ctx, testShopID, testUserID, domain.CheckoutRequest{
		Items:         []domain.CartItemRequest{{Type: domain.ItemProduct, ID: "p1", Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrCheckoutFailed)
	mockTx.AssertNotCalled(t, "Commit")
	mockRepo.AssertExpectations(t)
}

func TestCheckoutService_GetTransaction(t *testing.T) {
	ctx := context.TODO()
	mockRepo, _, _, svc := newCheckoutFixture()

	t.Run("Found", func(t *testing.T) {
		expected := &domain.Transaction{ID: "txn-1", ShopID: testShopID}
		mockRepo.On("GetTransactionByID", ctx, testShopID, "txn-1").Return(expected, nil).Once()

		txn, err := svc.GetTransaction(ctx, testShopID, "txn-1")
		assert.NoError(t, err)
		assert.Equal(t, expected, txn)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo.On("GetTransactionByID", ctx, testShopID, "missing").
			Return(nil, checkoutRepo.ErrTransactionNotFound).Once()

		_, err := svc.GetTransaction(ctx, testShopID, "missing")
		assert.ErrorIs(t, err, checkoutRepo.ErrTransactionNotFound)
	})
}
