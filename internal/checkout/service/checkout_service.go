package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dukapos/dukapos-api/internal/checkout/domain"
	"github.com/dukapos/dukapos-api/internal/checkout/repository"
	inventoryDomain "github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrEmptyCart         = errors.New("cart must contain at least one item")
	ErrInvalidItem       = errors.New("invalid cart item")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrTotalMismatch     = errors.New("submitted total does not match computed total")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
	ErrCheckoutFailed    = errors.New("checkout failed")
)

const (
	transactionListLimit = 100
	maxCheckoutAttempts  = 3
	totalTolerance       = 0.01
)

// StockLedger is the slice of the inventory ledger checkout needs: a stock
// change applied inside the checkout transaction.
type StockLedger interface {
	ApplyStockChange(ctx context.Context, tx database.DBTX, params inventoryDomain.StockChangeParams) (*inventoryDomain.StockChange, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, shopID, userID string, req domain.CheckoutRequest) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, shopID string) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, shopID, id string) (*domain.Transaction, error)
}

type checkoutService struct {
	repo   repository.CheckoutRepository
	ledger StockLedger
}

func NewCheckoutService(repo repository.CheckoutRepository, ledger StockLedger) CheckoutService {
	return &checkoutService{repo: repo, ledger: ledger}
}

// resolvedLine is a cart line after validation: name and price come from the
// catalog rows read under lock, never from the client.
type resolvedLine struct {
	itemType  domain.ItemType
	itemID    string
	name      string
	quantity  int
	unitPrice float64
}

// Checkout validates the cart against locked catalog rows, then writes the
// transaction, its items, the stock decrements and the inventory logs as one
// atomic unit. Either everything lands or nothing does.
//
// A duplicate transaction number aborts the whole database transaction, so
// the retry restarts from BeginTx with a fresh number.
func (s *checkoutService) Checkout(ctx context.Context, shopID, userID string, req domain.CheckoutRequest) (*domain.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}
	for _, item := range req.Items {
		if !item.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidItem, item.Type)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxCheckoutAttempts; attempt++ {
		txn, err := s.checkoutOnce(ctx, shopID, userID, req)
		if err == nil {
			return txn, nil
		}
		if !errors.Is(err, repository.ErrDuplicateTransactionNumber) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Svc.Checkout: transaction number collision, retrying",
			zap.String("shop_id", shopID), zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, lastErr)
}

func (s *checkoutService) checkoutOnce(ctx context.Context, shopID, userID string, req domain.CheckoutRequest) (*domain.Transaction, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.checkoutOnce: begin tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	defer tx.Rollback() // Rollback if not committed

	lines, total, err := s.resolveCart(ctx, tx, shopID, req.Items)
	if err != nil {
		return nil, err
	}

	// The client total is advisory. When sent, it must agree with the
	// server-computed one to the cent.
	if req.Total != 0 && math.Abs(req.Total-total) >= totalTolerance {
		return nil, fmt.Errorf("%w: submitted %.2f, computed %.2f", ErrTotalMismatch, req.Total, total)
	}

	txn := &domain.Transaction{
		ID:                uuid.NewString(),
		ShopID:            shopID,
		TransactionNumber: newTransactionNumber(),
		UserID:            userID,
		TotalAmount:       total,
		PaymentMethod:     req.PaymentMethod,
		Status:            domain.StatusCompleted,
	}
	if err := s.repo.InsertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	for _, line := range lines {
		item := &domain.TransactionItem{
			ID:            uuid.NewString(),
			TransactionID: txn.ID,
			ItemType:      line.itemType,
			ItemID:        line.itemID,
			Name:          line.name,
			Quantity:      line.quantity,
			UnitPrice:     line.unitPrice,
			Subtotal:      line.unitPrice * float64(line.quantity),
		}
		if err := s.repo.InsertTransactionItem(ctx, tx, item); err != nil {
			return nil, err
		}
		txn.Items = append(txn.Items, *item)

		if line.itemType == domain.ItemProduct {
			_, err := s.ledger.ApplyStockChange(ctx, tx, inventoryDomain.StockChangeParams{
				ShopID:        shopID,
				ProductID:     line.itemID,
				ChangeType:    inventoryDomain.ChangeSale,
				Delta:         -line.quantity,
				UserID:        userID,
				TransactionID: &txn.ID,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.checkoutOnce: commit tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	logger.Info("Checkout completed",
		zap.String("shop_id", shopID),
		zap.String("transaction_number", txn.TransactionNumber),
		zap.Float64("total", total),
		zap.Int("items", len(txn.Items)))
	return txn, nil
}

// resolveCart reads every cart line inside the transaction. Product rows are
// locked, so the stock check here still holds when the sale decrement runs.
// Quantities are accumulated per product so the same product split across
// several cart lines is checked against its combined demand, not line by line.
func (s *checkoutService) resolveCart(ctx context.Context, tx database.DBTX, shopID string, items []domain.CartItemRequest) ([]resolvedLine, float64, error) {
	lines := make([]resolvedLine, 0, len(items))
	requested := make(map[string]int)
	total := 0.0
	for _, item := range items {
		switch item.Type {
		case domain.ItemProduct:
			p, err := s.repo.GetProductForSale(ctx, tx, shopID, item.ID)
			if err != nil {
				return nil, 0, err
			}
			if p.StockQuantity == 0 {
				return nil, 0, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
			}
			requested[item.ID] += item.Quantity
			if p.StockQuantity < requested[item.ID] {
				return nil, 0, fmt.Errorf("%w: %s has %d, requested %d",
					ErrInsufficientStock, p.Name, p.StockQuantity, requested[item.ID])
			}
			lines = append(lines, resolvedLine{
				itemType:  domain.ItemProduct,
				itemID:    p.ID,
				name:      p.Name,
				quantity:  item.Quantity,
				unitPrice: p.Price,
			})
			total += p.Price * float64(item.Quantity)
		case domain.ItemService:
			svc, err := s.repo.GetServiceForSale(ctx, tx, shopID, item.ID)
			if err != nil {
				return nil, 0, err
			}
			lines = append(lines, resolvedLine{
				itemType:  domain.ItemService,
				itemID:    svc.ID,
				name:      svc.Name,
				quantity:  item.Quantity,
				unitPrice: svc.Price,
			})
			total += svc.Price * float64(item.Quantity)
		}
	}
	return lines, total, nil
}

func (s *checkoutService) ListTransactions(ctx context.Context, shopID string) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, shopID, transactionListLimit)
}

func (s *checkoutService) GetTransaction(ctx context.Context, shopID, id string) (*domain.Transaction, error) {
	return s.repo.GetTransactionByID(ctx, shopID, id)
}

// newTransactionNumber builds a receipt number from the current epoch
// milliseconds plus a short random suffix. The suffix keeps two checkouts in
// the same millisecond from colliding; the unique index catches the rest.
func newTransactionNumber() string {
	suffix := make([]byte, 2)
	rand.Read(suffix)
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
