package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/repository"
	"github.com/dukapos/dukapos-api/internal/platform/database"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive number")
	ErrInvalidDelta         = errors.New("adjustment delta must be non-zero")
	ErrInvalidChangeType    = errors.New("invalid stock change type")
	ErrStockOperationFailed = errors.New("stock operation failed")
)

const logListLimit = 100

// StockLedger is the sole authority over a product's stock quantity. Every
// mutation goes through ApplyStockChange and leaves exactly one inventory
// log row in the same atomic unit.
type StockLedger interface {
	// ApplyStockChange runs inside the caller's transaction; it never
	// commits or rolls back.
	ApplyStockChange(ctx context.Context, tx database.DBTX, params domain.StockChangeParams) (*domain.StockChange, error)

	Restock(ctx context.Context, shopID, userID, productID string, quantity int) (*domain.StockChange, error)
	Adjust(ctx context.Context, shopID, userID, productID string, delta int) (*domain.StockChange, error)
	GetLowStock(ctx context.Context, shopID string) ([]catalogDomain.Product, error)
	ListLogs(ctx context.Context, shopID string) ([]domain.InventoryLog, error)
}

type stockLedgerImpl struct {
	repo repository.InventoryRepository
}

func NewStockLedger(repo repository.InventoryRepository) StockLedger {
	return &stockLedgerImpl{repo: repo}
}

func (s *stockLedgerImpl) ApplyStockChange(ctx context.Context, tx database.DBTX, params domain.StockChangeParams) (*domain.StockChange, error) {
	if !params.ChangeType.Valid() {
		return nil, ErrInvalidChangeType
	}

	row, err := s.repo.GetProductStockForUpdate(ctx, tx, params.ShopID, params.ProductID)
	if err != nil {
		return nil, err
	}

	previous := row.StockQuantity
	next := previous + params.Delta
	// Sales clamp at zero as a defensive floor; checkout validation should
	// have rejected the oversell before reaching this point. Restocks and
	// adjustments are unclamped so a bad adjustment fails instead of
	// silently flooring.
	if params.ChangeType == domain.ChangeSale && next < 0 {
		next = 0
	}

	if err := s.repo.UpdateProductStock(ctx, tx, params.ShopID, params.ProductID, next); err != nil {
		return nil, err
	}

	log := &domain.InventoryLog{
		ID:             uuid.NewString(),
		ShopID:         params.ShopID,
		ProductID:      params.ProductID,
		TransactionID:  params.TransactionID,
		ChangeType:     params.ChangeType,
		QuantityChange: next - previous, // the applied change, so logs always replay
		PreviousStock:  previous,
		NewStock:       next,
		UserID:         params.UserID,
	}
	if err := s.repo.InsertInventoryLog(ctx, tx, log); err != nil {
		return nil, err
	}

	return &domain.StockChange{ProductID: params.ProductID, PreviousStock: previous, NewStock: next}, nil
}

func (s *stockLedgerImpl) Restock(ctx context.Context, shopID, userID, productID string, quantity int) (*domain.StockChange, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.applyInOwnTx(ctx, domain.StockChangeParams{
		ShopID:     shopID,
		ProductID:  productID,
		ChangeType: domain.ChangeRestock,
		Delta:      quantity,
		UserID:     userID,
	})
}

func (s *stockLedgerImpl) Adjust(ctx context.Context, shopID, userID, productID string, delta int) (*domain.StockChange, error) {
	if delta == 0 {
		return nil, ErrInvalidDelta
	}
	return s.applyInOwnTx(ctx, domain.StockChangeParams{
		ShopID:     shopID,
		ProductID:  productID,
		ChangeType: domain.ChangeAdjustment,
		Delta:      delta,
		UserID:     userID,
	})
}

// applyInOwnTx wraps a standalone stock change (restock, adjustment) in its
// own transaction; checkout instead threads its transaction through
// ApplyStockChange directly.
func (s *stockLedgerImpl) applyInOwnTx(ctx context.Context, params domain.StockChangeParams) (*domain.StockChange, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("Svc.applyInOwnTx: begin tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	defer tx.Rollback() // Rollback if not committed

	change, err := s.ApplyStockChange(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Svc.applyInOwnTx: commit tx failed", err)
		return nil, fmt.Errorf("%w: %v", ErrStockOperationFailed, err)
	}
	return change, nil
}

func (s *stockLedgerImpl) GetLowStock(ctx context.Context, shopID string) ([]catalogDomain.Product, error) {
	return s.repo.ListLowStockProducts(ctx, shopID)
}

func (s *stockLedgerImpl) ListLogs(ctx context.Context, shopID string) ([]domain.InventoryLog, error) {
	return s.repo.ListLogs(ctx, shopID, logListLimit)
}

// LowStockWatcher periodically logs shops whose products have fallen to or
// below their minimum stock level. Purely operational; it never writes.
type LowStockWatcher struct {
	ledger    StockLedger
	shops     ShopLister
	scheduler *cron.Cron
}

// ShopLister is the narrow view of shop storage the watcher needs.
type ShopLister interface {
	ListShopIDs(ctx context.Context) ([]string, error)
}

func NewLowStockWatcher(ledger StockLedger, shops ShopLister) *LowStockWatcher {
	return &LowStockWatcher{ledger: ledger, shops: shops}
}

// Start schedules the watcher. An interval of 0 disables it.
func (w *LowStockWatcher) Start(interval time.Duration) {
	if interval <= 0 {
		return
	}
	w.scheduler = cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	w.scheduler.AddFunc(spec, func() {
		w.Run(context.Background())
	})
	w.scheduler.Start()
	logger.Info("Low-stock watcher started", zap.Duration("interval", interval))
}

func (w *LowStockWatcher) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

func (w *LowStockWatcher) Run(ctx context.Context) {
	shopIDs, err := w.shops.ListShopIDs(ctx)
	if err != nil {
		logger.Error("LowStockWatcher: failed to list shops", err)
		return
	}
	for _, shopID := range shopIDs {
		products, err := w.ledger.GetLowStock(ctx, shopID)
		if err != nil {
			logger.Error("LowStockWatcher: failed to check shop", err, zap.String("shop_id", shopID))
			continue
		}
		if len(products) > 0 {
			logger.Warn("Products at or below minimum stock",
				zap.String("shop_id", shopID),
				zap.Int("count", len(products)))
		}
	}
}
