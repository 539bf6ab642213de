package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrStockOutOfBounds = errors.New("stock update results in a negative quantity")
)

const checkViolation = "23514"

type InventoryRepository interface {
	BeginTx(ctx context.Context) (database.DBTX, error)

	// GetProductStockForUpdate locks the product row within the caller's
	// transaction so the read-compute-write sequence is race-free.
	GetProductStockForUpdate(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.ProductStockRow, error)
	UpdateProductStock(ctx context.Context, tx database.DBTX, shopID, productID string, newStock int) error
	InsertInventoryLog(ctx context.Context, tx database.DBTX, log *domain.InventoryLog) error

	ListLowStockProducts(ctx context.Context, shopID string) ([]catalogDomain.Product, error)
	ListLogs(ctx context.Context, shopID string, limit int) ([]domain.InventoryLog, error)
	ListShopIDs(ctx context.Context) ([]string, error)
}

type postgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) InventoryRepository {
	return &postgresInventoryRepository{db: db}
}

func (r *postgresInventoryRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresInventoryRepository) GetProductStockForUpdate(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.ProductStockRow, error) {
	query := `SELECT id, name, stock_quantity FROM products
	          WHERE shop_id = $1 AND id = $2 FOR UPDATE`
	var row domain.ProductStockRow
	err := tx.QueryRowContext(ctx, query, shopID, productID).Scan(&row.ID, &row.Name, &row.StockQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductStockForUpdate: query failed", err)
		return nil, err
	}
	return &row, nil
}

func (r *postgresInventoryRepository) UpdateProductStock(ctx context.Context, tx database.DBTX, shopID, productID string, newStock int) error {
	query := `UPDATE products SET stock_quantity = $1, updated_at = NOW()
	          WHERE shop_id = $2 AND id = $3 AND $1 >= 0`
	res, err := tx.ExecContext(ctx, query, newStock, shopID, productID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == checkViolation {
			return ErrStockOutOfBounds
		}
		logger.Error("UpdateProductStock: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		if newStock < 0 {
			return ErrStockOutOfBounds
		}
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresInventoryRepository) InsertInventoryLog(ctx context.Context, tx database.DBTX, log *domain.InventoryLog) error {
	log.CreatedAt = time.Now()
	query := `INSERT INTO inventory_logs (id, shop_id, product_id, transaction_id, change_type,
	                                      quantity_change, previous_stock, new_stock, user_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := tx.ExecContext(ctx, query,
		log.ID, log.ShopID, log.ProductID, log.TransactionID, log.ChangeType,
		log.QuantityChange, log.PreviousStock, log.NewStock, log.UserID, log.CreatedAt)
	if err != nil {
		logger.Error("InsertInventoryLog: exec failed", err)
		return err
	}
	return nil
}

func (r *postgresInventoryRepository) ListLowStockProducts(ctx context.Context, shopID string) ([]catalogDomain.Product, error) {
	query := `SELECT id, shop_id, name, barcode, category, price, cost_price,
	                 stock_quantity, min_stock_level, unit, created_at, updated_at
	          FROM products
	          WHERE shop_id = $1 AND stock_quantity <= min_stock_level
	          ORDER BY stock_quantity ASC`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		logger.Error("ListLowStockProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []catalogDomain.Product{}
	for rows.Next() {
		var p catalogDomain.Product
		var barcode, category sql.NullString
		var costPrice sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &barcode, &category, &p.Price, &costPrice,
			&p.StockQuantity, &p.MinStockLevel, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error("ListLowStockProducts: scan failed", err)
			return nil, err
		}
		if barcode.Valid {
			p.Barcode = &barcode.String
		}
		if category.Valid {
			p.Category = &category.String
		}
		if costPrice.Valid {
			p.CostPrice = &costPrice.Float64
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresInventoryRepository) ListLogs(ctx context.Context, shopID string, limit int) ([]domain.InventoryLog, error) {
	query := `SELECT il.id, il.shop_id, il.product_id, p.name, il.transaction_id, il.change_type,
	                 il.quantity_change, il.previous_stock, il.new_stock, il.user_id, il.created_at
	          FROM inventory_logs il
	          LEFT JOIN products p ON il.product_id = p.id
	          WHERE il.shop_id = $1
	          ORDER BY il.created_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, shopID, limit)
	if err != nil {
		logger.Error("ListLogs: query failed", err)
		return nil, err
	}
	defer rows.Close()

	logs := []domain.InventoryLog{}
	for rows.Next() {
		var l domain.InventoryLog
		var productName sql.NullString
		var transactionID sql.NullString
		if err := rows.Scan(&l.ID, &l.ShopID, &l.ProductID, &productName, &transactionID, &l.ChangeType,
			&l.QuantityChange, &l.PreviousStock, &l.NewStock, &l.UserID, &l.CreatedAt); err != nil {
			logger.Error("ListLogs: scan failed", err)
			return nil, err
		}
		if productName.Valid {
			l.ProductName = productName.String
		}
		if transactionID.Valid {
			l.TransactionID = &transactionID.String
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListShopIDs feeds the low-stock watcher, which sweeps every tenant.
func (r *postgresInventoryRepository) ListShopIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM shops ORDER BY id`)
	if err != nil {
		logger.Error("ListShopIDs: query failed", err)
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			logger.Error("ListShopIDs: scan failed", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
