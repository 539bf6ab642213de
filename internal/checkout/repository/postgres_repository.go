package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/dukapos/dukapos-api/internal/checkout/domain"
	"github.com/dukapos/dukapos-api/internal/platform/database"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrProductNotFound            = errors.New("product not found")
	ErrServiceNotFound            = errors.New("service not found")
	ErrDuplicateTransactionNumber = errors.New("transaction number already exists")
)

const uniqueViolation = "23505"

type CheckoutRepository interface {
	BeginTx(ctx context.Context) (database.DBTX, error)

	// GetProductForSale locks the product row for the duration of the
	// checkout transaction; validation and the later stock decrement see
	// the same stock value.
	GetProductForSale(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.SaleProduct, error)
	GetServiceForSale(ctx context.Context, tx database.DBTX, shopID, serviceID string) (*domain.SaleService, error)

	InsertTransaction(ctx context.Context, tx database.DBTX, t *domain.Transaction) error
	InsertTransactionItem(ctx context.Context, tx database.DBTX, item *domain.TransactionItem) error

	ListTransactions(ctx context.Context, shopID string, limit int) ([]domain.Transaction, error)
	GetTransactionByID(ctx context.Context, shopID, id string) (*domain.Transaction, error)
	GetItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)
}

type postgresCheckoutRepository struct {
	db *sql.DB
}

func NewPostgresCheckoutRepository(db *sql.DB) CheckoutRepository {
	return &postgresCheckoutRepository{db: db}
}

func (r *postgresCheckoutRepository) BeginTx(ctx context.Context) (database.DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

func (r *postgresCheckoutRepository) GetProductForSale(ctx context.Context, tx database.DBTX, shopID, productID string) (*domain.SaleProduct, error) {
	query := `SELECT id, name, price, stock_quantity FROM products
	          WHERE shop_id = $1 AND id = $2 FOR UPDATE`
	var p domain.SaleProduct
	err := tx.QueryRowContext(ctx, query, shopID, productID).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductForSale: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresCheckoutRepository) GetServiceForSale(ctx context.Context, tx database.DBTX, shopID, serviceID string) (*domain.SaleService, error) {
	query := `SELECT id, name, price FROM services
	          WHERE shop_id = $1 AND id = $2 AND is_active = TRUE`
	var s domain.SaleService
	err := tx.QueryRowContext(ctx, query, shopID, serviceID).Scan(&s.ID, &s.Name, &s.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		logger.Error("GetServiceForSale: query failed", err)
		return nil, err
	}
	return &s, nil
}

func (r *postgresCheckoutRepository) InsertTransaction(ctx context.Context, tx database.DBTX, t *domain.Transaction) error {
	t.CreatedAt = time.Now()
	query := `INSERT INTO transactions (id, shop_id, transaction_number, user_id, total_amount,
	                                    payment_method, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := tx.ExecContext(ctx, query,
		t.ID, t.ShopID, t.TransactionNumber, t.UserID, t.TotalAmount, t.PaymentMethod, t.Status, t.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrDuplicateTransactionNumber
		}
		logger.Error("InsertTransaction: exec failed", err)
		return err
	}
	return nil
}

func (r *postgresCheckoutRepository) InsertTransactionItem(ctx context.Context, tx database.DBTX, item *domain.TransactionItem) error {
	item.CreatedAt = time.Now()
	query := `INSERT INTO transaction_items (id, transaction_id, item_type, item_id, name,
	                                         quantity, unit_price, subtotal, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := tx.ExecContext(ctx, query,
		item.ID, item.TransactionID, item.ItemType, item.ItemID, item.Name,
		item.Quantity, item.UnitPrice, item.Subtotal, item.CreatedAt)
	if err != nil {
		logger.Error("InsertTransactionItem: exec failed", err)
		return err
	}
	return nil
}

func (r *postgresCheckoutRepository) ListTransactions(ctx context.Context, shopID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT id, shop_id, transaction_number, user_id, total_amount, payment_method, status, created_at
	          FROM transactions WHERE shop_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, shopID, limit)
	if err != nil {
		logger.Error("ListTransactions: query failed", err)
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.ShopID, &t.TransactionNumber, &t.UserID, &t.TotalAmount,
			&t.PaymentMethod, &t.Status, &t.CreatedAt); err != nil {
			logger.Error("ListTransactions: scan failed", err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range transactions {
		items, err := r.GetItemsByTransactionID(ctx, transactions[i].ID)
		if err != nil {
			return nil, err
		}
		transactions[i].Items = items
	}
	return transactions, nil
}

func (r *postgresCheckoutRepository) GetTransactionByID(ctx context.Context, shopID, id string) (*domain.Transaction, error) {
	query := `SELECT id, shop_id, transaction_number, user_id, total_amount, payment_method, status, created_at
	          FROM transactions WHERE shop_id = $1 AND id = $2`
	var t domain.Transaction
	err := r.db.QueryRowContext(ctx, query, shopID, id).Scan(
		&t.ID, &t.ShopID, &t.TransactionNumber, &t.UserID, &t.TotalAmount,
		&t.PaymentMethod, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		logger.Error("GetTransactionByID: query failed", err)
		return nil, err
	}

	items, err := r.GetItemsByTransactionID(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (r *postgresCheckoutRepository) GetItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	query := `SELECT id, transaction_id, item_type, item_id, name, quantity, unit_price, subtotal, created_at
	          FROM transaction_items WHERE transaction_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		logger.Error("GetItemsByTransactionID: query failed", err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.TransactionItem{}
	for rows.Next() {
		var i domain.TransactionItem
		if err := rows.Scan(&i.ID, &i.TransactionID, &i.ItemType, &i.ItemID, &i.Name,
			&i.Quantity, &i.UnitPrice, &i.Subtotal, &i.CreatedAt); err != nil {
			logger.Error("GetItemsByTransactionID: scan failed", err)
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
