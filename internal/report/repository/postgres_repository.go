package repository

import (
	"context"
	"database/sql"

	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/report/domain"
)

// ReportRepository serves read-only aggregates for the dashboard. It never
// participates in a write transaction.
type ReportRepository interface {
	GetTodaySales(ctx context.Context, shopID string) (total float64, count int, err error)
	GetPaymentBreakdown(ctx context.Context, shopID string) ([]domain.PaymentBreakdown, error)
	CountProducts(ctx context.Context, shopID string) (int, error)
	GetTopProducts(ctx context.Context, shopID string, limit int) ([]domain.TopProduct, error)
}

type postgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) GetTodaySales(ctx context.Context, shopID string) (float64, int, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
	          FROM transactions
	          WHERE shop_id = $1 AND status = 'completed' AND created_at::date = CURRENT_DATE`
	var total float64
	var count int
	if err := r.db.QueryRowContext(ctx, query, shopID).Scan(&total, &count); err != nil {
		logger.Error("GetTodaySales: query failed", err)
		return 0, 0, err
	}
	return total, count, nil
}

func (r *postgresReportRepository) GetPaymentBreakdown(ctx context.Context, shopID string) ([]domain.PaymentBreakdown, error) {
	query := `SELECT payment_method, COALESCE(SUM(total_amount), 0), COUNT(*)
	          FROM transactions
	          WHERE shop_id = $1 AND status = 'completed' AND created_at::date = CURRENT_DATE
	          GROUP BY payment_method
	          ORDER BY payment_method`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		logger.Error("GetPaymentBreakdown: query failed", err)
		return nil, err
	}
	defer rows.Close()

	breakdown := []domain.PaymentBreakdown{}
	for rows.Next() {
		var b domain.PaymentBreakdown
		if err := rows.Scan(&b.PaymentMethod, &b.Total, &b.Count); err != nil {
			logger.Error("GetPaymentBreakdown: scan failed", err)
			return nil, err
		}
		breakdown = append(breakdown, b)
	}
	return breakdown, rows.Err()
}

func (r *postgresReportRepository) CountProducts(ctx context.Context, shopID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE shop_id = $1`, shopID).Scan(&count)
	if err != nil {
		logger.Error("CountProducts: query failed", err)
		return 0, err
	}
	return count, nil
}

func (r *postgresReportRepository) GetTopProducts(ctx context.Context, shopID string, limit int) ([]domain.TopProduct, error) {
	query := `SELECT ti.item_id, ti.name, SUM(ti.quantity), SUM(ti.subtotal)
	          FROM transaction_items ti
	          JOIN transactions t ON ti.transaction_id = t.id
	          WHERE t.shop_id = $1 AND t.status = 'completed' AND ti.item_type = 'product'
	          GROUP BY ti.item_id, ti.name
	          ORDER BY SUM(ti.quantity) DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, shopID, limit)
	if err != nil {
		logger.Error("GetTopProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.TopProduct{}
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.QuantitySold, &p.Revenue); err != nil {
			logger.Error("GetTopProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
