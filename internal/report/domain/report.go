package domain

import (
	"github.com/dukapos/dukapos-api/internal/checkout/domain"
)

// PaymentBreakdown is one row of the payment-method group-by over today's
// completed transactions.
type PaymentBreakdown struct {
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
	Count         int     `json:"count"`
}

type TopProduct struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type Dashboard struct {
	TodaySalesTotal       float64              `json:"today_sales_total"`
	TodayTransactionCount int                  `json:"today_transaction_count"`
	PaymentBreakdown      []PaymentBreakdown   `json:"payment_breakdown"`
	LowStockCount         int                  `json:"low_stock_count"`
	TotalProducts         int                  `json:"total_products"`
	TopProducts           []TopProduct         `json:"top_products"`
	RecentTransactions    []domain.Transaction `json:"recent_transactions"`
}
