package service

import (
	"context"

	catalogDomain "github.com/dukapos/dukapos-api/internal/catalog/domain"
	checkoutDomain "github.com/dukapos/dukapos-api/internal/checkout/domain"
	"github.com/dukapos/dukapos-api/internal/report/domain"
	"github.com/dukapos/dukapos-api/internal/report/repository"
)

const (
	topProductLimit  = 10
	recentSalesLimit = 10
)

// LowStockReader and TransactionReader are the narrow views of the other
// modules the dashboard composes from.
type LowStockReader interface {
	GetLowStock(ctx context.Context, shopID string) ([]catalogDomain.Product, error)
}

type TransactionReader interface {
	ListTransactions(ctx context.Context, shopID string, limit int) ([]checkoutDomain.Transaction, error)
}

type ReportService interface {
	GetDashboard(ctx context.Context, shopID string) (*domain.Dashboard, error)
}

type reportService struct {
	repo         repository.ReportRepository
	lowStock     LowStockReader
	transactions TransactionReader
}

func NewReportService(repo repository.ReportRepository, lowStock LowStockReader, transactions TransactionReader) ReportService {
	return &reportService{repo: repo, lowStock: lowStock, transactions: transactions}
}

func (s *reportService) GetDashboard(ctx context.Context, shopID string) (*domain.Dashboard, error) {
	total, count, err := s.repo.GetTodaySales(ctx, shopID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.repo.GetPaymentBreakdown(ctx, shopID)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.lowStock.GetLowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}

	productCount, err := s.repo.CountProducts(ctx, shopID)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.repo.GetTopProducts(ctx, shopID, topProductLimit)
	if err != nil {
		return nil, err
	}

	recent, err := s.transactions.ListTransactions(ctx, shopID, recentSalesLimit)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		TodaySalesTotal:       total,
		TodayTransactionCount: count,
		PaymentBreakdown:      breakdown,
		LowStockCount:         len(lowStock),
		TotalProducts:         productCount,
		TopProducts:           topProducts,
		RecentTransactions:    recent,
	}, nil
}
