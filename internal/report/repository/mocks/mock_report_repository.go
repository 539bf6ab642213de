package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukapos/dukapos-api/internal/report/domain"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetTodaySales(ctx context.Context, shopID string) (float64, int, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockReportRepository) GetPaymentBreakdown(ctx context.Context, shopID string) ([]domain.PaymentBreakdown, error) {
	args := m.Called(ctx, shopID)
	if b := args.Get(0); b != nil {
		return b.([]domain.PaymentBreakdown), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportRepository) CountProducts(ctx context.Context, shopID string) (int, error) {
	args := m.Called(ctx, shopID)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) GetTopProducts(ctx context.Context, shopID string, limit int) ([]domain.TopProduct, error) {
	args := m.Called(ctx, shopID, limit)
	if p := args.Get(0); p != nil {
		return p.([]domain.TopProduct), args.Error(1)
	}
	return nil, args.Error(1)
}
