package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukapos/dukapos-api/internal/catalog/domain"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, shopID, id string) (*domain.Product, error) {
	args := m.Called(ctx, shopID, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	args := m.Called(ctx, shopID)
	if products := args.Get(0); products != nil {
		return products.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, shopID, id string) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateService(ctx context.Context, svc *domain.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetServiceByID(ctx context.Context, shopID, id string) (*domain.Service, error) {
	args := m.Called(ctx, shopID, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) ListActiveServices(ctx context.Context, shopID string) ([]domain.Service, error) {
	args := m.Called(ctx, shopID)
	if services := args.Get(0); services != nil {
		return services.([]domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) UpdateService(ctx context.Context, svc *domain.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeactivateService(ctx context.Context, shopID, id string) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}
