package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/catalog/repository"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrInvalidPrice         = errors.New("price must be a positive number")
	ErrInvalidMinStockLevel = errors.New("minimum stock level must be a non-negative number")
	ErrInvalidStockQuantity = errors.New("stock quantity must be a non-negative number")
)

type CatalogService interface {
	CreateProduct(ctx context.Context, shopID string, req domain.ProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, shopID, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, shopID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, shopID, id string, req domain.ProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, shopID, id string) error

	CreateService(ctx context.Context, shopID string, req domain.ServiceRequest) (*domain.Service, error)
	GetService(ctx context.Context, shopID, id string) (*domain.Service, error)
	ListServices(ctx context.Context, shopID string) ([]domain.Service, error)
	UpdateService(ctx context.Context, shopID, id string, req domain.ServiceRequest) (*domain.Service, error)
	DeleteService(ctx context.Context, shopID, id string) error
}

type catalogServiceImpl struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogServiceImpl{repo: repo}
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, shopID string, req domain.ProductRequest) (*domain.Product, error) {
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.MinStockLevel == nil || *req.MinStockLevel < 0 {
		return nil, ErrInvalidMinStockLevel
	}
	if req.StockQuantity < 0 {
		return nil, ErrInvalidStockQuantity
	}

	unit := req.Unit
	if unit == "" {
		unit = "piece"
	}

	product := &domain.Product{
		ID:            uuid.NewString(),
		ShopID:        shopID,
		Name:          req.Name,
		Barcode:       req.Barcode,
		Category:      req.Category,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity, // opening stock; later changes go through the ledger
		MinStockLevel: *req.MinStockLevel,
		Unit:          unit,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if !errors.Is(err, repository.ErrBarcodeConflict) {
			logger.Error("Svc.CreateProduct: repo error", err)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, shopID, id string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, shopID, id)
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, shopID)
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, shopID, id string, req domain.ProductRequest) (*domain.Product, error) {
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.MinStockLevel == nil || *req.MinStockLevel < 0 {
		return nil, ErrInvalidMinStockLevel
	}

	product, err := s.repo.GetProductByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Barcode = req.Barcode
	product.Category = req.Category
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.MinStockLevel = *req.MinStockLevel
	if req.Unit != "" {
		product.Unit = req.Unit
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if !errors.Is(err, repository.ErrBarcodeConflict) && !errors.Is(err, repository.ErrProductNotFound) {
			logger.Error("Svc.UpdateProduct: repo error", err)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, shopID, id string) error {
	return s.repo.DeleteProduct(ctx, shopID, id)
}

func (s *catalogServiceImpl) CreateService(ctx context.Context, shopID string, req domain.ServiceRequest) (*domain.Service, error) {
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	svc := &domain.Service{
		ID:              uuid.NewString(),
		ShopID:          shopID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        active,
	}

	if err := s.repo.CreateService(ctx, svc); err != nil {
		logger.Error("Svc.CreateService: repo error", err)
		return nil, err
	}
	return svc, nil
}

func (s *catalogServiceImpl) GetService(ctx context.Context, shopID, id string) (*domain.Service, error) {
	return s.repo.GetServiceByID(ctx, shopID, id)
}

func (s *catalogServiceImpl) ListServices(ctx context.Context, shopID string) ([]domain.Service, error) {
	return s.repo.ListActiveServices(ctx, shopID)
}

func (s *catalogServiceImpl) UpdateService(ctx context.Context, shopID, id string, req domain.ServiceRequest) (*domain.Service, error) {
	if req.Price < 0 {
		return nil, ErrInvalidPrice
	}

	svc, err := s.repo.GetServiceByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.Price = req.Price
	svc.DurationMinutes = req.DurationMinutes
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateService(ctx, svc); err != nil {
		if !errors.Is(err, repository.ErrServiceNotFound) {
			logger.Error("Svc.UpdateService: repo error", err)
		}
		return nil, err
	}
	return svc, nil
}

func (s *catalogServiceImpl) DeleteService(ctx context.Context, shopID, id string) error {
	return s.repo.DeactivateService(ctx, shopID, id)
}
