package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukapos/dukapos-api/internal/user/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateShopWithAdmin(ctx context.Context, shop *domain.Shop, admin *domain.User) error {
	args := m.Called(ctx, shop, admin)
	return args.Error(0)
}

func (m *MockUserRepository) GetShopByID(ctx context.Context, id string) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if shop := args.Get(0); shop != nil {
		return shop.(*domain.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, shopID, id string) (*domain.User, error) {
	args := m.Called(ctx, shopID, id)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByIdentifier(ctx context.Context, shopID, identifier string) (*domain.User, error) {
	args := m.Called(ctx, shopID, identifier)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}
