package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/user/domain"
	"github.com/dukapos/dukapos-api/internal/user/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid shop, identifier or password")
	ErrInvalidRole        = errors.New("role must be cashier or manager")
	ErrShopAlreadyExists  = errors.New("shop with this email already exists")
	ErrUserAlreadyExists  = errors.New("user with this email or username already exists in this shop")
	ErrShopNotFound       = errors.New("shop not found")
)

// shopIDAlphabet avoids ambiguous characters (0/O, 1/I/L) since shop codes
// are typed by hand at login.
const (
	shopIDAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	shopIDLength   = 5
	maxShopIDRetry = 10
)

type UserService interface {
	RegisterShop(ctx context.Context, req domain.RegisterShopRequest) (*domain.RegisterShopResponse, error)
	RegisterUser(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	CurrentUser(ctx context.Context, shopID, userID string) (*domain.User, error)
}

type userServiceImpl struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager) UserService {
	return &userServiceImpl{repo: repo, tokens: tokens}
}

// RegisterShop creates the tenant and its admin account. Shop IDs are short
// random codes, regenerated on collision until the insert succeeds.
func (s *userServiceImpl) RegisterShop(ctx context.Context, req domain.RegisterShopRequest) (*domain.RegisterShopResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("RegisterShop: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	shop := &domain.Shop{
		ShopName:  strings.TrimSpace(req.ShopName),
		OwnerName: strings.TrimSpace(req.OwnerName),
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     email,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         shop.OwnerName,
		Role:         auth.RoleAdmin,
	}

	for attempt := 0; attempt < maxShopIDRetry; attempt++ {
		shop.ID = generateShopID()
		err = s.repo.CreateShopWithAdmin(ctx, shop, admin)
		if errors.Is(err, repository.ErrShopIDTaken) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, repository.ErrShopConflict) {
			return nil, ErrShopAlreadyExists
		}
		if errors.Is(err, repository.ErrShopIDTaken) {
			logger.Error("RegisterShop: exhausted shop id attempts", err)
			return nil, fmt.Errorf("could not allocate shop id: %w", err)
		}
		logger.Error("RegisterShop: repo error", err)
		return nil, fmt.Errorf("could not register shop: %w", err)
	}

	logger.Info("Shop registered", zap.String("shop_id", shop.ID), zap.String("shop_name", shop.ShopName))

	admin.PasswordHash = ""
	return &domain.RegisterShopResponse{Shop: *shop, Admin: *admin}, nil
}

func (s *userServiceImpl) RegisterUser(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error) {
	if req.Role != auth.RoleCashier && req.Role != auth.RoleManager {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetShopByID(ctx, req.ShopID); err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return nil, ErrShopNotFound
		}
		logger.Error("RegisterUser: failed to verify shop", err)
		return nil, err
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("RegisterUser: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		ShopID:       req.ShopID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("RegisterUser: repo error", err)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	user, err := s.repo.GetUserByIdentifier(ctx, req.ShopID, identifier)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("Login: failed to get user by identifier", err)
		}
		// Same answer for unknown user and wrong password.
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Generate(user.ID, user.ShopID, user.Role, user.Name)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	user.PasswordHash = ""
	return &domain.LoginResponse{User: *user, Token: tokenString}, nil
}

// CurrentUser re-reads the authenticated user so a deactivated or deleted
// account stops resolving even while its token is still valid.
func (s *userServiceImpl) CurrentUser(ctx context.Context, shopID, userID string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, shopID, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("CurrentUser: failed to get user", err)
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func generateShopID() string {
	b := make([]byte, shopIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure means the process has bigger problems; still
		// return something deterministic enough to fail the insert loudly.
		return strings.Repeat("X", shopIDLength)
	}
	for i := range b {
		b[i] = shopIDAlphabet[int(b[i])%len(shopIDAlphabet)]
	}
	return string(b)
}
