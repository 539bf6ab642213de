package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/user/domain"
)

var (
	ErrShopNotFound = errors.New("shop not found")
	ErrShopConflict = errors.New("shop with this email already exists")
	ErrShopIDTaken  = errors.New("shop id already taken")
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("user with this email or username already exists in this shop")
)

const uniqueViolation = "23505"

type UserRepository interface {
	CreateShopWithAdmin(ctx context.Context, shop *domain.Shop, admin *domain.User) error
	GetShopByID(ctx context.Context, id string) (*domain.Shop, error)
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByIdentifier(ctx context.Context, shopID, identifier string) (*domain.User, error)
	GetUserByID(ctx context.Context, shopID, id string) (*domain.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

// CreateShopWithAdmin inserts the shop and its admin user in one transaction
// so a shop never exists without an owning account.
func (r *postgresUserRepository) CreateShopWithAdmin(ctx context.Context, shop *domain.Shop, admin *domain.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("CreateShopWithAdmin: failed to begin tx", err)
		return err
	}
	defer tx.Rollback() // Rollback if not committed

	shop.CreatedAt = time.Now()
	shopQuery := `INSERT INTO shops (id, shop_name, owner_name, email, phone, address, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(ctx, shopQuery,
		shop.ID, shop.ShopName, shop.OwnerName, shop.Email, shop.Phone, shop.Address, shop.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "shops_pkey" {
				return ErrShopIDTaken
			}
			return ErrShopConflict
		}
		logger.Error("CreateShopWithAdmin: failed to insert shop", err)
		return err
	}

	admin.ShopID = shop.ID
	admin.CreatedAt = shop.CreatedAt
	userQuery := `INSERT INTO users (id, shop_id, username, email, password_hash, name, role, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctx, userQuery,
		admin.ID, admin.ShopID, admin.Username, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrUserConflict
		}
		logger.Error("CreateShopWithAdmin: failed to insert admin user", err)
		return err
	}

	return tx.Commit()
}

func (r *postgresUserRepository) GetShopByID(ctx context.Context, id string) (*domain.Shop, error) {
	query := `SELECT id, shop_name, owner_name, email, phone, address, created_at FROM shops WHERE id = $1`
	var s domain.Shop
	var phone, address sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ShopName, &s.OwnerName, &s.Email, &phone, &address, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		logger.Error("GetShopByID: query failed", err)
		return nil, err
	}
	if phone.Valid {
		s.Phone = &phone.String
	}
	if address.Valid {
		s.Address = &address.String
	}
	return &s, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.CreatedAt = time.Now()
	query := `INSERT INTO users (id, shop_id, username, email, password_hash, name, role, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ShopID, user.Username, user.Email, user.PasswordHash, user.Name, user.Role, user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, shopID, id string) (*domain.User, error) {
	query := `SELECT id, shop_id, username, email, password_hash, name, role, created_at
	          FROM users WHERE shop_id = $1 AND id = $2`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, shopID, id).Scan(
		&u.ID, &u.ShopID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserByID: query failed", err)
		return nil, err
	}
	return &u, nil
}

// GetUserByIdentifier looks a user up within a shop by email or username.
func (r *postgresUserRepository) GetUserByIdentifier(ctx context.Context, shopID, identifier string) (*domain.User, error) {
	query := `SELECT id, shop_id, username, email, password_hash, name, role, created_at
	          FROM users WHERE shop_id = $1 AND (email = $2 OR username = $2)`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, shopID, identifier).Scan(
		&u.ID, &u.ShopID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserByIdentifier: query failed", err)
		return nil, err
	}
	return &u, nil
}
