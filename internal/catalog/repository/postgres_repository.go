package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrBarcodeConflict = errors.New("product with this barcode already exists")
	ErrProductInUse    = errors.New("product has sales or inventory history")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, shopID, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, shopID string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, shopID, id string) error

	CreateService(ctx context.Context, svc *domain.Service) error
	GetServiceByID(ctx context.Context, shopID, id string) (*domain.Service, error)
	ListActiveServices(ctx context.Context, shopID string) ([]domain.Service, error)
	UpdateService(ctx context.Context, svc *domain.Service) error
	DeactivateService(ctx context.Context, shopID, id string) error
}

type postgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

// --- Products ---

func (r *postgresCatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	query := `INSERT INTO products (id, shop_id, name, barcode, category, price, cost_price,
	                                stock_quantity, min_stock_level, unit, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ShopID, p.Name, p.Barcode, p.Category, p.Price, p.CostPrice,
		p.StockQuantity, p.MinStockLevel, p.Unit, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrBarcodeConflict
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresCatalogRepository) GetProductByID(ctx context.Context, shopID, id string) (*domain.Product, error) {
	query := `SELECT id, shop_id, name, barcode, category, price, cost_price,
	                 stock_quantity, min_stock_level, unit, created_at, updated_at
	          FROM products WHERE shop_id = $1 AND id = $2`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, shopID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return p, nil
}

func (r *postgresCatalogRepository) ListProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	query := `SELECT id, shop_id, name, barcode, category, price, cost_price,
	                 stock_quantity, min_stock_level, unit, created_at, updated_at
	          FROM products WHERE shop_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// UpdateProduct updates catalog fields only. stock_quantity belongs to the
// stock ledger and is deliberately absent from this statement.
func (r *postgresCatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now()
	query := `UPDATE products
	          SET name = $1, barcode = $2, category = $3, price = $4, cost_price = $5,
	              min_stock_level = $6, unit = $7, updated_at = $8
	          WHERE shop_id = $9 AND id = $10`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Barcode, p.Category, p.Price, p.CostPrice,
		p.MinStockLevel, p.Unit, p.UpdatedAt, p.ShopID, p.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return ErrBarcodeConflict
		}
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product that has never been sold or restocked.
// Inventory logs and transaction items reference products, so the audit
// trail blocks deletion once history exists.
func (r *postgresCatalogRepository) DeleteProduct(ctx context.Context, shopID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == foreignKeyViolation {
			return ErrProductInUse
		}
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// --- Services ---

func (r *postgresCatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	s.CreatedAt = time.Now()
	query := `INSERT INTO services (id, shop_id, name, description, price, duration_minutes, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ShopID, s.Name, s.Description, s.Price, s.DurationMinutes, s.IsActive, s.CreatedAt)
	if err != nil {
		logger.Error("CreateService: failed to insert service", err)
		return err
	}
	return nil
}

func (r *postgresCatalogRepository) GetServiceByID(ctx context.Context, shopID, id string) (*domain.Service, error) {
	query := `SELECT id, shop_id, name, description, price, duration_minutes, is_active, created_at
	          FROM services WHERE shop_id = $1 AND id = $2`
	var s domain.Service
	var description sql.NullString
	var duration sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, shopID, id).Scan(
		&s.ID, &s.ShopID, &s.Name, &description, &s.Price, &duration, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		logger.Error("GetServiceByID: query failed", err)
		return nil, err
	}
	if description.Valid {
		s.Description = &description.String
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.DurationMinutes = &d
	}
	return &s, nil
}

func (r *postgresCatalogRepository) ListActiveServices(ctx context.Context, shopID string) ([]domain.Service, error) {
	query := `SELECT id, shop_id, name, description, price, duration_minutes, is_active, created_at
	          FROM services WHERE shop_id = $1 AND is_active = TRUE ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		logger.Error("ListActiveServices: query failed", err)
		return nil, err
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		var s domain.Service
		var description sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Name, &description, &s.Price, &duration, &s.IsActive, &s.CreatedAt); err != nil {
			logger.Error("ListActiveServices: scan failed", err)
			return nil, err
		}
		if description.Valid {
			s.Description = &description.String
		}
		if duration.Valid {
			d := int(duration.Int64)
			s.DurationMinutes = &d
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *postgresCatalogRepository) UpdateService(ctx context.Context, s *domain.Service) error {
	query := `UPDATE services
	          SET name = $1, description = $2, price = $3, duration_minutes = $4, is_active = $5
	          WHERE shop_id = $6 AND id = $7`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, s.Description, s.Price, s.DurationMinutes, s.IsActive, s.ShopID, s.ID)
	if err != nil {
		logger.Error("UpdateService: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// DeactivateService is the soft delete: the row stays for historical
// transaction items that reference it.
func (r *postgresCatalogRepository) DeactivateService(ctx context.Context, shopID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET is_active = FALSE WHERE shop_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		logger.Error("DeactivateService: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var barcode, category sql.NullString
	var costPrice sql.NullFloat64
	err := row.Scan(&p.ID, &p.ShopID, &p.Name, &barcode, &category, &p.Price, &costPrice,
		&p.StockQuantity, &p.MinStockLevel, &p.Unit, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if barcode.Valid {
		p.Barcode = &barcode.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if costPrice.Valid {
		p.CostPrice = &costPrice.Float64
	}
	return &p, nil
}
