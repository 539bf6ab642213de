package domain

import (
	"time"
)

type Product struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"-"`
	Name          string    `json:"name"`
	Barcode       *string   `json:"barcode,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Price         float64   `json:"price"`
	CostPrice     *float64  `json:"cost_price,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	Unit          string    `json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Service struct {
	ID              string    `json:"id"`
	ShopID          string    `json:"-"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Barcode       *string  `json:"barcode"`
	Category      *string  `json:"category"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	CostPrice     *float64 `json:"cost_price"`
	StockQuantity int      `json:"stock_quantity"`
	MinStockLevel *int     `json:"min_stock_level" binding:"required"`
	Unit          string   `json:"unit"`
}

type ServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     *string `json:"description"`
	Price           float64 `json:"price" binding:"required,gte=0"`
	DurationMinutes *int    `json:"duration_minutes"`
	IsActive        *bool   `json:"is_active"`
}
