package domain

import (
	"time"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
	StatusPending   TransactionStatus = "pending"
)

type ItemType string

const (
	ItemProduct ItemType = "product"
	ItemService ItemType = "service"
)

func (t ItemType) Valid() bool {
	return t == ItemProduct || t == ItemService
}

// Transaction is immutable once created; the checkout flow only ever
// produces completed ones.
type Transaction struct {
	ID                string            `json:"id"`
	ShopID            string            `json:"-"`
	TransactionNumber string            `json:"transaction_number"`
	UserID            string            `json:"user_id"`
	TotalAmount       float64           `json:"total_amount"`
	PaymentMethod     PaymentMethod     `json:"payment_method"`
	Status            TransactionStatus `json:"status"`
	Items             []TransactionItem `json:"items,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// TransactionItem captures quantity, the unit price at time of sale, and a
// snapshot of the item's name so history doesn't change when the catalog
// entry is renamed.
type TransactionItem struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"-"`
	ItemType      ItemType  `json:"item_type"`
	ItemID        string    `json:"item_id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Subtotal      float64   `json:"subtotal"`
	CreatedAt     time.Time `json:"created_at"`
}

type CartItemRequest struct {
	Type     ItemType `json:"type" binding:"required"`
	ID       string   `json:"id" binding:"required"`
	Quantity int      `json:"quantity" binding:"required"`
	Price    float64  `json:"price"`
}

type CheckoutRequest struct {
	Items         []CartItemRequest `json:"items"`
	PaymentMethod PaymentMethod     `json:"paymentMethod" binding:"required"`
	// Total is the client's idea of the total. The engine recomputes it
	// from the line items and rejects a mismatch; zero means "not sent".
	Total float64 `json:"total"`
}

// SaleProduct is the product slice the checkout engine reads under the row
// lock during validation.
type SaleProduct struct {
	ID            string
	Name          string
	Price         float64
	StockQuantity int
}

// SaleService is the service slice needed to resolve a service line.
type SaleService struct {
	ID    string
	Name  string
	Price float64
}
