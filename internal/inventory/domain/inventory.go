package domain

import (
	"time"
)

type ChangeType string

const (
	ChangeRestock    ChangeType = "restock"
	ChangeSale       ChangeType = "sale"
	ChangeAdjustment ChangeType = "adjustment"
)

func (t ChangeType) Valid() bool {
	switch t {
	case ChangeRestock, ChangeSale, ChangeAdjustment:
		return true
	}
	return false
}

// InventoryLog is one append-only audit row: what changed, by how much, and
// the stock snapshots around the change. Replaying a product's logs in
// order reproduces its current stock.
type InventoryLog struct {
	ID             string     `json:"id"`
	ShopID         string     `json:"-"`
	ProductID      string     `json:"product_id"`
	ProductName    string     `json:"product_name,omitempty"` // joined at read time
	TransactionID  *string    `json:"transaction_id,omitempty"`
	ChangeType     ChangeType `json:"change_type"`
	QuantityChange int        `json:"quantity_change"`
	PreviousStock  int        `json:"previous_stock"`
	NewStock       int        `json:"new_stock"`
	UserID         string     `json:"user_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

// StockChangeParams describes one requested stock mutation. Delta is signed:
// negative for sales and downward adjustments.
type StockChangeParams struct {
	ShopID        string
	ProductID     string
	ChangeType    ChangeType
	Delta         int
	UserID        string
	TransactionID *string
}

type StockChange struct {
	ProductID     string `json:"product_id"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
}

// ProductStockRow is the slice of the product row the ledger needs while
// holding the row lock.
type ProductStockRow struct {
	ID            string
	Name          string
	StockQuantity int
}

type RestockRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type AdjustRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}
