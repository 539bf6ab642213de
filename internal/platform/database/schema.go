package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Every tenant-owned table carries shop_id; repositories must filter on it
// in every query. Stock bounds are enforced at the database level as the
// last line of defense behind the ledger's own checks.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS shops (
		id          TEXT PRIMARY KEY,
		shop_name   TEXT NOT NULL,
		owner_name  TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		phone       TEXT,
		address     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		shop_id       TEXT NOT NULL REFERENCES shops(id),
		username      TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('admin', 'manager', 'cashier')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (shop_id, email),
		UNIQUE (shop_id, username)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id              UUID PRIMARY KEY,
		shop_id         TEXT NOT NULL REFERENCES shops(id),
		name            TEXT NOT NULL,
		barcode         TEXT,
		category        TEXT,
		price           NUMERIC(12,2) NOT NULL,
		cost_price      NUMERIC(12,2),
		stock_quantity  INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		min_stock_level INTEGER NOT NULL DEFAULT 0 CHECK (min_stock_level >= 0),
		unit            TEXT NOT NULL DEFAULT 'piece',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (shop_id, barcode)
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id               UUID PRIMARY KEY,
		shop_id          TEXT NOT NULL REFERENCES shops(id),
		name             TEXT NOT NULL,
		description      TEXT,
		price            NUMERIC(12,2) NOT NULL,
		duration_minutes INTEGER,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id                 UUID PRIMARY KEY,
		shop_id            TEXT NOT NULL REFERENCES shops(id),
		transaction_number TEXT NOT NULL UNIQUE,
		user_id            UUID NOT NULL REFERENCES users(id),
		total_amount       NUMERIC(12,2) NOT NULL,
		payment_method     TEXT NOT NULL CHECK (payment_method IN ('cash', 'card', 'mobile_money')),
		status             TEXT NOT NULL CHECK (status IN ('completed', 'cancelled', 'pending')),
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transaction_items (
		id             UUID PRIMARY KEY,
		transaction_id UUID NOT NULL REFERENCES transactions(id),
		item_type      TEXT NOT NULL CHECK (item_type IN ('product', 'service')),
		item_id        UUID NOT NULL,
		name           TEXT NOT NULL,
		quantity       INTEGER NOT NULL CHECK (quantity > 0),
		unit_price     NUMERIC(12,2) NOT NULL,
		subtotal       NUMERIC(12,2) NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_logs (
		id              UUID PRIMARY KEY,
		shop_id         TEXT NOT NULL REFERENCES shops(id),
		product_id      UUID NOT NULL REFERENCES products(id),
		transaction_id  UUID REFERENCES transactions(id),
		change_type     TEXT NOT NULL CHECK (change_type IN ('restock', 'sale', 'adjustment')),
		quantity_change INTEGER NOT NULL,
		previous_stock  INTEGER NOT NULL,
		new_stock       INTEGER NOT NULL,
		user_id         UUID NOT NULL REFERENCES users(id),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_shop ON products (shop_id)`,
	`CREATE INDEX IF NOT EXISTS idx_services_shop ON services (shop_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_shop_created ON transactions (shop_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_items_txn ON transaction_items (transaction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_logs_shop_created ON inventory_logs (shop_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs (product_id, created_at)`,
}

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
