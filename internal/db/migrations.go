package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('farmer', 'buyer')),
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone_number TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		farmer_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit TEXT NOT NULL,
		price TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('available', 'pending', 'sold')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id SERIAL PRIMARY KEY,
		buyer_id INTEGER NOT NULL REFERENCES users(id),
		farmer_id INTEGER NOT NULL REFERENCES users(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'accepted', 'rejected', 'completed')),
		delivery_date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES users(id),
		receiver_id INTEGER NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_products_farmer_id ON products (farmer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_buyer_id ON contracts (buyer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_farmer_id ON contracts (farmer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_product_id ON contracts (product_id);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender_receiver ON messages (sender_id, receiver_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
