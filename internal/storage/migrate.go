package storage

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// Migrate creates the schema if it does not exist. The DDL is hand-written
// per dialect; there are no generated migrations to run.
func (c *Client) Migrate(ctx context.Context) error {
	for _, stmt := range c.schema() {
		if err := c.exec(ctx, stmt, nil); err != nil {
			return fmt.Errorf("storage: migrate: %w", err)
		}
	}

	return nil
}

func (c *Client) schema() []string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"

	switch c.dialect {
	case dialect.Postgres:
		pk = "BIGSERIAL PRIMARY KEY"
	case dialect.MySQL:
		pk = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(150) NOT NULL UNIQUE,
			email VARCHAR(254) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			roles TEXT NOT NULL,
			scopes TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stores (
			id %s,
			vendor_id BIGINT NOT NULL,
			name VARCHAR(120) NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
			id %s,
			store_id BIGINT NOT NULL,
			name VARCHAR(100) NOT NULL,
			price VARCHAR(32) NOT NULL,
			stock BIGINT NOT NULL DEFAULT 0
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS reviews (
			id %s,
			product_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			rating BIGINT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			CONSTRAINT unique_review_per_user_product UNIQUE (user_id, product_id)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
			id %s,
			user_id BIGINT NOT NULL,
			total VARCHAR(32) NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS order_lines (
			id %s,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			qty BIGINT NOT NULL,
			price_snapshot VARCHAR(32) NOT NULL
		)`, pk),
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; the unique and primary keys
	// above are enough there.
	if c.dialect != dialect.MySQL {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_stores_vendor ON stores (vendor_id)`,
			`CREATE INDEX IF NOT EXISTS idx_products_store ON products (store_id)`,
			`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews (product_id)`,
			`CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines (order_id)`,
		)
	}

	return stmts
}
