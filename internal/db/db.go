package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dialect captures what differs between the supported catalog databases.
type Dialect struct {
	Driver      string
	Placeholder func(n int) string
}

var (
	MySQL = Dialect{
		Driver:      "mysql",
		Placeholder: func(int) string { return "?" },
	}
	Postgres = Dialect{
		Driver:      "pgx",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// InitDB opens the shared pool and checks that the server answers.
func InitDB(dialect Dialect, dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	db, err := sql.Open(dialect.Driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}

	return db, nil
}

// Bootstrap creates the catalog tables and the products_with_stock view when
// they are missing. It is meant for local setups; production schemas are
// managed outside this service.
func Bootstrap(ctx context.Context, db *sql.DB, dialect Dialect) error {
	queries := mysqlSchema
	if dialect.Driver == Postgres.Driver {
		queries = postgresSchema
	}

	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}
	return nil
}

const productsWithStockView = `
	SELECT
		p.id, p.brand, p.model, p.slug, p.id_category, p.price, p.monthly, p.badge, p.image,
		p.description, p.specifications,
		c.name AS category_name, c.slug AS category_slug,
		COALESCE(SUM(s.quantity), 0) AS total_stock,
		COALESCE(SUM(s.reserved), 0) AS total_reserved,
		COALESCE(SUM(s.quantity), 0) - COALESCE(SUM(s.reserved), 0) AS available_stock
	FROM products p
	JOIN categories c ON c.id = p.id_category
	LEFT JOIN stock_product s ON s.id_product = p.id
	GROUP BY p.id, c.id`

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		brand VARCHAR(100) NOT NULL,
		model VARCHAR(150) NOT NULL,
		slug VARCHAR(200) NOT NULL UNIQUE,
		id_category INT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		monthly DECIMAL(10,2),
		badge VARCHAR(50),
		image VARCHAR(500),
		description TEXT,
		specifications JSON,
		INDEX idx_products_category (id_category),
		INDEX idx_products_brand_model (brand, model),
		FOREIGN KEY (id_category) REFERENCES categories(id)
	);`,
	`CREATE TABLE IF NOT EXISTS stock_product (
		id INT AUTO_INCREMENT PRIMARY KEY,
		id_product INT NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		reserved INT NOT NULL DEFAULT 0,
		INDEX idx_stock_product (id_product),
		FOREIGN KEY (id_product) REFERENCES products(id) ON DELETE CASCADE
	);`,
	`CREATE OR REPLACE VIEW products_with_stock AS` + productsWithStockView + `;`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) NOT NULL UNIQUE
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		brand VARCHAR(100) NOT NULL,
		model VARCHAR(150) NOT NULL,
		slug VARCHAR(200) NOT NULL UNIQUE,
		id_category INT NOT NULL REFERENCES categories(id),
		price NUMERIC(10,2) NOT NULL,
		monthly NUMERIC(10,2),
		badge VARCHAR(50),
		image VARCHAR(500),
		description TEXT,
		specifications JSONB
	);`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (id_category);`,
	`CREATE INDEX IF NOT EXISTS idx_products_brand_model ON products (brand, model);`,
	`CREATE TABLE IF NOT EXISTS stock_product (
		id SERIAL PRIMARY KEY,
		id_product INT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INT NOT NULL DEFAULT 0,
		reserved INT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_stock_product ON stock_product (id_product);`,
	`CREATE OR REPLACE VIEW products_with_stock AS` + productsWithStockView + `;`,
}
