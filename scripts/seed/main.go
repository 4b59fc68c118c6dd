// Package main implements a standalone seed script that creates the
// storefront schema and populates it with realistic apparel data: products
// with size/color variants, stock levels, and a featured promotion. It
// connects directly to PostgreSQL with the same settings the service uses.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// --------------------------------------------------------------------------
// Schema
// --------------------------------------------------------------------------

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		price      BIGINT NOT NULL,
		has_free_shipping BOOLEAN NOT NULL DEFAULT FALSE,
		is_preorder       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS variants (
		id         BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id),
		size       TEXT NOT NULL,
		color      TEXT NOT NULL,
		qty        INT NOT NULL DEFAULT 0,
		UNIQUE (product_id, size, color)
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id              BIGSERIAL PRIMARY KEY,
		name            TEXT NOT NULL,
		details         TEXT NOT NULL DEFAULT '',
		percent_discount           BIGINT NOT NULL DEFAULT 0,
		percent_discount_threshold BIGINT NOT NULL DEFAULT 0,
		amount                     BIGINT NOT NULL DEFAULT 0,
		amount_threshold           BIGINT NOT NULL DEFAULT 0,
		is_free_shipping           BOOLEAN NOT NULL DEFAULT FALSE,
		free_shipping_threshold    BIGINT NOT NULL DEFAULT 0,
		is_featured                BOOLEAN NOT NULL DEFAULT FALSE,
		expiration_date            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               TEXT PRIMARY KEY,
		session_id       TEXT NOT NULL,
		status           TEXT NOT NULL,
		subtotal_amount  BIGINT NOT NULL,
		amount_discount  BIGINT NOT NULL DEFAULT 0,
		percent_discount BIGINT NOT NULL DEFAULT 0,
		shipping_amount  BIGINT NOT NULL DEFAULT 0,
		total_amount     BIGINT NOT NULL,
		currency         TEXT NOT NULL,
		shipping_tier    TEXT NOT NULL,
		payment_method   TEXT NOT NULL,
		shipping_address JSONB NOT NULL,
		promotion_id     BIGINT REFERENCES promotions(id),
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         BIGSERIAL PRIMARY KEY,
		order_id   TEXT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL,
		variant_id BIGINT NOT NULL,
		name       TEXT NOT NULL,
		size       TEXT NOT NULL,
		color      TEXT NOT NULL,
		price      BIGINT NOT NULL,
		qty        INT NOT NULL,
		is_preorder BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id)`,
}

// --------------------------------------------------------------------------
// Seed data
// --------------------------------------------------------------------------

type seedProduct struct {
	name     string
	price    int64
	freeShip bool
	preorder bool
	sizes    []string
	colors   []string
	qty      int
}

var products = []seedProduct{
	{name: "Rosa Linen Dress", price: 99900, sizes: []string{"XS", "S", "M", "L"}, colors: []string{"Terracotta", "Cream"}, qty: 8},
	{name: "Ines Wrap Top", price: 59900, sizes: []string{"S", "M", "L"}, colors: []string{"Cream", "Sage"}, qty: 12},
	{name: "Luna Wide-Leg Trousers", price: 84900, sizes: []string{"XS", "S", "M", "L", "XL"}, colors: []string{"Black", "Khaki"}, qty: 10},
	{name: "Amara Puff-Sleeve Blouse", price: 64900, sizes: []string{"S", "M", "L"}, colors: []string{"White", "Dusty Rose"}, qty: 6},
	{name: "Clara Midi Skirt", price: 74900, freeShip: true, sizes: []string{"S", "M", "L"}, colors: []string{"Navy"}, qty: 5},
	{name: "Isla Knit Cardigan", price: 109900, preorder: true, sizes: []string{"S", "M", "L"}, colors: []string{"Oatmeal", "Rust"}, qty: 0},
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, p := range products {
		var productID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO products (name, price, has_free_shipping, is_preorder)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			p.name, p.price, p.freeShip, p.preorder,
		).Scan(&productID)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.name, err)
		}

		for _, size := range p.sizes {
			for _, color := range p.colors {
				_, err := pool.Exec(ctx,
					`INSERT INTO variants (product_id, size, color, qty)
					 VALUES ($1, $2, $3, $4)
					 ON CONFLICT (product_id, size, color) DO NOTHING`,
					productID, size, color, p.qty,
				)
				if err != nil {
					return fmt.Errorf("insert variant %s/%s for %q: %w", size, color, p.name, err)
				}
			}
		}
		log.Printf("seeded product %q with %d variants", p.name, len(p.sizes)*len(p.colors))
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO promotions (name, details, percent_discount, percent_discount_threshold,
			is_free_shipping, free_shipping_threshold, is_featured, expiration_date)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`,
		"Anniversary Sale",
		"10% off orders over P1,500, free shipping over P2,500",
		10, 150000,
		true, 250000,
		time.Now().UTC().Add(30*24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	log.Println("seeded featured promotion")

	return nil
}

func main() {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "storefront"),
		getEnv("POSTGRES_PASSWORD", "storefront_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnvInt("POSTGRES_PORT", 5432),
		getEnv("POSTGRES_DB", "storefront"),
		getEnv("POSTGRES_SSLMODE", "disable"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	if err := seed(ctx, pool); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Println("seed complete")
}
