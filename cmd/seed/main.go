// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
	"dukapos/internal/infrastructure/storage/postgres"
	"dukapos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAccounts(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed accounts", "error", err)
	}

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoCatalog(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo catalog", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedAccounts ensures the ledger accounts exist. The first one is the
// default sales credit target.
func seedAccounts(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	type accountSeed struct {
		label     string
		isDefault bool
	}

	accounts := []accountSeed{
		{"KES", true},
		{"USD", false},
	}

	for _, a := range accounts {
		tag, err := pool.Exec(ctx, `
			INSERT INTO accounts (id, label, balance, cash_balance, is_default, created_at)
			VALUES ($1, $2, 0, 0, $3, $4)
			ON CONFLICT (label) DO NOTHING
		`, id.New(), a.label, a.isDefault, time.Now())
		if err != nil {
			return fmt.Errorf("insert account %s: %w", a.label, err)
		}
		if tag.RowsAffected() > 0 {
			log.Infow("account created", "label", a.label, "default", a.isDefault)
		}
	}

	return nil
}

func seedAdminUser(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@dukapos.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, 'Administrator', $3, $4, true, $5)
	`, userID, adminEmail, string(passwordHash), appctx.RoleAdmin, time.Now())
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

// seedDemoCatalog inserts a small demo inventory for development.
func seedDemoCatalog(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	log.Info("seeding demo catalog...")

	now := time.Now()

	categories := []string{"Shirts", "Trousers", "Fabrics"}
	categoryIDs := make(map[string]id.ID)

	for _, name := range categories {
		cid := id.New()
		tag, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, details, created_at)
			VALUES ($1, $2, '', $3)
			ON CONFLICT (name) DO NOTHING
		`, cid, name, now)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", name, err)
		}
		if tag.RowsAffected() == 0 {
			if err := pool.QueryRow(ctx,
				`SELECT id FROM categories WHERE name = $1`, name,
			).Scan(&cid); err != nil {
				return fmt.Errorf("fetch category %s: %w", name, err)
			}
		}
		categoryIDs[name] = cid
	}

	type skuSeed struct {
		code  string
		price string
		stock int
	}
	type variantSeed struct {
		name string
		skus []skuSeed
	}
	type productSeed struct {
		name     string
		category string
		variants []variantSeed
	}

	products := []productSeed{
		{
			name:     "Oxford shirt",
			category: "Shirts",
			variants: []variantSeed{
				{name: "White", skus: []skuSeed{
					{"OXF-WHT-M", "1500", 10},
					{"OXF-WHT-L", "1500", 8},
				}},
				{name: "Blue", skus: []skuSeed{
					{"OXF-BLU-M", "1600", 6},
				}},
			},
		},
		{
			name:     "Chino trousers",
			category: "Trousers",
			variants: []variantSeed{
				{name: "Khaki", skus: []skuSeed{
					{"CHN-KHK-32", "2200", 5},
					{"CHN-KHK-34", "2200", 4},
				}},
			},
		},
	}

	for _, p := range products {
		productID := id.New()
		tag, err := pool.Exec(ctx, `
			INSERT INTO products (id, category_id, name, imprint, stock_quantity, created_at)
			VALUES ($1, $2, $3, '', 0, $4)
			ON CONFLICT (name) DO NOTHING
		`, productID, categoryIDs[p.category], p.name, now)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.name, err)
		}
		if tag.RowsAffected() == 0 {
			log.Infow("product already exists, skipping", "name", p.name)
			continue
		}

		total := 0
		for _, v := range p.variants {
			variantID := id.New()
			if _, err := pool.Exec(ctx, `
				INSERT INTO variants (id, product_id, name) VALUES ($1, $2, $3)
			`, variantID, productID, v.name); err != nil {
				return fmt.Errorf("insert variant %s: %w", v.name, err)
			}

			for _, s := range v.skus {
				if _, err := pool.Exec(ctx, `
					INSERT INTO skus (id, variant_id, code, price, stock_quantity)
					VALUES ($1, $2, $3, $4, $5)
				`, id.New(), variantID, s.code, s.price, s.stock); err != nil {
					return fmt.Errorf("insert sku %s: %w", s.code, err)
				}
				total += s.stock
			}
		}

		if _, err := pool.Exec(ctx, `
			UPDATE products SET stock_quantity = $2 WHERE id = $1
		`, productID, total); err != nil {
			return fmt.Errorf("update product stock %s: %w", p.name, err)
		}

		log.Infow("product created", "name", p.name, "stock", total)
	}

	log.Info("demo catalog seeded")
	return nil
}
