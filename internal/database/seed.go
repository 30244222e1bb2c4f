package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"medshop/internal/slug"
)

// productImageURL is the default image for a seeded product, or nil so the
// optional column stays NULL when the name yields no slug.
func productImageURL(name string) *string {
	return lo.EmptyableToPtr(slug.ImageURL(name))
}

type seedCategory struct {
	name, description string
}

type seedProduct struct {
	name, description, sku, category string
	price                            string
	quantity                         int
}

type seedUser struct {
	userName, fullName, email string
}

var (
	seedCategories = []seedCategory{
		{"Pain Relief", "Analgesics and anti-inflammatory medicines"},
		{"Vitamins", "Vitamins and dietary supplements"},
		{"First Aid", "Bandages, antiseptics and first aid kits"},
	}

	seedProducts = []seedProduct{
		{"Ibuprofen 200mg", "Pack of 24 tablets", "PR-IBU-200", "Pain Relief", "4.9900", 120},
		{"Paracetamol 500mg", "Pack of 20 tablets", "PR-PAR-500", "Pain Relief", "3.4900", 200},
		{"Vitamin D3 1000IU", "90 softgels", "VT-D3-1000", "Vitamins", "12.5000", 60},
		{"Omega-3 Fish Oil", "120 capsules", "VT-OM3-120", "Vitamins", "24.0000", 35},
		{"First Aid Kit", "Compact kit with 45 items", "FA-KIT-45", "First Aid", "39.9000", 15},
		{"Antiseptic Spray", "100ml", "FA-ANT-100", "First Aid", "6.7500", 80},
	}

	seedUsers = []seedUser{
		{"ivanenko", "Olena Ivanenko", "olena@medshop.local"},
		{"petrenko", "Taras Petrenko", "taras@medshop.local"},
		{"kovalenko", "Iryna Kovalenko", "iryna@medshop.local"},
	}
)

// Seed populates the database with demo catalog data and customers.
// It is a no-op when any user already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, u := range seedUsers {
		if _, err := tx.Exec(
			`INSERT INTO users (user_name, full_name, email) VALUES ($1, $2, $3)`,
			u.userName, u.fullName, u.email,
		); err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.userName, err)
		}
	}

	categoryIDs := make(map[string]int, len(seedCategories))
	for _, c := range seedCategories {
		var id int
		if err := tx.QueryRow(
			`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
			c.name, c.description,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = id
	}

	for _, p := range seedProducts {
		if _, err := tx.Exec(`
			INSERT INTO products (name, description, price, quantity, sku, image_url, category_id)
			VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
		`, p.name, p.description, p.price, p.quantity, p.sku, productImageURL(p.name), categoryIDs[p.category]); err != nil {
			return fmt.Errorf("seed insert product %s: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo data",
		"users", len(seedUsers),
		"categories", len(seedCategories),
		"products", len(seedProducts),
	)
	return nil
}
