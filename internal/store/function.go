package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// UserWithExpensiveProduct is a row of users_with_expensive_products.
type UserWithExpensiveProduct struct {
	UserID   int     `db:"user_id"`
	UserName string  `db:"user_name"`
	FullName *string `db:"full_name"`
}

// FunctionStore calls the read-only reporting functions.
type FunctionStore struct {
	db *sqlx.DB
}

// NewFunctionStore creates a new FunctionStore.
func NewFunctionStore(db *sqlx.DB) *FunctionStore {
	return &FunctionStore{db: db}
}

// UsersWithExpensiveProducts returns the users who bought at least one
// product of the category priced at or above minPrice.
func (s *FunctionStore) UsersWithExpensiveProducts(ctx context.Context, minPrice decimal.Decimal, categoryID int) ([]UserWithExpensiveProduct, error) {
	rows := []UserWithExpensiveProduct{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, user_name, full_name FROM users_with_expensive_products($1, $2) ORDER BY user_id`,
		minPrice, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("users with expensive products: %w", err)
	}
	return rows, nil
}

// CountOrders returns the number of orders whose total is below maxAmount.
func (s *FunctionStore) CountOrders(ctx context.Context, maxAmount decimal.Decimal) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT count_orders($1)`, maxAmount); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}
