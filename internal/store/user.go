package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"medshop/internal/dberr"
	"medshop/internal/models"
)

// UserStore handles user queries. Users are loaded with their orders.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

type userRow struct {
	ID       int     `db:"id"`
	UserName string  `db:"user_name"`
	FullName *string `db:"full_name"`
	Email    *string `db:"email"`
}

func (r userRow) model() models.User {
	return models.User{ID: r.ID, UserName: r.UserName, FullName: r.FullName, Email: r.Email}
}

// userOrderRow is an order without its items.
type userOrderRow struct {
	ID          int             `db:"id"`
	UserID      int             `db:"user_id"`
	OrderDate   time.Time       `db:"order_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	ItemsTotal  decimal.Decimal `db:"items_total"`
	Status      string          `db:"status"`
}

func (r userOrderRow) model() models.Order {
	return models.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		OrderDate:   r.OrderDate,
		TotalAmount: r.TotalAmount,
		ItemsTotal:  r.ItemsTotal,
		Status:      r.Status,
	}
}

func selectUsers() sq.SelectBuilder {
	return psql.Select("id", "user_name", "full_name", "email").From("users").OrderBy("id")
}

func selectUserOrders() sq.SelectBuilder {
	return psql.Select("o.id", "o.user_id", "o.order_date", "o.total_amount", orderItemsTotal, "o.status").
		From("orders o").
		OrderBy("o.id")
}

// List returns all users with their orders.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := selectAll(ctx, s.db, &rows, selectUsers()); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := lo.Map(rows, func(r userRow, _ int) models.User { return r.model() })

	if err := s.attachOrders(ctx, users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID retrieves a user with their orders. A miss returns a
// dberr.NotFoundError.
func (s *UserStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	var rows []userRow
	if err := selectAll(ctx, s.db, &rows, selectUsers().Where(sq.Eq{"id": id})); err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, dberr.NotFound("User", id)
	}
	users := []models.User{rows[0].model()}

	if err := s.attachOrders(ctx, users); err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &users[0], nil
}

// attachOrders loads the orders of every user in one query.
func (s *UserStore) attachOrders(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := lo.Map(users, func(u models.User, _ int) int { return u.ID })

	var rows []userOrderRow
	if err := selectAll(ctx, s.db, &rows, selectUserOrders().Where(anyOf("o.user_id", ids))); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	orders := lo.Map(rows, func(r userOrderRow, _ int) models.Order { return r.model() })
	warnTotalDrift(orders)

	byUser := lo.GroupBy(orders, func(o models.Order) int { return o.UserID })
	for i := range users {
		users[i].Orders = byUser[users[i].ID]
	}
	return nil
}
