package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"medshop/internal/dberr"
	"medshop/internal/models"
)

// OrderStore handles order queries and the direct order insert.
type OrderStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewOrderStore creates a new OrderStore. Orders created without a date
// use the local current date.
func NewOrderStore(db *sqlx.DB) *OrderStore {
	return &OrderStore{db: db, now: time.Now}
}

// WithClock replaces the clock used to default order dates.
func (s *OrderStore) WithClock(now func() time.Time) *OrderStore {
	s.now = now
	return s
}

type orderRow struct {
	ID          int             `db:"id"`
	UserID      int             `db:"user_id"`
	OrderDate   time.Time       `db:"order_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	ItemsTotal  decimal.Decimal `db:"items_total"`
	Status      string          `db:"status"`
	UserName    string          `db:"user_name"`
	FullName    *string         `db:"full_name"`
}

func (r orderRow) model() models.Order {
	return models.Order{
		ID:          r.ID,
		UserID:      r.UserID,
		OrderDate:   r.OrderDate,
		TotalAmount: r.TotalAmount,
		ItemsTotal:  r.ItemsTotal,
		Status:      r.Status,
		User:        &models.User{ID: r.UserID, UserName: r.UserName, FullName: r.FullName},
	}
}

// orderLineRow is an order item joined with its product and the product's
// category.
type orderLineRow struct {
	ID        int             `db:"id"`
	OrderID   int             `db:"order_id"`
	ProductID int             `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`

	ProductName  string          `db:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price"`

	CategoryID          *int    `db:"category_id"`
	CategoryName        *string `db:"category_name"`
	CategoryDescription *string `db:"category_description"`
}

func (r orderLineRow) model() models.OrderItem {
	item := models.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Product: &models.Product{
			ID:    r.ProductID,
			Name:  r.ProductName,
			Price: r.ProductPrice,
		},
	}
	if r.CategoryID != nil && r.CategoryName != nil {
		item.Product.CategoryID = *r.CategoryID
		item.Product.Category = &models.Category{
			ID:          *r.CategoryID,
			Name:        *r.CategoryName,
			Description: r.CategoryDescription,
		}
	}
	item.TotalPrice = item.LineTotal()
	return item
}

func selectOrders() sq.SelectBuilder {
	return psql.Select(
		"o.id", "o.user_id", "o.order_date", "o.total_amount", orderItemsTotal, "o.status",
		"u.user_name", "u.full_name",
	).
		From("orders o").
		Join("users u ON u.id = o.user_id").
		OrderBy("o.id")
}

func selectOrderLines() sq.SelectBuilder {
	return psql.Select(
		"oi.id", "oi.order_id", "oi.product_id", "oi.quantity", "oi.unit_price",
		"p.name AS product_name", "p.price AS product_price",
		"c.id AS category_id", "c.name AS category_name", "c.description AS category_description",
	).
		From("order_items oi").
		Join("products p ON p.id = oi.product_id").
		LeftJoin("categories c ON c.id = p.category_id").
		OrderBy("oi.id")
}

// List returns all orders with their user and items, each item with its
// product and category.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	var rows []orderRow
	if err := selectAll(ctx, s.db, &rows, selectOrders()); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := lo.Map(rows, func(r orderRow, _ int) models.Order { return r.model() })

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// FindByID returns one order with the same joins as List. A miss returns a
// dberr.NotFoundError.
func (s *OrderStore) FindByID(ctx context.Context, id int) (*models.Order, error) {
	var rows []orderRow
	if err := selectAll(ctx, s.db, &rows, selectOrders().Where(sq.Eq{"o.id": id})); err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, dberr.NotFound("Order", id)
	}
	orders := []models.Order{rows[0].model()}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return &orders[0], nil
}

func (s *OrderStore) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := lo.Map(orders, func(o models.Order, _ int) int { return o.ID })

	var rows []orderLineRow
	if err := selectAll(ctx, s.db, &rows, selectOrderLines().Where(anyOf("oi.order_id", ids))); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	items := lo.Map(rows, func(r orderLineRow, _ int) models.OrderItem { return r.model() })

	byOrder := lo.GroupBy(items, func(i models.OrderItem) int { return i.OrderID })
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	warnTotalDrift(orders)
	return nil
}

// CreatePending inserts a Pending order with a zero total and returns it
// re-read with its joins. A nil orderDate means today. The insert goes
// straight to SQL so the orders trigger can reject it; such errors are
// returned wrapped and classified by dberr.
func (s *OrderStore) CreatePending(ctx context.Context, userID int, orderDate *time.Time) (*models.Order, error) {
	if userID <= 0 {
		return nil, dberr.InvalidOperation("create order", "userId must be positive, got %d", userID)
	}

	date := s.now()
	if orderDate != nil {
		date = *orderDate
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	query, args, err := psql.Insert("orders").
		Columns("user_id", "order_date", "total_amount", "status").
		Values(userID, date, 0, models.OrderStatusPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create order: %w", err)
	}

	var id int
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	slog.Info("order created", "order_id", id, "user_id", userID, "order_date", date.Format(time.DateOnly))

	return s.FindByID(ctx, id)
}
