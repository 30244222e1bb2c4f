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

// ProductStore handles product queries. Products are always loaded with
// their category; the detail view adds the full sales history.
type ProductStore struct {
	db *sqlx.DB
}

// NewProductStore creates a new ProductStore.
func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

type productRow struct {
	ID          int             `db:"id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
	SKU         *string         `db:"sku"`
	ImageURL    *string         `db:"image_url"`
	CategoryID  int             `db:"category_id"`

	CategoryName        *string `db:"category_name"`
	CategoryDescription *string `db:"category_description"`
}

func (r productRow) model() models.Product {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		SKU:         r.SKU,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
	}
	// LEFT JOIN: a missing category leaves the relation nil rather than
	// half-populated.
	if r.CategoryName != nil {
		p.Category = &models.Category{
			ID:          r.CategoryID,
			Name:        *r.CategoryName,
			Description: r.CategoryDescription,
		}
	}
	return p
}

func selectProducts() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.name", "p.description", "p.price", "p.quantity",
		"p.sku", "p.image_url", "p.category_id",
		"c.name AS category_name", "c.description AS category_description",
	).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		OrderBy("p.id")
}

// salesRow is one order item of a product joined with its order and buyer.
type salesRow struct {
	ID        int             `db:"id"`
	OrderID   int             `db:"order_id"`
	ProductID int             `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`

	OrderDate   time.Time       `db:"order_date"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	ItemsTotal  decimal.Decimal `db:"items_total"`
	Status      string          `db:"status"`

	UserID   int     `db:"user_id"`
	UserName string  `db:"user_name"`
	FullName *string `db:"full_name"`
}

func (r salesRow) model() models.OrderItem {
	item := models.OrderItem{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Order: &models.Order{
			ID:          r.OrderID,
			UserID:      r.UserID,
			OrderDate:   r.OrderDate,
			TotalAmount: r.TotalAmount,
			ItemsTotal:  r.ItemsTotal,
			Status:      r.Status,
			User:        &models.User{ID: r.UserID, UserName: r.UserName, FullName: r.FullName},
		},
	}
	item.TotalPrice = item.LineTotal()
	return item
}

func selectSales() sq.SelectBuilder {
	return psql.Select(
		"oi.id", "oi.order_id", "oi.product_id", "oi.quantity", "oi.unit_price",
		"o.order_date", "o.total_amount", orderItemsTotal, "o.status",
		"u.id AS user_id", "u.user_name", "u.full_name",
	).
		From("order_items oi").
		Join("orders o ON o.id = oi.order_id").
		Join("users u ON u.id = o.user_id").
		OrderBy("oi.id")
}

// List returns all products with their category.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	if err := selectAll(ctx, s.db, &rows, selectProducts()); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return lo.Map(rows, func(r productRow, _ int) models.Product { return r.model() }), nil
}

// FindByID returns a product with its category and every order item that
// sold it, each with its order and the ordering user.
func (s *ProductStore) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var rows []productRow
	if err := selectAll(ctx, s.db, &rows, selectProducts().Where(sq.Eq{"p.id": id})); err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	if len(rows) == 0 {
		return nil, dberr.NotFound("Product", id)
	}
	p := rows[0].model()

	var sales []salesRow
	if err := selectAll(ctx, s.db, &sales, selectSales().Where(sq.Eq{"oi.product_id": id})); err != nil {
		return nil, fmt.Errorf("load product %d sales: %w", id, err)
	}
	p.OrderItems = lo.Map(sales, func(r salesRow, _ int) models.OrderItem { return r.model() })

	return &p, nil
}
