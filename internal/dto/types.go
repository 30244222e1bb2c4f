// Package dto defines the response shapes of the API and the projection
// functions that build them from loaded entity graphs. Summary variants
// never embed the type that contains them, so every DTO graph is acyclic.
package dto

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is a currency amount encoded as a JSON number.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate wraps t, dropping the time of day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// dateLayouts are accepted on input. The admin SPA sends either a plain
// date or a full ISO timestamp.
var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05"}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// CategoryDto is a category without its products.
type CategoryDto struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ProductDto is a product with its category, used by the product list.
type ProductDto struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Price       Money        `json:"price"`
	Quantity    int          `json:"quantity"`
	SKU         *string      `json:"sku"`
	ImageURL    *string      `json:"imageUrl"`
	Category    *CategoryDto `json:"category"`
}

// ProductDetailDto adds the product's sales history.
type ProductDetailDto struct {
	ProductDto
	OrderItems []OrderItemDto `json:"orderItems"`
}

// ProductSummaryDto is the product as seen from an order line.
type ProductSummaryDto struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Price    Money        `json:"price"`
	Category *CategoryDto `json:"category"`
}

// UserSummaryDto is the user as seen from an order.
type UserSummaryDto struct {
	ID       int     `json:"id"`
	UserName string  `json:"userName"`
	FullName *string `json:"fullName"`
}

// UserDto is a user with summaries of their orders.
type UserDto struct {
	ID       int               `json:"id"`
	UserName string            `json:"userName"`
	FullName *string           `json:"fullName"`
	Email    *string           `json:"email"`
	Orders   []OrderSummaryDto `json:"orders"`
}

// OrderSummaryDto is an order without its items.
type OrderSummaryDto struct {
	ID          int             `json:"id"`
	OrderDate   Date            `json:"orderDate"`
	TotalAmount Money           `json:"totalAmount"`
	Status      string          `json:"status"`
	User        *UserSummaryDto `json:"user"`
}

// OrderDto is an order with its user and item lines.
type OrderDto struct {
	ID          int                  `json:"id"`
	OrderDate   Date                 `json:"orderDate"`
	TotalAmount Money                `json:"totalAmount"`
	Status      string               `json:"status"`
	User        *UserSummaryDto      `json:"user"`
	OrderItems  []OrderItemDetailDto `json:"orderItems"`
}

// OrderItemDto is an order line seen from a product: it embeds the order.
type OrderItemDto struct {
	ID         int              `json:"id"`
	OrderID    int              `json:"orderId"`
	Quantity   int              `json:"quantity"`
	UnitPrice  Money            `json:"unitPrice"`
	TotalPrice Money            `json:"totalPrice"`
	Order      *OrderSummaryDto `json:"order"`
}

// OrderItemDetailDto is an order line seen from an order: it embeds the product.
type OrderItemDetailDto struct {
	ID         int                `json:"id"`
	Quantity   int                `json:"quantity"`
	UnitPrice  Money              `json:"unitPrice"`
	TotalPrice Money              `json:"totalPrice"`
	Product    *ProductSummaryDto `json:"product"`
}

// UserWithExpensiveProductDto is a row of the expensive-products report.
type UserWithExpensiveProductDto struct {
	UserID   int     `json:"userId"`
	UserName string  `json:"userName"`
	FullName *string `json:"fullName"`
}

// CountDto carries a scalar function result.
type CountDto struct {
	Count int `json:"count"`
}

// MessageDto carries a success message.
type MessageDto struct {
	Message string `json:"message"`
}
