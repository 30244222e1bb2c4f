// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status every order is created with.
const OrderStatusPending = "Pending"

// Order is a customer order. TotalAmount is the value stored in the orders
// table; the authoritative total is always derived from the items.
type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`

	// ItemsTotal is SUM(quantity * unit_price) computed by the query that
	// loaded the order, so it is available even when Items is not loaded.
	ItemsTotal decimal.Decimal `json:"items_total"`

	// Virtual fields populated by store methods.
	User  *User       `json:"user,omitempty"`
	Items []OrderItem `json:"items,omitempty"`
}

// Total returns the order total recomputed from its items. When the items
// were not loaded it falls back to the aggregate computed in SQL.
func (o *Order) Total() decimal.Decimal {
	if len(o.Items) == 0 {
		return o.ItemsTotal
	}
	sum := decimal.Zero
	for i := range o.Items {
		sum = sum.Add(o.Items[i].LineTotal())
	}
	return sum
}

// TotalDrift reports whether the stored total disagrees with the recomputed one.
func (o *Order) TotalDrift() bool {
	return !o.TotalAmount.Equal(o.Total())
}

// OrderItem is one product line in an order. UnitPrice is the product price
// captured at purchase time.
type OrderItem struct {
	ID         int             `json:"id"`
	OrderID    int             `json:"order_id"`
	ProductID  int             `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`

	// Virtual fields populated by store methods.
	Order   *Order   `json:"order,omitempty"`
	Product *Product `json:"product,omitempty"`
}

// LineTotal returns quantity * unit price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
