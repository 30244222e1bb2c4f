// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/shopspring/decimal"

// Product is a sellable item with its current stock level.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	SKU         *string         `json:"sku,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CategoryID  int             `json:"category_id"`

	// Virtual fields populated by store methods.
	Category   *Category   `json:"category,omitempty"`
	OrderItems []OrderItem `json:"order_items,omitempty"`
}
