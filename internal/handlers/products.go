// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"medshop/internal/dberr"
	"medshop/internal/dto"
	"medshop/internal/store"
)

// purchaseRequest is the body of POST /products/purchase. Quantity is a
// pointer so that an explicit 0 is rejected instead of defaulted.
type purchaseRequest struct {
	ProductID int  `json:"productId"`
	UserID    int  `json:"userId"`
	Quantity  *int `json:"quantity"`
	OrderID   *int `json:"orderId"`
}

// check reports the first field that cannot be bound to its INTEGER
// parameter.
func (p purchaseRequest) check() string {
	fields := []struct {
		name string
		v    *int
	}{
		{"productId", &p.ProductID},
		{"userId", &p.UserID},
		{"quantity", p.Quantity},
		{"orderId", p.OrderID},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		if msg := int4Field(f.name, *f.v); msg != "" {
			return msg
		}
	}
	return ""
}

func (p purchaseRequest) params() store.PurchaseParams {
	quantity := 1
	if p.Quantity != nil {
		quantity = *p.Quantity
	}
	return store.PurchaseParams{
		ProductID: p.ProductID,
		UserID:    p.UserID,
		Quantity:  quantity,
		OrderID:   p.OrderID,
	}
}

// ProductsList returns all products with their category.
func (a *API) ProductsList(w http.ResponseWriter, r *http.Request) {
	ps, err := a.products.List(r.Context())
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Products(ps))
}

// ProductGet returns one product with its category and sales history.
func (a *API) ProductGet(w http.ResponseWriter, r *http.Request) {
	id, msg := pathID(r)
	if msg != "" {
		invalid(w, msg)
		return
	}
	p, err := a.products.FindByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProductDetail(*p))
}

// ProductPurchase runs the purchase procedure.
func (a *API) ProductPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if msg := decodeBody(w, r, &req); msg != "" {
		invalid(w, msg)
		return
	}
	if msg := req.check(); msg != "" {
		invalid(w, msg)
		return
	}

	params := req.params()
	if err := a.purchaser.Purchase(r.Context(), params); err != nil {
		a.fail(w, r, err, dberr.SourceProcedure)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageDto{Message: "Purchase completed successfully"})
}

// UsersWithExpensiveProducts reports users who bought a product of a
// category at or above a price.
func (a *API) UsersWithExpensiveProducts(w http.ResponseWriter, r *http.Request) {
	minPrice, msg := queryDecimal(r, "minPrice")
	if msg != "" {
		invalid(w, msg)
		return
	}
	categoryID, msg := queryInt(r, "categoryId")
	if msg != "" {
		invalid(w, msg)
		return
	}

	rows, err := a.reports.UsersWithExpensiveProducts(r.Context(), minPrice, categoryID)
	if err != nil {
		a.fail(w, r, err, dberr.SourceFunction)
		return
	}
	writeJSON(w, http.StatusOK, dto.UsersWithExpensiveProducts(rows))
}

// CountOrders reports how many orders total strictly less than maxAmount.
func (a *API) CountOrders(w http.ResponseWriter, r *http.Request) {
	maxAmount, msg := queryDecimal(r, "maxAmount")
	if msg != "" {
		invalid(w, msg)
		return
	}

	n, err := a.reports.CountOrders(r.Context(), maxAmount)
	if err != nil {
		a.fail(w, r, err, dberr.SourceFunction)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountDto{Count: n})
}
