// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the MedShop admin API.
// Handlers are grouped by resource and receive their dependencies through
// the API struct. Every failure is written through the error translator.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"medshop/internal/dberr"
	"medshop/internal/models"
	"medshop/internal/store"
)

// CategoryReader loads categories.
type CategoryReader interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int) (*models.Category, error)
}

// ProductReader loads products with their category and sales.
type ProductReader interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
}

// UserReader loads users with their orders.
type UserReader interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// OrderStore loads and creates orders.
type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id int) (*models.Order, error)
	CreatePending(ctx context.Context, userID int, orderDate *time.Time) (*models.Order, error)
}

// Purchaser runs the purchase procedure.
type Purchaser interface {
	Purchase(ctx context.Context, p store.PurchaseParams) error
}

// Reports runs the reporting functions.
type Reports interface {
	UsersWithExpensiveProducts(ctx context.Context, minPrice decimal.Decimal, categoryID int) ([]store.UserWithExpensiveProduct, error)
	CountOrders(ctx context.Context, maxAmount decimal.Decimal) (int, error)
}

// API groups all resource handlers and their dependencies.
type API struct {
	categories CategoryReader
	products   ProductReader
	users      UserReader
	orders     OrderStore
	purchaser  Purchaser
	reports    Reports
	translator *dberr.Translator
}

// NewAPI creates a new API handler group with the given dependencies.
func NewAPI(categories CategoryReader, products ProductReader, users UserReader, orders OrderStore, purchaser Purchaser, reports Reports, translator *dberr.Translator) *API {
	return &API{
		categories: categories,
		products:   products,
		users:      users,
		orders:     orders,
		purchaser:  purchaser,
		reports:    reports,
		translator: translator,
	}
}

// fail translates err and writes it. Server-side faults are logged as
// errors, everything the client can fix as warnings.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error, source dberr.Source) {
	resp := a.translator.Translate(err, source)

	attrs := []any{"error", err, "kind", resp.Kind.String(), "method", r.Method, "path", r.URL.Path}
	switch resp.Kind {
	case dberr.KindInfrastructure, dberr.KindUnclassified:
		slog.Error("request failed", attrs...)
	default:
		slog.Warn("request rejected", attrs...)
	}

	writeJSON(w, resp.Status, resp.Body)
}

// invalid writes a 400 for a request that failed local validation.
func invalid(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dberr.Body{Error: "Validation failed", Message: msg})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
