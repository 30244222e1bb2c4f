// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"medshop/internal/dberr"
	"medshop/internal/dto"
)

// createOrderRequest is the body of POST /orders.
type createOrderRequest struct {
	UserID    int       `json:"userId"`
	OrderDate *dto.Date `json:"orderDate"`
}

// OrdersList returns all orders with their user and items.
func (a *API) OrdersList(w http.ResponseWriter, r *http.Request) {
	list, err := a.orders.List(r.Context())
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Orders(list))
}

// OrderGet returns one order with its user and items.
func (a *API) OrderGet(w http.ResponseWriter, r *http.Request) {
	id, msg := pathID(r)
	if msg != "" {
		invalid(w, msg)
		return
	}
	o, err := a.orders.FindByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err, dberr.SourceQuery)
		return
	}
	writeJSON(w, http.StatusOK, dto.Order(*o))
}

// OrderCreate inserts a pending order. The orders_before_insert trigger
// may reject it; that rejection is reported as a 400.
func (a *API) OrderCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if msg := decodeBody(w, r, &req); msg != "" {
		invalid(w, msg)
		return
	}
	if msg := int4Field("userId", req.UserID); msg != "" {
		invalid(w, msg)
		return
	}

	var orderDate *time.Time
	if req.OrderDate != nil {
		orderDate = &req.OrderDate.Time
	}

	o, err := a.orders.CreatePending(r.Context(), req.UserID, orderDate)
	if err != nil {
		a.fail(w, r, err, dberr.SourceTrigger)
		return
	}

	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.Itoa(o.ID))
	writeJSON(w, http.StatusCreated, dto.Order(*o))
}
