package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// TestOrderItemLineTotal verifies that the line total is quantity times
// unit price for a range of quantities and prices.
func TestOrderItemLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		price    string
		expected string
	}{
		{name: "single unit", qty: 1, price: "12.50", expected: "12.50"},
		{name: "several units", qty: 3, price: "19.99", expected: "59.97"},
		{name: "four decimal places", qty: 7, price: "0.0125", expected: "0.0875"},
		{name: "zero price", qty: 5, price: "0", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &OrderItem{Quantity: tt.qty, UnitPrice: dec(tt.price)}
			got := item.LineTotal()
			if !got.Equal(dec(tt.expected)) {
				t.Errorf("LineTotal() = %s, want %s", got, tt.expected)
			}
		})
	}
}

// TestOrderTotalFromItems verifies that Total sums the recomputed line totals
// and ignores both the stored total and any stale TotalPrice on the items.
func TestOrderTotalFromItems(t *testing.T) {
	o := &Order{
		TotalAmount: dec("999"),
		ItemsTotal:  dec("1"),
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: dec("10.00"), TotalPrice: dec("20.00")},
			{Quantity: 1, UnitPrice: dec("5.25"), TotalPrice: dec("0")},
		},
	}

	if got := o.Total(); !got.Equal(dec("25.25")) {
		t.Errorf("Total() = %s, want 25.25", got)
	}
	if !o.TotalDrift() {
		t.Error("expected drift between stored 999 and recomputed 25.25")
	}
}

// TestOrderTotalFallsBackToAggregate verifies that orders loaded without
// their items report the SQL aggregate.
func TestOrderTotalFallsBackToAggregate(t *testing.T) {
	o := &Order{TotalAmount: dec("42.00"), ItemsTotal: dec("42.00")}

	if got := o.Total(); !got.Equal(dec("42")) {
		t.Errorf("Total() = %s, want 42", got)
	}
	if o.TotalDrift() {
		t.Error("no drift expected when stored and aggregate totals match")
	}
}

func TestNewOrderHasZeroTotal(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	if !o.Total().IsZero() {
		t.Errorf("Total() = %s, want 0", o.Total())
	}
	if o.TotalDrift() {
		t.Error("empty order should not drift")
	}
}
