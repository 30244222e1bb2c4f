// Package store provides database access methods for all MedShop entities.
// Each store struct wraps a *sqlx.DB and exposes typed query methods that
// load entity graphs with their related rows eagerly joined.
package store

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"medshop/internal/models"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// orderItemsTotal recomputes an order's total from its items. The stored
// orders.total_amount column is only compared against it.
const orderItemsTotal = `COALESCE((SELECT SUM(x.quantity * x.unit_price) FROM order_items x WHERE x.order_id = o.id), 0) AS items_total`

// anyOf matches column against ids bound as a single array parameter, so
// the statement stays within the protocol's bind parameter limit.
func anyOf(column string, ids []int) sq.Sqlizer {
	return sq.Expr(column+" = ANY(?)", ids)
}

// selectAll renders b and scans every row into dest.
func selectAll(ctx context.Context, db *sqlx.DB, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.SelectContext(ctx, dest, query, args...)
}

// warnTotalDrift logs orders whose stored total disagrees with their items.
func warnTotalDrift(orders []models.Order) {
	for i := range orders {
		o := &orders[i]
		if o.TotalDrift() {
			slog.Warn("order total drift",
				"order_id", o.ID,
				"stored", o.TotalAmount.String(),
				"recomputed", o.Total().String(),
			)
		}
	}
}
