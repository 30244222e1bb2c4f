package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"medshop/internal/dberr"
)

// PurchaseParams are the arguments of the purchase_product procedure.
type PurchaseParams struct {
	ProductID int
	UserID    int
	Quantity  int
	OrderID   *int
}

// Validate rejects argument combinations the procedure can never accept.
func (p PurchaseParams) Validate() error {
	const op = "purchase"
	switch {
	case p.ProductID <= 0:
		return dberr.InvalidOperation(op, "productId must be positive, got %d", p.ProductID)
	case p.UserID <= 0:
		return dberr.InvalidOperation(op, "userId must be positive, got %d", p.UserID)
	case p.Quantity <= 0:
		return dberr.InvalidOperation(op, "quantity must be positive, got %d", p.Quantity)
	case p.OrderID != nil && *p.OrderID <= 0:
		return dberr.InvalidOperation(op, "orderId must be positive when given, got %d", *p.OrderID)
	}
	return nil
}

// ProcedureStore calls the stored procedures. The procedures own the
// business logic; this store only marshals arguments.
type ProcedureStore struct {
	db *sqlx.DB
}

// NewProcedureStore creates a new ProcedureStore.
func NewProcedureStore(db *sqlx.DB) *ProcedureStore {
	return &ProcedureStore{db: db}
}

// Purchase calls purchase_product. The procedure checks stock, creates or
// reuses the order, upserts the order item and decrements stock. A nil
// OrderID is passed as SQL NULL.
func (s *ProcedureStore) Purchase(ctx context.Context, p PurchaseParams) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`CALL purchase_product($1, $2, $3, $4)`,
		p.ProductID, p.UserID, p.Quantity, p.OrderID,
	); err != nil {
		return fmt.Errorf("purchase product %d: %w", p.ProductID, err)
	}

	slog.Info("purchase completed",
		"product_id", p.ProductID,
		"user_id", p.UserID,
		"quantity", p.Quantity,
	)
	return nil
}
