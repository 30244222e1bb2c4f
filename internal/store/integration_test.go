//go:build integration
// +build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"medshop/internal/database"
	"medshop/internal/dberr"
	"medshop/internal/models"
)

var integrationDB *sqlx.DB

// TestMain starts one PostgreSQL container for the package, applies the
// embedded migrations and seeds the demo catalog.
func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("medshop"),
		postgres.WithUsername("medshop"),
		postgres.WithPassword("medshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		// No Docker available; nothing to run against.
		os.Exit(0)
	}

	code := func() int {
		defer func() {
			_ = pgContainer.Terminate(ctx)
		}()

		dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			return 1
		}
		sqlDB, err := database.Connect(dsn)
		if err != nil {
			return 1
		}
		defer sqlDB.Close()

		if err := database.Migrate(sqlDB); err != nil {
			return 1
		}
		if err := database.Seed(sqlDB); err != nil {
			return 1
		}

		integrationDB = sqlx.NewDb(sqlDB, "pgx")
		return m.Run()
	}()
	os.Exit(code)
}

func firstUserID(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var id int
	require.NoError(t, db.Get(&id, `SELECT id FROM users ORDER BY id LIMIT 1`))
	return id
}

func resetOrders(t *testing.T, db *sqlx.DB) {
	t.Helper()
	t.Cleanup(func() {
		db.MustExec(`DELETE FROM order_items`)
		db.MustExec(`DELETE FROM orders`)
	})
}

func TestIntegrationDetailMatchesList(t *testing.T) {
	ctx := context.Background()
	products := NewProductStore(integrationDB)
	categories := NewCategoryStore(integrationDB)

	list, err := products.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for _, p := range list {
		detail, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		detail.OrderItems = nil
		assert.Equal(t, p, *detail)
	}

	cats, err := categories.List(ctx)
	require.NoError(t, err)
	for _, c := range cats {
		got, err := categories.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, *got)
	}
}

func TestIntegrationListIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(integrationDB)

	first, err := users.List(ctx)
	require.NoError(t, err)
	second, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIntegrationNotFound(t *testing.T) {
	ctx := context.Background()

	_, err := NewCategoryStore(integrationDB).FindByID(ctx, 999999)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	_, err = NewProductStore(integrationDB).FindByID(ctx, 999999)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	_, err = NewUserStore(integrationDB).FindByID(ctx, 999999)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
	_, err = NewOrderStore(integrationDB).FindByID(ctx, 999999)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestIntegrationCreateOrderAndTrigger(t *testing.T) {
	resetOrders(t, integrationDB)
	ctx := context.Background()
	orders := NewOrderStore(integrationDB)
	userID := firstUserID(t, integrationDB)

	o, err := orders.CreatePending(ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.True(t, o.Total().IsZero())
	assert.Equal(t, time.Now().Format(time.DateOnly), o.OrderDate.Format(time.DateOnly))

	// A second pending order on the same day is rejected by the trigger.
	_, err = orders.CreatePending(ctx, userID, nil)
	require.Error(t, err)
	dbErr, ok := dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberDuplicateOrder, dbErr.Number)
}

func TestIntegrationPurchaseFlow(t *testing.T) {
	resetOrders(t, integrationDB)
	ctx := context.Background()
	userID := firstUserID(t, integrationDB)
	products := NewProductStore(integrationDB)
	procs := NewProcedureStore(integrationDB)

	list, err := products.List(ctx)
	require.NoError(t, err)
	p := list[0]

	require.NoError(t, procs.Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: userID, Quantity: 2}))
	require.NoError(t, procs.Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: userID, Quantity: 1}))

	after, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Quantity-3, after.Quantity)
	require.Len(t, after.OrderItems, 1, "repeat purchases at the same price merge into one line")
	assert.Equal(t, 3, after.OrderItems[0].Quantity)

	o, err := NewOrderStore(integrationDB).FindByID(ctx, after.OrderItems[0].OrderID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, item := range o.Items {
		assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, o.Total().Equal(sum))
	assert.False(t, o.TotalDrift(), "procedure keeps the stored total in sync")

	err = procs.Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: userID, Quantity: 1_000_000})
	dbErr, ok := dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberInsufficientStock, dbErr.Number)

	err = procs.Purchase(ctx, PurchaseParams{ProductID: 999999, UserID: userID, Quantity: 1})
	dbErr, ok = dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberProductNotFound, dbErr.Number)

	err = procs.Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: 999999, Quantity: 1})
	dbErr, ok = dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberUserNotFound, dbErr.Number)

	missing := 999999
	err = procs.Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: userID, Quantity: 1, OrderID: &missing})
	dbErr, ok = dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberOrderNotFound, dbErr.Number)

	// Callers that bypass PurchaseParams still hit the procedure's own check.
	_, err = integrationDB.ExecContext(ctx, `CALL purchase_product($1, $2, 0)`, p.ID, userID)
	dbErr, ok = dberr.FromError(err)
	require.True(t, ok)
	assert.Equal(t, dberr.NumberInvalidQuantity, dbErr.Number)
}

func TestIntegrationFunctions(t *testing.T) {
	resetOrders(t, integrationDB)
	ctx := context.Background()
	userID := firstUserID(t, integrationDB)
	funcs := NewFunctionStore(integrationDB)

	list, err := NewProductStore(integrationDB).List(ctx)
	require.NoError(t, err)
	p := list[0]
	require.NoError(t, NewProcedureStore(integrationDB).Purchase(ctx, PurchaseParams{ProductID: p.ID, UserID: userID, Quantity: 1}))

	users, err := funcs.UsersWithExpensiveProducts(ctx, p.Price, p.CategoryID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0].UserID)

	users, err = funcs.UsersWithExpensiveProducts(ctx, p.Price.Add(decimal.NewFromInt(1)), p.CategoryID)
	require.NoError(t, err)
	assert.Empty(t, users)

	n, err := funcs.CountOrders(ctx, p.Price.Add(decimal.NewFromInt(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = funcs.CountOrders(ctx, p.Price)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "count is strictly below the amount")
}
