package dberr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyThreshold(t *testing.T) {
	tr := NewTranslator(Config{})

	tests := []struct {
		number int
		want   Kind
	}{
		{number: 0, want: KindApplication},
		{number: 50000, want: KindApplication},
		{number: 50001, want: KindApplication},
		{number: 2147483647, want: KindApplication},
		{number: 49999, want: KindInfrastructure},
		{number: 1205, want: KindInfrastructure},
		{number: 1, want: KindInfrastructure},
		{number: -2, want: KindInfrastructure},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.number), func(t *testing.T) {
			err := &Error{Number: tt.number, Severity: 16, Message: "x"}
			assert.Equal(t, tt.want, tr.Classify(err))
		})
	}
}

func TestClassifyCustomThreshold(t *testing.T) {
	tr := NewTranslator(Config{ApplicationThreshold: 60000})

	assert.Equal(t, KindInfrastructure, tr.Classify(&Error{Number: 50001}))
	assert.Equal(t, KindApplication, tr.Classify(&Error{Number: 60000}))
	assert.Equal(t, KindApplication, tr.Classify(&Error{Number: 0}))
}

func TestClassifyOtherKinds(t *testing.T) {
	tr := NewTranslator(Config{})

	assert.Equal(t, KindNotFound, tr.Classify(NotFound("Order", 7)))
	assert.Equal(t, KindInvalidOperation, tr.Classify(InvalidOperation("purchase", "bad")))
	assert.Equal(t, KindUnclassified, tr.Classify(errors.New("dial tcp: refused")))
	assert.Equal(t, KindUnclassified, tr.Classify(nil))
}

// Invalid operations win over the numeric rule even when they wrap an
// infrastructure-numbered error.
func TestClassifyInvalidOperationWrappingDBError(t *testing.T) {
	tr := NewTranslator(Config{})
	err := fmt.Errorf("%w: %w", InvalidOperation("purchase", "bad args"), &Error{Number: 1205})

	resp := tr.Translate(err, SourceProcedure)
	assert.Equal(t, KindInvalidOperation, resp.Kind)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func decodeBody(t *testing.T, b Body) map[string]any {
	t.Helper()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestTranslateApplicationError(t *testing.T) {
	tr := NewTranslator(Config{IncludeDetails: true})
	err := fmt.Errorf("create order: %w", &Error{Number: 50001, Severity: 16, Message: "An order for today already exists"})

	resp := tr.Translate(err, SourceTrigger)
	require.Equal(t, http.StatusBadRequest, resp.Status)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Order creation failed", body["error"])
	assert.Equal(t, "An order for today already exists", body["message"])
	assert.EqualValues(t, 50001, body["errorNumber"])
	assert.EqualValues(t, 16, body["severity"])
	assert.Equal(t, "Database Trigger", body["source"])
	assert.NotEmpty(t, body["details"])
}

func TestTranslateApplicationErrorNumberZero(t *testing.T) {
	tr := NewTranslator(Config{})

	resp := tr.Translate(&Error{Number: 0, Severity: 16, Message: "raised"}, SourceProcedure)
	require.Equal(t, http.StatusBadRequest, resp.Status)

	body := decodeBody(t, resp.Body)
	assert.EqualValues(t, 0, body["errorNumber"])
	assert.Equal(t, "Stored Procedure", body["source"])
	assert.NotContains(t, body, "details")
}

func TestTranslateInfrastructureError(t *testing.T) {
	tr := NewTranslator(Config{IncludeDetails: true})

	resp := tr.Translate(&Error{Number: 1205, Severity: 13, Message: "Lock request time out period exceeded."}, SourceProcedure)
	require.Equal(t, http.StatusInternalServerError, resp.Status)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Database error", body["error"])
	assert.EqualValues(t, 1205, body["errorNumber"])
	assert.EqualValues(t, 13, body["severity"])
	assert.NotContains(t, body, "source")
	assert.NotContains(t, body, "details")
}

func TestTranslatePgErrors(t *testing.T) {
	tr := NewTranslator(Config{})

	stock := &pgconn.PgError{Code: "MS002", Severity: "ERROR", Message: "Insufficient stock for product 3"}
	resp := tr.Translate(fmt.Errorf("purchase: %w", stock), SourceProcedure)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, NumberInsufficientStock, *resp.Body.ErrorNumber)

	fk := &pgconn.PgError{Code: "23503", Severity: "ERROR", Message: "violates foreign key constraint"}
	resp = tr.Translate(fmt.Errorf("create order: %w", fk), SourceTrigger)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Empty(t, resp.Body.Source)
}

func TestTranslateNotFound(t *testing.T) {
	tr := NewTranslator(Config{})

	resp := tr.Translate(fmt.Errorf("get user: %w", NotFound("User", 999999)), SourceQuery)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, resp.Body.Message, "999999")
}

func TestTranslateInvalidOperation(t *testing.T) {
	tr := NewTranslator(Config{})

	resp := tr.Translate(InvalidOperation("purchase", "quantity must be positive"), SourceProcedure)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Invalid operation", body["error"])
	assert.Equal(t, "quantity must be positive", body["message"])
	assert.NotContains(t, body, "errorNumber")
	assert.NotContains(t, body, "source")
}

func TestTranslateUnclassified(t *testing.T) {
	tr := NewTranslator(Config{})

	resp := tr.Translate(errors.New("context deadline exceeded"), SourceFunction)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, map[string]any{"error": "context deadline exceeded"}, body)
}
