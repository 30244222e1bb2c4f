package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// parseInt4 parses raw as an integer that fits the INTEGER columns it is
// bound against.
func parseInt4(raw string) (int, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// int4Field reports a JSON integer field outside the INTEGER range.
func int4Field(name string, v int) string {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Sprintf("%s is out of range, got %d.", name, v)
	}
	return ""
}

// pathID parses the {id} URL parameter and returns the first error found.
func pathID(r *http.Request) (int, string) {
	raw := chi.URLParam(r, "id")
	id, err := parseInt4(raw)
	if err != nil {
		return 0, fmt.Sprintf("Invalid id %q.", raw)
	}
	return id, ""
}

// queryDecimal parses a required decimal query parameter.
func queryDecimal(r *http.Request, name string) (decimal.Decimal, string) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return decimal.Zero, name + " is required."
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("%s must be a decimal number, got %q.", name, raw)
	}
	return d, ""
}

// queryInt parses a required integer query parameter.
func queryInt(r *http.Request, name string) (int, string) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, name + " is required."
	}
	n, err := parseInt4(raw)
	if err != nil {
		return 0, fmt.Sprintf("%s must be an integer, got %q.", name, raw)
	}
	return n, ""
}

// decodeBody decodes a JSON request body into dst. Unknown fields are
// ignored; a missing or malformed body is reported.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) string {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)

	var maxErr *http.MaxBytesError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, io.EOF):
		return "Request body is required."
	case errors.As(err, &maxErr):
		return "Request body is too large."
	default:
		return "Malformed JSON body: " + err.Error()
	}
}
