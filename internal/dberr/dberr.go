// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dberr bridges low-level database errors and the HTTP error
// categories returned by the API. PostgreSQL SQLSTATE codes are mapped to
// integer error numbers so that business-rule violations raised by triggers
// and procedures (numbers >= 50000, or 0) can be told apart from
// infrastructure faults.
package dberr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound marks a read miss. Stores wrap it with the entity and id.
var ErrNotFound = errors.New("not found")

// Application error numbers raised by the database routines with
// ERRCODE 'MSnnn'. The SQLSTATE suffix is added to ApplicationBase.
const (
	ApplicationBase = 50000

	NumberDuplicateOrder    = 50001
	NumberInsufficientStock = 50002
	NumberProductNotFound   = 50003
	NumberUserNotFound      = 50004
	NumberOrderNotFound     = 50005
	NumberInvalidQuantity   = 50006
)

// appStateClass is the SQLSTATE class our PL/pgSQL routines raise with.
const appStateClass = "MS"

// unmappedNumber is reported for SQLSTATEs without a known number.
// It is non-zero and below ApplicationBase, so it classifies as infrastructure.
const unmappedNumber = 1

// stateNumbers maps well-known SQLSTATEs to conventional error numbers.
var stateNumbers = map[string]int{
	"P0001": ApplicationBase, // raise_exception without an explicit code
	"40P01": 1205,            // deadlock_detected
	"55P03": 1222,            // lock_not_available
	"57014": 3617,            // query_canceled
	"23505": 2627,            // unique_violation
	"23503": 547,             // foreign_key_violation
	"23514": 547,             // check_violation
	"23502": 515,             // not_null_violation
	"42601": 102,             // syntax_error
	"42P01": 208,             // undefined_table
	"42883": 2812,            // undefined_function
}

// Error is a numbered database error.
type Error struct {
	Number   int
	Severity int
	Message  string
	SQLState string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("database error %d: %s", e.Number, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromError extracts a numbered database error from err. It recognizes
// *Error values and *pgconn.PgError values anywhere in the wrap chain.
func FromError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{
			Number:   stateNumber(pgErr.Code),
			Severity: severityLevel(pgErr.Severity),
			Message:  pgErr.Message,
			SQLState: pgErr.Code,
			Err:      pgErr,
		}, true
	}

	return nil, false
}

// stateNumber converts a SQLSTATE into an error number.
func stateNumber(state string) int {
	if suffix, ok := strings.CutPrefix(state, appStateClass); ok {
		if n, err := strconv.Atoi(suffix); err == nil {
			return ApplicationBase + n
		}
	}
	if n, ok := stateNumbers[state]; ok {
		return n
	}
	return unmappedNumber
}

// severityLevel maps PostgreSQL severities onto the 0-25 scale used in
// error payloads.
func severityLevel(severity string) int {
	switch severity {
	case "FATAL":
		return 20
	case "PANIC":
		return 21
	case "WARNING":
		return 10
	default:
		return 16
	}
}

// InvalidOperationError reports arguments that were rejected before any
// database call was made.
type InvalidOperationError struct {
	Op      string
	Message string
}

func (e *InvalidOperationError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

// InvalidOperation returns an *InvalidOperationError for op.
func InvalidOperation(op, format string, args ...any) error {
	return &InvalidOperationError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is a read miss for one entity id. It matches ErrNotFound
// with errors.Is.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d was not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a *NotFoundError for entity and id.
func NotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}
