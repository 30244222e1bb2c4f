// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dberr

import (
	"errors"
	"net/http"
)

// Kind is the error category used to pick a status code and payload shape.
type Kind int

const (
	KindUnclassified Kind = iota
	KindNotFound
	KindInvalidOperation
	KindApplication
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindApplication:
		return "application"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unclassified"
	}
}

// Source identifies which kind of database object raised an error.
type Source string

const (
	SourceTrigger   Source = "Database Trigger"
	SourceProcedure Source = "Stored Procedure"
	SourceFunction  Source = "Database Function"
	SourceQuery     Source = "Query"
)

// Config controls how errors are translated.
type Config struct {
	// ApplicationThreshold is the lowest error number treated as an
	// application-raised error. Zero means ApplicationBase.
	ApplicationThreshold int

	// IncludeDetails adds a human hint about the error origin to
	// application error payloads.
	IncludeDetails bool
}

// Body is the JSON error payload. Number and Severity are pointers so that
// error number 0 is still rendered.
type Body struct {
	Error       string `json:"error"`
	Message     string `json:"message,omitempty"`
	ErrorNumber *int   `json:"errorNumber,omitempty"`
	Severity    *int   `json:"severity,omitempty"`
	Source      Source `json:"source,omitempty"`
	Details     string `json:"details,omitempty"`
}

// Response is a translated error ready to be written.
type Response struct {
	Status int
	Kind   Kind
	Body   Body
}

// Translator classifies errors and shapes their HTTP responses.
type Translator struct {
	threshold      int
	includeDetails bool
}

// NewTranslator returns a Translator configured by cfg.
func NewTranslator(cfg Config) *Translator {
	threshold := cfg.ApplicationThreshold
	if threshold == 0 {
		threshold = ApplicationBase
	}
	return &Translator{threshold: threshold, includeDetails: cfg.IncludeDetails}
}

// IsApplication reports whether an error number was raised deliberately by
// a trigger or procedure.
func (t *Translator) IsApplication(number int) bool {
	return number >= t.threshold || number == 0
}

// Classify returns the category of err.
func (t *Translator) Classify(err error) Kind {
	var invalid *InvalidOperationError
	switch {
	case err == nil:
		return KindUnclassified
	case errors.As(err, &invalid):
		return KindInvalidOperation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}

	if dbErr, ok := FromError(err); ok {
		if t.IsApplication(dbErr.Number) {
			return KindApplication
		}
		return KindInfrastructure
	}
	return KindUnclassified
}

// Translate converts err into a response. source names the database object
// that was being called and is only reported for application errors.
func (t *Translator) Translate(err error, source Source) Response {
	kind := t.Classify(err)

	switch kind {
	case KindNotFound:
		return Response{
			Status: http.StatusNotFound,
			Kind:   kind,
			Body:   Body{Error: "Not found", Message: err.Error()},
		}

	case KindInvalidOperation:
		var invalid *InvalidOperationError
		errors.As(err, &invalid)
		return Response{
			Status: http.StatusBadRequest,
			Kind:   kind,
			Body:   Body{Error: "Invalid operation", Message: invalid.Message},
		}

	case KindApplication:
		dbErr, _ := FromError(err)
		body := Body{
			Error:       applicationSummary(source),
			Message:     dbErr.Message,
			ErrorNumber: intPtr(dbErr.Number),
			Severity:    intPtr(dbErr.Severity),
			Source:      source,
		}
		if t.includeDetails {
			body.Details = sourceDetails(source)
		}
		return Response{Status: http.StatusBadRequest, Kind: kind, Body: body}

	case KindInfrastructure:
		dbErr, _ := FromError(err)
		return Response{
			Status: http.StatusInternalServerError,
			Kind:   kind,
			Body: Body{
				Error:       "Database error",
				Message:     dbErr.Message,
				ErrorNumber: intPtr(dbErr.Number),
				Severity:    intPtr(dbErr.Severity),
			},
		}
	}

	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return Response{
		Status: http.StatusInternalServerError,
		Kind:   KindUnclassified,
		Body:   Body{Error: msg},
	}
}

func applicationSummary(source Source) string {
	switch source {
	case SourceTrigger:
		return "Order creation failed"
	case SourceProcedure:
		return "Operation failed"
	default:
		return "Request rejected by the database"
	}
}

func sourceDetails(source Source) string {
	switch source {
	case SourceTrigger:
		return "Raised by a server-side trigger while writing the row."
	case SourceProcedure:
		return "Raised by a stored procedure business rule."
	case SourceFunction:
		return "Raised by a database function."
	default:
		return ""
	}
}

func intPtr(n int) *int {
	return &n
}
