package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "TECHNICAL_ERROR",
		Message:    "technical error, please contact your system administrator",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// UpstreamError reports a failed call to an external collaborator,
// keeping the upstream status code for operator diagnosis.
type UpstreamError struct {
	System     string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s call failed: %v", e.System, e.Err)
	}
	return fmt.Sprintf("%s call failed with status %d", e.System, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps a collaborator failure.
func NewUpstreamError(system string, statusCode int, body string, err error) error {
	return &UpstreamError{System: system, StatusCode: statusCode, Body: body, Err: err}
}

// SQLSTATE classes surfaced as user-readable codes; everything else stays
// a generic technical error.
var pgCodeMap = map[string]struct {
	code    string
	message string
	status  int
}{
	"23505": {"RECORD_EXISTS", "record already exists", http.StatusConflict},
	"23503": {"FOREIGN_KEY_VIOLATION", "related record missing", http.StatusUnprocessableEntity},
	"23502": {"NOT_NULL", "required field missing", http.StatusBadRequest},
	"23514": {"CHECK_CONSTRAINT", "value rejected by constraint", http.StatusBadRequest},
	"22001": {"VALUE_TOO_LONG", "value too long for field", http.StatusBadRequest},
	"40P01": {"DEADLOCK", "database deadlock detected", http.StatusInternalServerError},
	"55P03": {"LOCK_NOT_AVAILABLE", "record locked by another operation", http.StatusInternalServerError},
}

// ToDomainError converts generic errors to DomainError, mapping database
// and collaborator failures onto the error taxonomy.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := pgCodeMap[pgErr.Code]; ok {
			return &DomainError{
				Code:       mapped.code,
				Message:    mapped.message,
				HTTPStatus: mapped.status,
				Details:    map[string]any{"constraint": pgErr.ConstraintName},
				Err:        err,
			}
		}
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return &DomainError{
			Code:       "UPSTREAM_ERROR",
			Message:    fmt.Sprintf("%s unavailable", upstream.System),
			HTTPStatus: http.StatusBadGateway,
			Details: map[string]any{
				"system":            upstream.System,
				"wf-response-code":  upstream.StatusCode,
				"upstream_response": upstream.Body,
			},
			Err: err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}

	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "TECHNICAL_ERROR",
		Message:    "technical error, please contact your system administrator",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
