// Package apierror provides the error taxonomy shared by services and the
// standardized response envelopes returned to clients. All errors crossing the
// service boundary go through this package so handlers can map them to HTTP
// status codes without leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota // malformed input shape
	KindNotFound               // referenced entity does not exist
	KindBusiness               // business rule rejected the operation
	KindConflict               // conflicting state (e.g. duplicate sale number)
	KindFatal                  // state divergence — operator attention required
)

// Machine-readable codes. The HTTP layer forwards these untouched; user-facing
// text is the caller's problem.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
	CodeInsufficientStock       = "BUSINESS_INSUFFICIENT_STOCK"
	CodeInvalidPayment          = "BUSINESS_INVALID_PAYMENT"
	CodeInsufficientPermissions = "BUSINESS_INSUFFICIENT_PERMISSIONS"
	CodeInvalidOperation        = "BUSINESS_INVALID_OPERATION"
	CodeDuplicateSaleNumber     = "CONFLICT_DUPLICATE_SALE_NUMBER"
	CodeStateDivergence         = "FATAL_STATE_DIVERGENCE"
	CodeSaleNumberCorrupt       = "FATAL_SALE_NUMBER_CORRUPT"
)

// Error is the canonical application error. Context carries structured detail
// (e.g. {available, requested, product_name}) for logs and API responses.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]interface{}
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithContext attaches a structured key/value pair and returns the same error
// for chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: msg}
}

func Business(code, msg string) *Error {
	return &Error{Kind: KindBusiness, Code: code, Message: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

// Fatal marks a failure observed after the sale row was written — a persisted
// sale may no longer match inventory. Callers must log it loudly, never
// swallow it.
func Fatal(code, msg string, cause error) *Error {
	return &Error{Kind: KindFatal, Code: code, Message: msg, Err: cause}
}

// KindOf reports the Kind of err, or KindFatal for unrecognized errors so that
// unexpected failures always surface as 500s.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// CodeOf returns the machine-readable code of err, or empty for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an error to the status code the HTTP layer should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindBusiness:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ── Response envelopes ───────────────────────────────────────────────────────

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code    string                 `json:"code"`
	Detail  string                 `json:"detail"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Code: CodeValidation, Detail: msg}
}

// FromError converts any error to a safe response body. Foreign errors are
// masked behind a generic message so internals never leak.
func FromError(err error) *APIError {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindFatal {
			return &APIError{Code: e.Code, Detail: "internal server error"}
		}
		return &APIError{Code: e.Code, Detail: e.Message, Context: e.Context}
	}
	return &APIError{Code: "INTERNAL_ERROR", Detail: "internal server error"}
}

// FieldsError wraps multiple field-level validation errors.
type FieldsError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewFields(fields map[string]string) *FieldsError {
	return &FieldsError{Code: CodeValidation, Detail: "validation failed", Fields: fields}
}
