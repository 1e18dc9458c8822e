package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrSearchSuperseded = errors.New("search superseded by a newer query")
	ErrPaymentDisabled  = errors.New("payment gateway not configured")
)

// ErrorCategory tells a client which part of the UI an error belongs to.
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryDelivery     ErrorCategory = "delivery"
	CategoryPayment      ErrorCategory = "payment"
	CategoryNotFound     ErrorCategory = "not_found"
	CategoryUnauthorized ErrorCategory = "unauthorized"
	CategoryForbidden    ErrorCategory = "forbidden"
	CategoryConflict     ErrorCategory = "conflict"
	CategoryInternal     ErrorCategory = "internal"
)

// Error codes
const (
	CodeValidationFailed       = "validation_failed"
	CodeInvalidDateRange       = "invalid_date_range"
	CodeNotFound               = "not_found"
	CodeResourceInUse          = "resource_in_use"
	CodeDeliveryUnavailable    = "delivery_unavailable"
	CodeCarrierRequired        = "carrier_required"
	CodeCarrierInvalid         = "carrier_invalid"
	CodeProductUnavailable     = "product_unavailable"
	CodeCustomizationForbidden = "customization_not_allowed"
	CodePaymentMethodInvalid   = "payment_method_unsupported"
	CodePaymentInitFailed      = "payment_init_failed"
	CodeInvalidCredentials     = "invalid_credentials"
	CodeEmailTaken             = "email_taken"
	CodeUnauthorized           = "unauthorized"
	CodeForbidden              = "forbidden"
	CodeRateLimited            = "rate_limited"
	CodeSearchSuperseded       = "search_superseded"
	CodeInvalidBody            = "invalid_body"
	CodeInvalidTransition      = "invalid_status_transition"
	CodeInvalidSignature       = "invalid_signature"
	CodeInternal               = "internal_error"
)

// AppError is a classified error that crosses the HTTP boundary intact.
type AppError struct {
	Code     string            `json:"code"`
	Category ErrorCategory     `json:"category"`
	Message  string            `json:"message"`
	Field    string            `json:"field,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Err      error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Category: CategoryValidation, Message: message}
}

// NewFieldErrors builds a validation error keyed by field name.
func NewFieldErrors(fields map[string]string) *AppError {
	return &AppError{
		Code:     CodeValidationFailed,
		Category: CategoryValidation,
		Message:  "Certains champs sont invalides",
		Fields:   fields,
	}
}

func NewDeliveryError(code, message string) *AppError {
	return &AppError{Code: code, Category: CategoryDelivery, Message: message, Field: "delivery"}
}

func NewPaymentError(code, message string, err error) *AppError {
	return &AppError{Code: code, Category: CategoryPayment, Message: message, Field: "payment", Err: err}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Code: CodeNotFound, Category: CategoryNotFound, Message: what + " introuvable", Err: ErrNotFound}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Code: code, Category: CategoryConflict, Message: message, Err: ErrConflict}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Category: CategoryUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Category: CategoryForbidden, Message: message, Err: ErrForbidden}
}
