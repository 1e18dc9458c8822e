package utils

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"sunushop-backend/internal/domain"
)

// maxJSONBody caps request bodies decoded by DecodeJSON.
const maxJSONBody = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteError writes a plain message as an internal-category error body.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: &domain.AppError{
		Code:     http.StatusText(status),
		Category: categoryForStatus(status),
		Message:  message,
	}})
}

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error *domain.AppError `json:"error"`
}

// WriteAppError classifies err and writes it with the matching status code.
// Unclassified errors are logged and reported as a generic internal error.
func WriteAppError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)
	status := StatusFor(appErr)
	if status >= http.StatusInternalServerError {
		slog.Error("HTTP: request failed", "code", appErr.Code, "error", err)
	}
	WriteJSON(w, status, ErrorBody{Error: appErr})
}

// ToAppError maps sentinel errors onto categories.
func ToAppError(err error) *domain.AppError {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &domain.AppError{Code: domain.CodeNotFound, Category: domain.CategoryNotFound, Message: "Ressource introuvable", Err: err}
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.NewUnauthorizedError("Authentification requise")
	case errors.Is(err, domain.ErrForbidden):
		return domain.NewForbiddenError("Accès refusé")
	case errors.Is(err, domain.ErrConflict):
		return domain.NewConflictError(domain.CodeValidationFailed, "Conflit avec une ressource existante")
	case errors.Is(err, domain.ErrSearchSuperseded):
		return &domain.AppError{Code: domain.CodeSearchSuperseded, Category: domain.CategoryConflict, Message: "Recherche remplacée par une plus récente", Err: err}
	}
	return &domain.AppError{Code: domain.CodeInternal, Category: domain.CategoryInternal, Message: "Une erreur interne est survenue", Err: err}
}

func StatusFor(e *domain.AppError) int {
	switch e.Category {
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryDelivery:
		return http.StatusUnprocessableEntity
	case domain.CategoryPayment:
		if e.Code == domain.CodePaymentInitFailed {
			return http.StatusBadGateway
		}
		return http.StatusPaymentRequired
	case domain.CategoryNotFound:
		return http.StatusNotFound
	case domain.CategoryUnauthorized:
		return http.StatusUnauthorized
	case domain.CategoryForbidden:
		return http.StatusForbidden
	case domain.CategoryConflict:
		return http.StatusConflict
	}
	if e.Code == domain.CodeRateLimited {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func categoryForStatus(status int) domain.ErrorCategory {
	switch {
	case status == http.StatusNotFound:
		return domain.CategoryNotFound
	case status == http.StatusUnauthorized:
		return domain.CategoryUnauthorized
	case status == http.StatusForbidden:
		return domain.CategoryForbidden
	case status >= 400 && status < 500:
		return domain.CategoryValidation
	}
	return domain.CategoryInternal
}

// DecodeJSON decodes a size-limited request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return domain.NewValidationError(domain.CodeInvalidBody, fmt.Sprintf("Corps de requête invalide : %v", err))
	}
	return nil
}
