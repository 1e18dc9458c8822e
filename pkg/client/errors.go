package client

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("client: not signed in or session expired")

// ErrorSlot names the part of a checkout form an error belongs under.
type ErrorSlot string

const (
	SlotDelivery ErrorSlot = "delivery"
	SlotPayment  ErrorSlot = "payment"
	SlotFields   ErrorSlot = "fields"
	SlotGeneral  ErrorSlot = "general"
)

const retryLaterMessage = "Une erreur est survenue, veuillez réessayer plus tard"

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Category   string            `json:"category"`
	Message    string            `json:"message"`
	Field      string            `json:"field,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Slot routes the error from its category, never from the message text.
func (e *APIError) Slot() ErrorSlot {
	switch e.Category {
	case "delivery":
		return SlotDelivery
	case "payment":
		return SlotPayment
	case "validation":
		if len(e.Fields) > 0 {
			return SlotFields
		}
	}
	return SlotGeneral
}

// DisplayMessage hides server failures behind a generic retry message.
func (e *APIError) DisplayMessage() string {
	if e.StatusCode >= 500 || e.Message == "" {
		return retryLaterMessage
	}
	return e.Message
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
