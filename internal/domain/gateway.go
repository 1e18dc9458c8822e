package domain

import "context"

// PaymentRequest asks the gateway for a hosted checkout page.
type PaymentRequest struct {
	OrderID     string
	OrderNumber string
	Amount      int64
	Currency    string
	Method      string
	Customer    CustomerInfo
	ReturnURL   string
	CancelURL   string
}

type PaymentSession struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymentCallback is the gateway's notification about a checkout outcome.
type PaymentCallback struct {
	Reference   string `json:"reference" validate:"required"`
	OrderNumber string `json:"orderNumber" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=paid failed"`
	Amount      int64  `json:"amount"`
}

type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
	VerifySignature(payload []byte, signature string) bool
}

// CityResult is one populated place from the GeoNames search.
type CityResult struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	AdminName   string `json:"adminName,omitempty"`
	Population  int64  `json:"population"`
}

type CityFinder interface {
	SearchCities(ctx context.Context, query, country string) ([]CityResult, error)
}
