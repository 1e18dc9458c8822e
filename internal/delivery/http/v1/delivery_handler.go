package v1

import (
	"context"
	"net/http"
	"strings"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

type deliveryReader interface {
	Quote(ctx context.Context, req domain.QuoteRequest) domain.DeliveryQuote
	HomeCountry() string
	ActiveCities(ctx context.Context) ([]domain.City, error)
	ActiveRegions(ctx context.Context) ([]domain.Region, error)
	ActiveZones(ctx context.Context) ([]domain.InternationalZone, error)
	ActiveTransporteurs(ctx context.Context) ([]domain.Transporteur, error)
}

// DeliveryHandler serves the storefront delivery selectors and fee quotes.
type DeliveryHandler struct {
	delivery deliveryReader
}

func NewDeliveryHandler(uc deliveryReader) *DeliveryHandler {
	return &DeliveryHandler{delivery: uc}
}

// GET /api/v1/delivery/quote?city=Dakar&country=SN&tarifId=
func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := strings.TrimSpace(q.Get("country"))
	if country == "" {
		country = h.delivery.HomeCountry()
	}

	quote := h.delivery.Quote(r.Context(), domain.QuoteRequest{
		Query:       q.Get("city"),
		Country:     country,
		ZoneTarifID: q.Get("tarifId"),
	})
	utils.WriteJSON(w, http.StatusOK, quote)
}

func (h *DeliveryHandler) Cities(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.delivery.ActiveCities)
}

func (h *DeliveryHandler) Regions(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.delivery.ActiveRegions)
}

func (h *DeliveryHandler) Zones(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.delivery.ActiveZones)
}

func (h *DeliveryHandler) Transporteurs(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.delivery.ActiveTransporteurs)
}

func writeList[T any](w http.ResponseWriter, r *http.Request, list func(context.Context) ([]T, error)) {
	items, err := list(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	utils.WriteJSON(w, http.StatusOK, items)
}
