package v1

import (
	"context"
	"errors"
	"net/http"

	"sunushop-backend/internal/delivery/http/middleware"
	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/countries"
	"sunushop-backend/pkg/utils"
)

// SearchSessionHeader lets a browser tab scope its autocomplete requests so
// a newer keystroke cancels the previous lookup.
const SearchSessionHeader = "X-Search-Session"

type locationService interface {
	SearchCities(ctx context.Context, sessionKey, query, country string) ([]domain.CityResult, error)
	Countries(query string) []countries.Country
}

type LocationHandler struct {
	locations locationService
}

func NewLocationHandler(uc locationService) *LocationHandler {
	return &LocationHandler{locations: uc}
}

// GET /api/v1/locations/cities?q=Thi&country=SN
func (h *LocationHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cities, err := h.locations.SearchCities(r.Context(), searchSession(r), q.Get("q"), q.Get("country"))
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			// client went away
			return
		}
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cities)
}

// GET /api/v1/countries?q=sen
func (h *LocationHandler) Countries(w http.ResponseWriter, r *http.Request) {
	list := h.locations.Countries(r.URL.Query().Get("q"))
	if list == nil {
		list = []countries.Country{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func searchSession(r *http.Request) string {
	if s := r.Header.Get(SearchSessionHeader); s != "" {
		return "hdr:" + s
	}
	if user, ok := domain.UserFromContext(r.Context()); ok {
		return "user:" + user.ID
	}
	return "ip:" + middleware.ClientIP(r)
}
