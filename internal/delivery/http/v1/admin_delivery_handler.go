package v1

import (
	"context"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/usecase"
	"sunushop-backend/pkg/utils"
)

// resource binds the six admin operations of one delivery entity to HTTP.
type resource[T any] struct {
	list   func(context.Context) ([]T, error)
	get    func(context.Context, string) (*T, error)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
	remove func(context.Context, string) error
	toggle func(context.Context, string) (domain.Status, error)
	setID  func(*T, string)
}

func (res resource[T]) List(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, res.list)
}

func (res resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	item, err := res.get(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (res resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := utils.DecodeJSON(r, item); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	res.setID(item, "")
	if err := res.create(r.Context(), item); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

func (res resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	item := new(T)
	if err := utils.DecodeJSON(r, item); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	res.setID(item, id)
	if err := res.update(r.Context(), item); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (res resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if err := res.remove(r.Context(), id); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleStatus flips active/inactive and returns the new status.
func (res resource[T]) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	status, err := res.toggle(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "status": status})
}

func (res resource[T]) register(mux *http.ServeMux, prefix string, wrap func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET "+prefix, wrap(res.List))
	mux.Handle("POST "+prefix, wrap(res.Create))
	mux.Handle("GET "+prefix+"/{id}", wrap(res.Get))
	mux.Handle("PUT "+prefix+"/{id}", wrap(res.Update))
	mux.Handle("DELETE "+prefix+"/{id}", wrap(res.Delete))
	mux.Handle("PATCH "+prefix+"/{id}/status", wrap(res.ToggleStatus))
}

// AdminDeliveryHandler exposes CRUD for cities, regions, international zones,
// carriers and zone tariffs.
type AdminDeliveryHandler struct {
	cities        resource[domain.City]
	regions       resource[domain.Region]
	zones         resource[domain.InternationalZone]
	transporteurs resource[domain.Transporteur]
	tarifs        resource[domain.ZoneTarif]
}

func NewAdminDeliveryHandler(uc *usecase.DeliveryAdminUsecase) *AdminDeliveryHandler {
	return &AdminDeliveryHandler{
		cities: resource[domain.City]{
			list: uc.ListCities, get: uc.GetCity, create: uc.CreateCity, update: uc.UpdateCity,
			remove: uc.DeleteCity, toggle: uc.ToggleCityStatus,
			setID: func(c *domain.City, id string) { c.ID = id },
		},
		regions: resource[domain.Region]{
			list: uc.ListRegions, get: uc.GetRegion, create: uc.CreateRegion, update: uc.UpdateRegion,
			remove: uc.DeleteRegion, toggle: uc.ToggleRegionStatus,
			setID: func(g *domain.Region, id string) { g.ID = id },
		},
		zones: resource[domain.InternationalZone]{
			list: uc.ListZones, get: uc.GetZone, create: uc.CreateZone, update: uc.UpdateZone,
			remove: uc.DeleteZone, toggle: uc.ToggleZoneStatus,
			setID: func(z *domain.InternationalZone, id string) { z.ID = id },
		},
		transporteurs: resource[domain.Transporteur]{
			list: uc.ListTransporteurs, get: uc.GetTransporteur, create: uc.CreateTransporteur, update: uc.UpdateTransporteur,
			remove: uc.DeleteTransporteur, toggle: uc.ToggleTransporteurStatus,
			setID: func(t *domain.Transporteur, id string) { t.ID = id },
		},
		tarifs: resource[domain.ZoneTarif]{
			list: uc.ListTarifs, get: uc.GetTarif, create: uc.CreateTarif, update: uc.UpdateTarif,
			remove: uc.DeleteTarif, toggle: uc.ToggleTarifStatus,
			setID: func(t *domain.ZoneTarif, id string) { t.ID = id },
		},
	}
}

// Register mounts every route under /api/v1/admin/delivery behind wrap.
func (h *AdminDeliveryHandler) Register(mux *http.ServeMux, wrap func(http.HandlerFunc) http.Handler) {
	const base = "/api/v1/admin/delivery"
	h.cities.register(mux, base+"/cities", wrap)
	h.regions.register(mux, base+"/regions", wrap)
	h.zones.register(mux, base+"/zones", wrap)
	h.transporteurs.register(mux, base+"/transporteurs", wrap)
	h.tarifs.register(mux, base+"/tarifs", wrap)
}
