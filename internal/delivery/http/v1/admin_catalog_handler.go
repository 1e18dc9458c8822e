package v1

import (
	"context"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

// AdminCatalogHandler shares the catalog usecase with the public handler but
// sees hidden and deleted products.
type AdminCatalogHandler struct {
	*CatalogHandler
}

func NewAdminCatalogHandler(uc catalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{CatalogHandler: NewCatalogHandler(uc)}
}

// --- Categories ---

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := utils.DecodeJSON(r, &c); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	c.ID = ""
	if err := h.catalog.CreateCategory(r.Context(), &c); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *AdminCatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	var c domain.Category
	if err := utils.DecodeJSON(r, &c); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	c.ID = id
	if err := h.catalog.UpdateCategory(r.Context(), &c); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *AdminCatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.catalog.DeleteCategory)
}

// --- Products ---

// ListProducts accepts ?isActive=true|false; omitted lists both.
func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	filter.IsActive = queryBool(r, "isActive")
	h.writeProducts(w, r, h.catalog.ListProducts, filter)
}

func (h *AdminCatalogHandler) ListDeletedProducts(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, h.catalog.ListDeletedProducts, productFilter(r))
}

func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.writeProduct(w, r, true)
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := utils.DecodeJSON(r, &p); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	p.ID = ""
	if err := h.catalog.CreateProduct(r.Context(), &p); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	var p domain.Product
	if err := utils.DecodeJSON(r, &p); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	p.ID = id
	if err := h.catalog.UpdateProduct(r.Context(), &p); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.catalog.SoftDeleteProduct)
}

func (h *AdminCatalogHandler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.catalog.RestoreProduct)
}

func (h *AdminCatalogHandler) byID(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	if err := op(r.Context(), id); err != nil {
		utils.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
