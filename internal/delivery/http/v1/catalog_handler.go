package v1

import (
	"context"
	"net/http"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

type catalogService interface {
	GetCategoryTree(ctx context.Context) ([]domain.Category, error)
	GetCategoriesFlat(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error)
	ListDeletedProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error)
	GetProduct(ctx context.Context, id string, includeHidden bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	SoftDeleteProduct(ctx context.Context, id string) error
	RestoreProduct(ctx context.Context, id string) error
}

type CatalogHandler struct {
	catalog catalogService
}

func NewCatalogHandler(uc catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: uc}
}

func (h *CatalogHandler) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.catalog.GetCategoryTree)
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeList(w, r, h.catalog.GetCategoriesFlat)
}

func productFilter(r *http.Request) domain.ProductFilter {
	q := r.URL.Query()
	return domain.ProductFilter{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		CategoryID: q.Get("categoryId"),
		VendorID:   q.Get("vendorId"),
		Search:     q.Get("search"),
	}
}

// ListProducts only ever shows active, non-deleted products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	active := true
	filter.IsActive = &active
	h.writeProducts(w, r, h.catalog.ListProducts, filter)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.writeProduct(w, r, false)
}

func (h *CatalogHandler) writeProducts(w http.ResponseWriter, r *http.Request,
	list func(context.Context, domain.ProductFilter) ([]domain.Product, domain.Pagination, error), filter domain.ProductFilter) {
	products, page, err := list(r.Context(), filter)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"data":       products,
		"pagination": page,
	})
}

func (h *CatalogHandler) writeProduct(w http.ResponseWriter, r *http.Request, includeHidden bool) {
	id, err := pathID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	p, err := h.catalog.GetProduct(r.Context(), id, includeHidden)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}
