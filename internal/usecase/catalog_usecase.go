package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"sunushop-backend/config"
	"sunushop-backend/internal/domain"
	"sunushop-backend/internal/validator"
	"sunushop-backend/pkg/cache"
	"sunushop-backend/pkg/utils"
)

const (
	keyCategoryTree = cache.PrefixCategories + "tree"
	keyCategoryFlat = cache.PrefixCategories + "flat"
)

type CatalogUsecase struct {
	repo  domain.ProductRepository
	cache cache.CacheService
	cfg   *config.Config
}

func NewCatalogUsecase(repo domain.ProductRepository, cache cache.CacheService, cfg *config.Config) *CatalogUsecase {
	return &CatalogUsecase{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

// --- Categories ---

func (u *CatalogUsecase) GetCategoryTree(ctx context.Context) ([]domain.Category, error) {
	if val, found := u.cache.Get(keyCategoryTree); found {
		return val.([]domain.Category), nil
	}

	flat, err := u.GetCategoriesFlat(ctx)
	if err != nil {
		return nil, err
	}
	tree := buildCategoryTree(flat)

	u.cache.Set(keyCategoryTree, tree, u.cfg.CacheCategoryTTL)
	return tree, nil
}

func (u *CatalogUsecase) GetCategoriesFlat(ctx context.Context) ([]domain.Category, error) {
	if val, found := u.cache.Get(keyCategoryFlat); found {
		return val.([]domain.Category), nil
	}

	cats, err := u.repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []domain.Category{}
	}

	u.cache.Set(keyCategoryFlat, cats, u.cfg.CacheCategoryTTL)
	return cats, nil
}

// buildCategoryTree nests level-1 categories under their parent. Orphans are
// dropped from the tree but stay in the flat list.
func buildCategoryTree(flat []domain.Category) []domain.Category {
	children := make(map[string][]domain.Category)
	var roots []domain.Category
	for _, c := range flat {
		c.Children = nil
		if c.Level == domain.CategoryLevelRoot || c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	byOrder := func(list []domain.Category) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Order != list[j].Order {
				return list[i].Order < list[j].Order
			}
			return list[i].Name < list[j].Name
		})
	}

	byOrder(roots)
	for i := range roots {
		kids := children[roots[i].ID]
		byOrder(kids)
		roots[i].Children = kids
	}
	if roots == nil {
		roots = []domain.Category{}
	}
	return roots
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := u.checkCategory(ctx, category); err != nil {
		return err
	}
	if err := u.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewFieldErrors(map[string]string{"name": "Une catégorie avec ce nom existe déjà"})
		}
		return err
	}
	slog.Info("Usecase: CreateCategory", "id", category.ID, "slug", category.Slug)
	u.invalidateCategoryCache()
	return nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if _, err := u.repo.GetCategoryByID(ctx, category.ID); err != nil {
		return wrapNotFound(err, "Catégorie")
	}
	if category.ParentID != nil && *category.ParentID == category.ID {
		return domain.NewFieldErrors(map[string]string{"parentId": "Une catégorie ne peut pas être sa propre parente"})
	}
	if category.Level == domain.CategoryLevelSub {
		n, err := u.repo.CountChildCategories(ctx, category.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.NewFieldErrors(map[string]string{"level": "Cette catégorie a des sous-catégories"})
		}
	}
	if err := u.checkCategory(ctx, category); err != nil {
		return err
	}

	if err := u.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewFieldErrors(map[string]string{"name": "Une catégorie avec ce nom existe déjà"})
		}
		return wrapNotFound(err, "Catégorie")
	}
	u.invalidateCategoryCache()
	return nil
}

// checkCategory normalizes and validates a category and its parent link.
func (u *CatalogUsecase) checkCategory(ctx context.Context, c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.ParentID != nil && strings.TrimSpace(*c.ParentID) == "" {
		c.ParentID = nil
	}
	if err := validator.ValidateStruct(c); err != nil {
		return err
	}

	if c.ParentID != nil {
		parent, err := u.repo.GetCategoryByID(ctx, *c.ParentID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldErrors(map[string]string{"parentId": "Catégorie parente introuvable"})
		}
		if err != nil {
			return err
		}
		if parent.Level != domain.CategoryLevelRoot {
			return domain.NewFieldErrors(map[string]string{"parentId": "La catégorie parente doit être une catégorie principale"})
		}
	}

	if c.Slug == "" {
		c.Slug = utils.GenerateSlug(c.Name)
	}
	existing, err := u.repo.GetCategoryBySlug(ctx, c.Slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != c.ID {
		return domain.NewFieldErrors(map[string]string{"name": "Une catégorie avec ce nom existe déjà"})
	}
	return nil
}

func (u *CatalogUsecase) DeleteCategory(ctx context.Context, id string) error {
	n, err := u.repo.CountChildCategories(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewValidationError(domain.CodeResourceInUse, "Supprimez d'abord les sous-catégories de cette catégorie")
	}
	if err := u.repo.DeleteCategory(ctx, id); err != nil {
		return wrapNotFound(err, "Catégorie")
	}
	u.invalidateCategoryCache()
	return nil
}

func (u *CatalogUsecase) invalidateCategoryCache() {
	u.cache.DeletePrefix(cache.PrefixCategories)
}

// --- Products ---

func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := u.repo.GetProducts(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

// ListDeletedProducts backs the admin trash view.
func (u *CatalogUsecase) ListDeletedProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, domain.Pagination, error) {
	filter.Deleted = true
	filter.IsActive = nil
	return u.ListProducts(ctx, filter)
}

// GetProduct hides deleted and inactive products unless includeHidden is set.
func (u *CatalogUsecase) GetProduct(ctx context.Context, id string, includeHidden bool) (*domain.Product, error) {
	p, err := u.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "Produit")
	}
	if !includeHidden && !p.Purchasable() {
		return nil, domain.NewNotFoundError("Produit")
	}
	return p, nil
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := u.checkProduct(ctx, p); err != nil {
		return err
	}
	if err := u.repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewFieldErrors(map[string]string{"name": "Un produit avec ce nom existe déjà"})
		}
		return err
	}
	slog.Info("Usecase: CreateProduct", "id", p.ID, "vendorDesign", p.IsVendorDesign)
	return nil
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, p *domain.Product) error {
	existing, err := u.repo.GetProductByID(ctx, p.ID)
	if err != nil {
		return wrapNotFound(err, "Produit")
	}
	if p.Slug == "" {
		p.Slug = existing.Slug
	}
	if err := u.checkProduct(ctx, p); err != nil {
		return err
	}
	if err := u.repo.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewFieldErrors(map[string]string{"name": "Un produit avec ce nom existe déjà"})
		}
		return wrapNotFound(err, "Produit")
	}
	return nil
}

func (u *CatalogUsecase) checkProduct(ctx context.Context, p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Images == nil {
		p.Images = []string{}
	}
	if err := validator.ValidateStruct(p); err != nil {
		return err
	}

	if p.IsVendorDesign {
		if p.VendorID == nil || *p.VendorID == "" {
			return domain.NewFieldErrors(map[string]string{"vendorId": "Un design vendeur doit avoir un vendeur"})
		}
		// vendor designs are sold as designed
		p.IsCustomizable = false
	} else {
		p.DesignCommission = 0
	}

	if p.CategoryID != nil && *p.CategoryID != "" {
		if _, err := u.repo.GetCategoryByID(ctx, *p.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewFieldErrors(map[string]string{"categoryId": "Catégorie introuvable"})
			}
			return err
		}
	} else {
		p.CategoryID = nil
	}

	if p.Slug == "" {
		p.Slug = utils.GenerateSlug(p.Name)
	}
	return nil
}

func (u *CatalogUsecase) SoftDeleteProduct(ctx context.Context, id string) error {
	if err := u.repo.SoftDeleteProduct(ctx, id); err != nil {
		return wrapNotFound(err, "Produit")
	}
	slog.Info("Usecase: SoftDeleteProduct", "id", id)
	return nil
}

func (u *CatalogUsecase) RestoreProduct(ctx context.Context, id string) error {
	if err := u.repo.RestoreProduct(ctx, id); err != nil {
		return wrapNotFound(err, "Produit")
	}
	slog.Info("Usecase: RestoreProduct", "id", id)
	return nil
}
